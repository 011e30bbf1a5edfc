package taxonomy

// defaultTopics is the reference keyword grouping. Order matters: it fixes the
// encoder's topic dimensions.
var defaultTopics = []Topic{
	{Name: "gym", Keywords: []string{
		"gym", "workout", "exercise", "fitness", "strength", "cardio", "treadmill", "weights",
		"reps", "sets", "training", "muscle", "lifting", "squats", "chest", "legs", "arms",
		"bicep", "tricep", "pulldown", "press",
	}},
	{Name: "beach", Keywords: []string{
		"beach", "sand", "ocean", "sea", "water", "waves", "shore", "coast", "seashore",
		"seaside", "surf", "swimming",
	}},
	{Name: "sadness", Keywords: []string{
		"sad", "sadness", "pain", "hurt", "disappointed", "down", "depressed", "unhappy",
		"miserable", "heartbroken", "upset", "grief",
	}},
	{Name: "loneliness", Keywords: []string{
		"lonely", "loneliness", "alone", "isolated", "solitude", "disconnected", "abandoned", "unwanted",
	}},
	{Name: "happiness", Keywords: []string{
		"happy", "happiness", "joy", "joyful", "excited", "delighted", "cheerful", "proud",
		"satisfied", "accomplished", "wonderful", "fantastic",
	}},
	{Name: "anxiety", Keywords: []string{
		"anxious", "anxiety", "worried", "nervous", "fear", "afraid", "uncertain", "stressed",
		"tension", "scared", "panic",
	}},
	{Name: "relationships", Keywords: []string{
		"friend", "friends", "family", "love", "relationship", "marriage", "partner", "husband",
		"wife", "people", "person", "mother", "father", "brother", "sister", "spouse",
	}},
	{Name: "work", Keywords: []string{
		"work", "job", "career", "project", "task", "professional", "office", "company",
		"business", "meeting", "deadline", "coding",
	}},
	{Name: "goals", Keywords: []string{
		"goal", "goals", "target", "aim", "objective", "plan", "future", "progress", "success",
		"achievement", "reach", "accomplish",
	}},
	{Name: "home", Keywords: []string{
		"home", "house", "room", "apartment", "family", "stayed", "indoor", "inside", "kitchen", "bedroom",
	}},
	{Name: "temple", Keywords: []string{
		"temple", "church", "prayer", "worship", "spiritual", "meditation", "faith", "religious",
		"sacred", "blessing",
	}},
	{Name: "food", Keywords: []string{
		"food", "eat", "eating", "meal", "lunch", "dinner", "breakfast", "restaurant", "cooking",
		"recipe", "veg", "meat", "pizza", "noodles", "rice",
	}},
	{Name: "emotions", Keywords: []string{
		"feel", "feeling", "feelings", "felt", "emotion", "emotions", "emotional", "emotionally",
		"mood", "moods", "cry", "cried", "crying", "tears", "missing", "overwhelmed", "numb",
	}},
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	return MustNew(defaultTopics)
}
