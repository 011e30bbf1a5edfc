package ask

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/mindsync/internal/domain/embedding"
	domjournal "github.com/kailas-cloud/mindsync/internal/domain/journal"
)

// Activities in detection priority order.
const (
	activityGym       = "gym"
	activityBeach     = "beach"
	activityTravel    = "travel"
	activityEmotional = "emotional"
)

type cue struct {
	name  string
	words []string
}

var activityCues = []cue{
	{activityGym, []string{"gym", "workout", "exercise", "strength", "cardio", "treadmill", "weights", "fitness"}},
	{activityBeach, []string{"beach", "sand", "water", "ocean", "sea"}},
	{activityTravel, []string{"travel", "trip", "visit", "went", "journey"}},
	{activityEmotional, []string{"pain", "lonely", "loneliness", "sadness", "anxious", "anxiety"}},
}

var emotionCues = []cue{
	{"happy", []string{"happy", "proud", "satisfied", "joy", "excited", "alive", "accomplished", "victory"}},
	{"lonely", []string{"lonely", "loneliness", "alone"}},
	{"anxious", []string{"anxious", "anxiety", "worried", "nervous", "fear", "afraid"}},
	{"sad", []string{"sad", "sadness", "pain", "disappointed", "down", "depressed", "unhappy"}},
	{"grateful", []string{"grateful", "thankful", "appreciate"}},
	{"reflective", []string{"thinking", "thought", "reflection", "wonder", "consider", "realize"}},
}

var (
	gymQueryWords   = []string{"gym", "workout", "exercise", "fitness"}
	entryQueryWords = []string{"entry", "entries", "journal"}
	greetings       = map[string]struct{}{"hi": {}, "hello": {}, "hey": {}, "sup": {}}
)

// greetingMaxLen is the query length (in characters) below which any query counts as a greeting.
const greetingMaxLen = 10

var listeningPrompts = []string{
	"I'm here to listen whenever you're ready to share. What's on your mind today? 💙",
	"Your journal is your safe space to express whatever you need to. Tell me what you're thinking about. 💭",
	"I'm here to reflect and listen with you. What do you want to talk about right now? 🌟",
	"You're doing important work by pausing to think about yourself. What's calling for your attention? 💙",
	"I see you're taking time to reflect. What's the thing you most need to process? 💭",
	"What's in your heart right now? I'm here to listen without judgment. 💙",
}

// TemplateResponder writes a rule-based reply from the retrieved entries.
// The variant is picked by hashing the query, so equal inputs give equal replies.
type TemplateResponder struct{}

// NewTemplateResponder creates a TemplateResponder.
func NewTemplateResponder() *TemplateResponder { return &TemplateResponder{} }

// Name identifies the responder in logs and metrics.
func (*TemplateResponder) Name() string { return "template" }

// Respond never fails.
func (*TemplateResponder) Respond(_ context.Context, query string, excerpts []domjournal.Excerpt) (string, error) {
	return compose(query, excerpts), nil
}

// signals is what the templates know about the retrieved entries.
type signals struct {
	query     string
	allText   string
	activity  string
	emotions  []string
	firstMood domjournal.Mood
	count     int
}

func readSignals(query string, excerpts []domjournal.Excerpt) signals {
	texts := make([]string, len(excerpts))
	for i, e := range excerpts {
		texts[i] = e.Text
	}
	s := signals{
		query:   strings.ToLower(query),
		allText: strings.ToLower(strings.Join(texts, " ")),
		count:   len(excerpts),
	}
	if len(excerpts) > 0 {
		s.firstMood = excerpts[0].Metadata.Mood
	}
	for _, c := range activityCues {
		if containsAny(s.allText, c.words) {
			s.activity = c.name
			break
		}
	}
	for _, c := range emotionCues {
		if containsAny(s.allText, c.words) {
			s.emotions = append(s.emotions, c.name)
		}
	}
	return s
}

func (s signals) hasEmotion(name string) bool {
	for _, e := range s.emotions {
		if e == name {
			return true
		}
	}
	return false
}

func (s signals) firstEmotion(fallback string) string {
	if len(s.emotions) > 0 {
		return s.emotions[0]
	}
	return fallback
}

func compose(query string, excerpts []domjournal.Excerpt) string {
	if len(excerpts) == 0 {
		return pick(query, listeningPrompts)
	}
	s := readSignals(query, excerpts)

	switch {
	case s.activity == activityGym || containsAny(s.query, gymQueryWords):
		return pick(query, gymReplies(s))
	case isGreeting(s.query):
		return pick(query, greetingReplies(s))
	case strings.Contains(s.query, "beach") ||
		(s.activity == activityBeach && !strings.Contains(s.query, "gym")):
		return pick(query, beachReplies())
	case s.hasEmotion("happy") && s.firstMood == domjournal.MoodHappy:
		return fmt.Sprintf("Your %s mood entry shows real fulfillment. You're experiencing "+
			"accomplishment and pride. That's a wonderful state to be in. "+
			"What's driving this positive energy right now? 🌟", s.firstMood)
	case s.hasEmotion("lonely") || strings.Contains(s.query, "lonely"):
		return pick(query, lonelyReplies())
	case containsAny(s.query, entryQueryWords):
		return pick(query, entryReplies(s))
	default:
		return pick(query, defaultReplies(s))
	}
}

func gymReplies(s signals) []string {
	var parts []string
	if strings.Contains(s.allText, "warm-up") {
		parts = append(parts, "a warm-up")
	}
	if strings.Contains(s.allText, "chest press") || strings.Contains(s.allText, "strength") {
		parts = append(parts, "strength work")
	}
	if strings.Contains(s.allText, "cardio") || strings.Contains(s.allText, "bike") ||
		strings.Contains(s.allText, "treadmill") {
		parts = append(parts, "cardio")
	}
	routine := "a solid session"
	if len(parts) > 0 {
		routine = joinList(parts)
	}

	return []string{
		fmt.Sprintf("Your gym session shows real dedication! You put in %s. "+
			"Showing up and pushing through the last reps is commitment. "+
			"How are you feeling physically after that session? 💪", routine),
		fmt.Sprintf("I can see you completed your gym routine with %s. That's the kind of "+
			"consistency that builds real strength. What's your next goal? 🏋️", routine),
		"Your workout was structured and thorough. The effort you put in today is cumulative: " +
			"every rep and every set builds toward a stronger, more confident you. " +
			"How did your body feel leaving the gym? 💙",
		"That gym session was about more than the exercises. It was discipline and trusting the " +
			"process. You showed up and pushed through, and that's the real victory. " +
			"How is your recovery going? Are you sore? 🔥",
	}
}

func greetingReplies(s signals) []string {
	activity := s.activity
	if activity == "" {
		activity = "your experiences"
	}
	mood := string(s.firstMood)
	if mood == "" {
		mood = string(domjournal.MoodNeutral)
	}
	return []string{
		fmt.Sprintf("Hey! I can see from your entries that you're working through %s, and you're "+
			"also taking care of yourself. What would feel good to talk about right now? 💙",
			s.firstEmotion("some deep feelings")),
		fmt.Sprintf("Hi there! I notice your recent %s mood entry about %s. "+
			"What's on your mind today? 💭", mood, activity),
		"Hello! I've been reading through your journey. You're doing real work on yourself. " +
			"How are you doing in this moment? 🌟",
		"Hi! Your words show both vulnerability and determination. That balance is important. " +
			"What would help you right now? 💙",
	}
}

func beachReplies() []string {
	return []string{
		"You spent time at the beach, and that's a moment of connection. " +
			"What was the balance of feelings like that day? 🏖️",
		"Your beach day shows you seeking good moments even while processing deeper emotions. " +
			"That's healthy. What did you need most that day? 💙",
	}
}

func lonelyReplies() []string {
	return []string{
		"I notice you're experiencing loneliness, and you're aware of it. That awareness is the " +
			"first step. Who or what has helped you feel less alone? 💙",
		"The loneliness you're feeling is real and valid. Your entries show you're working " +
			"through it thoughtfully. Have you been able to connect with anyone about it? 💭",
	}
}

func entryReplies(s signals) []string {
	return []string{
		fmt.Sprintf("You have %d entries here. What patterns are you noticing across them? 💭", s.count),
		fmt.Sprintf("Your %d entries tell a story of someone committed to understanding themselves. "+
			"What connections do you see between them? 🌟", s.count),
	}
}

func defaultReplies(s signals) []string {
	return []string{
		"I can see you're working on several fronts at once. " +
			"What's feeling most important to focus on right now? 💙",
		fmt.Sprintf("Your entries show depth and action. You're processing %s while still showing up "+
			"for yourself. What's the hardest part right now? 💭", s.firstEmotion("complex feelings")),
		"You're being honest about your emotions and following through on your plans. " +
			"Where are you feeling the most progress? 🌟",
	}
}

func isGreeting(lowerQuery string) bool {
	if utf8.RuneCountInString(lowerQuery) < greetingMaxLen {
		return true
	}
	_, ok := greetings[lowerQuery]
	return ok
}

// pick chooses a variant from the query hash.
func pick(query string, variants []string) string {
	return variants[uint32(embedding.Hash(query))%uint32(len(variants))]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func joinList(parts []string) string {
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
