package lexicon

// defaultStopwords are common English function words, pronouns and auxiliaries.
var defaultStopwords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"from", "as", "is", "was", "are", "were", "be", "been", "being", "have", "has", "had",
	"do", "does", "did", "will", "would", "should", "could", "may", "might", "can", "this",
	"that", "these", "those", "i", "you", "he", "she", "it", "we", "they", "my", "your",
	"his", "her", "its", "our", "their", "what", "which", "who", "when", "where", "why",
	"how", "all", "each", "every", "both", "few", "more", "most", "other", "some", "such",
	"no", "nor", "not", "only", "same", "so", "than", "too", "very", "just", "about",
	"am", "me", "them", "then", "there", "here", "if", "because",
}

// DefaultStopwords returns a copy of the built-in stopword list.
func DefaultStopwords() []string {
	out := make([]string, len(defaultStopwords))
	copy(out, defaultStopwords)
	return out
}
