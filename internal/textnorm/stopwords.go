package textnorm

// stopWords covers common English function words plus job-ad boilerplate that
// says nothing about the field a posting belongs to.
var stopWords = toSet(
	// function words
	"a", "about", "above", "across", "after", "again", "against", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
	"can", "could", "did", "do", "does", "doing", "down", "during", "each", "either", "etc", "few", "for",
	"from", "further", "had", "has", "have", "having", "he", "her", "here", "hers", "him", "his", "how",
	"i", "if", "in", "into", "is", "it", "its", "itself", "just", "may", "me", "might", "more", "most",
	"must", "my", "no", "nor", "not", "of", "off", "on", "once", "only", "or", "other", "our", "ours",
	"out", "over", "own", "per", "same", "she", "should", "so", "some", "such", "than", "that", "the",
	"their", "theirs", "them", "then", "there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "upon", "us", "very", "via", "was", "we", "were", "what", "when", "where",
	"which", "while", "who", "whom", "why", "will", "with", "within", "without", "would", "you", "your",
	"yours",
	// job-ad boilerplate
	"ability", "able", "applicant", "applicants", "apply", "benefits", "best", "candidate", "candidates",
	"company", "competitive", "desired", "duties", "environment", "excellent", "experience", "experienced",
	"good", "great", "ideal", "including", "job", "join", "junior", "key", "knowledge", "like", "looking", "need", "needs", "new",
	"opportunity", "plus", "position", "preferred", "proficiency", "proficient", "required", "requirement",
	"requirements", "responsibilities", "responsible", "role", "salary", "senior", "skill", "skills",
	"seeking", "strong", "team", "understanding", "using", "want", "well", "work", "working", "year", "years",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether the normalized token is ignored by Tokens.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}
