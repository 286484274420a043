package requirements

import (
	"strings"
	"unicode"
)

// abbreviations pairs long domain phrases with their common short forms.
var abbreviations = [][2]string{
	{"javascript", "js"},
	{"typescript", "ts"},
	{"user experience", "ux"},
	{"user interface", "ui"},
	{"kubernetes", "k8s"},
	{"machine learning", "ml"},
	{"artificial intelligence", "ai"},
	{"human resources", "hr"},
	{"continuous integration", "ci"},
	{"continuous delivery", "cd"},
	{"quality assurance", "qa"},
	{"amazon web services", "aws"},
	{"google cloud platform", "gcp"},
	{"search engine optimization", "seo"},
	{"customer relationship management", "crm"},
	{"enterprise resource planning", "erp"},
	{"human resources information system", "hris"},
	{"natural language processing", "nlp"},
	{"postgresql", "postgres"},
	{"certified public accountant", "cpa"},
}

// Synonyms expands a requirement name into its deterministic local variants:
// separator swaps, a naive plural toggle and known abbreviations.
// The lower-cased name itself is always the first entry.
func Synonyms(name string) []string {
	base := cleanName(name)
	if base == "" {
		return nil
	}

	out := []string{base}
	seen := map[string]struct{}{base: {}}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	forms := separatorVariants(base)
	for _, form := range forms {
		add(form)
	}
	for _, form := range forms {
		add(togglePlural(form))
	}

	spaced := strings.Join(splitParts(base), " ")
	for _, pair := range abbreviations {
		switch spaced {
		case pair[0]:
			add(pair[1])
		case pair[1]:
			for _, form := range separatorVariants(pair[0]) {
				add(form)
			}
		}
	}

	return out
}

func cleanName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func splitParts(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '.' || r == '_' || r == '/'
	})
}

func separatorVariants(s string) []string {
	parts := splitParts(s)
	if len(parts) < 2 {
		return []string{s}
	}
	return []string{
		strings.Join(parts, " "),
		strings.Join(parts, "-"),
		strings.Join(parts, "."),
		strings.Join(parts, ""),
	}
}

// togglePlural adds or removes a trailing plural on the last word.
func togglePlural(s string) string {
	parts := splitParts(s)
	if len(parts) == 0 || len([]rune(parts[len(parts)-1])) < 4 {
		return ""
	}
	runes := []rune(s)
	last := runes[len(runes)-1]
	if !unicode.IsLetter(last) {
		return ""
	}

	switch {
	case strings.HasSuffix(s, "ies"):
		return strings.TrimSuffix(s, "ies") + "y"
	case strings.HasSuffix(s, "ss"):
		return s + "es"
	case last == 's':
		return string(runes[:len(runes)-1])
	case last == 'y' && !isVowel(runes[len(runes)-2]):
		return string(runes[:len(runes)-1]) + "ies"
	default:
		return s + "s"
	}
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}
