package match

import (
	"regexp"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// FoodText captures the normalization output for a food item's name and description.
type FoodText struct {
	Original string
	Name     string
	Text     string
	Tokens   []string
	tokenSet map[string]struct{}
}

// NormalizeFood lowercases and tokenizes the supplied name and description.
func NormalizeFood(name, description string) FoodText {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	combined := strings.TrimSpace(lowerName + " " + strings.ToLower(strings.TrimSpace(description)))

	text := strings.TrimSpace(nonAlphaNum.ReplaceAllString(combined, " "))
	tokens := strings.Fields(text)

	set := make(map[string]struct{}, len(tokens)*2)
	for _, tok := range tokens {
		set[tok] = struct{}{}
		if stem := singular(tok); stem != tok {
			set[stem] = struct{}{}
		}
	}

	return FoodText{
		Original: name,
		Name:     lowerName,
		Text:     text,
		Tokens:   tokens,
		tokenSet: set,
	}
}

// Contains reports whether the keyword appears as a whole word (singular or plural) or,
// for multi-word keywords, as a phrase.
func (f FoodText) Contains(keyword string) bool {
	kw := NormalizeKeyword(keyword)
	if kw == "" {
		return false
	}
	if strings.Contains(kw, " ") {
		return strings.Contains(" "+f.Text+" ", " "+kw+" ")
	}
	if _, ok := f.tokenSet[kw]; ok {
		return true
	}
	_, ok := f.tokenSet[singular(kw)]
	return ok
}

// ContainsAny returns the first keyword found, or "" when none match.
func (f FoodText) ContainsAny(keywords ...string) string {
	for _, kw := range keywords {
		if f.Contains(kw) {
			return kw
		}
	}
	return ""
}

// NameContains is a plain substring check against the lowercased name.
func (f FoodText) NameContains(fragment string) bool {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	return fragment != "" && strings.Contains(f.Name, fragment)
}

// NormalizeKeyword lowercases a keyword and collapses punctuation into single spaces.
func NormalizeKeyword(keyword string) string {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	return strings.TrimSpace(nonAlphaNum.ReplaceAllString(kw, " "))
}

// Stem normalizes a keyword and folds a trailing plural, so "Peanuts" and "peanut" agree.
func Stem(keyword string) string {
	return singular(NormalizeKeyword(keyword))
}

// Stems returns the stem of the keyword and, for phrases, the stem of its last word.
// "Tree Nuts" yields "tree nut" and "nut".
func Stems(keyword string) []string {
	full := Stem(keyword)
	if full == "" {
		return nil
	}
	out := []string{full}
	if idx := strings.LastIndexByte(full, ' '); idx >= 0 {
		out = append(out, full[idx+1:])
	}
	return out
}

func singular(tok string) string {
	switch {
	case len(tok) > 4 && strings.HasSuffix(tok, "ies"):
		return strings.TrimSuffix(tok, "ies") + "y"
	case len(tok) > 3 && (strings.HasSuffix(tok, "shes") || strings.HasSuffix(tok, "ches") || strings.HasSuffix(tok, "oes")):
		return strings.TrimSuffix(tok, "es")
	case len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss"):
		return strings.TrimSuffix(tok, "s")
	}
	return tok
}
