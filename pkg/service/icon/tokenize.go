package icon

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// minTokenLen drops one and two letter words, which carry no signal for matching
const minTokenLen = 3

// words lower-cases text and splits it on anything that is not a letter or digit
func words(text string) []string {
	return strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))
}

// tokenize is words without the short ones; it feeds the TF-IDF index only
func tokenize(text string) []string {
	fields := words(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// terms returns unigrams followed by bigrams of tokens
func terms(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens)*2-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// query is a tokenized text ready for scoring. terms feed the index, while
// keywords are matched against every word so acronyms such as "AI" still count.
type query struct {
	terms []string
	words map[string]struct{}
}

func newQuery(text string) *query {
	q := &query{terms: terms(tokenize(text))}
	all := terms(words(text))
	q.words = make(map[string]struct{}, len(all))
	for _, t := range all {
		q.words[t] = struct{}{}
	}
	return q
}

func (q *query) empty() bool {
	return len(q.words) == 0
}

// keywordMatches counts keywords found verbatim (case-insensitive) in the query.
// Multi-word keywords match against query bigrams.
func (q *query) keywordMatches(keywords []string) int {
	n := 0
	for _, kw := range keywords {
		norm := strings.Join(words(kw), " ")
		if norm == "" {
			continue
		}
		if _, ok := q.words[norm]; ok {
			n++
		}
	}
	return n
}
