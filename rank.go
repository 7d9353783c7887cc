package qtd

import (
	"sort"
	"strings"
	"unicode"
)

// RankDocuments orders docs by how many distinct question terms they contain
// and returns at most limit of them. Documents without any matching term are
// dropped. Ties keep their original order.
func RankDocuments(docs []*Document, question string, limit int) []*Document {
	terms := Terms(question)
	if len(terms) == 0 || len(docs) == 0 {
		return nil
	}

	type scored struct {
		doc   *Document
		score int
	}
	var matches []scored
	for _, doc := range docs {
		words := make(map[string]struct{})
		for _, w := range Terms(doc.Title + " " + doc.Content) {
			words[w] = struct{}{}
		}
		score := 0
		for _, t := range terms {
			if _, ok := words[t]; ok {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{doc: doc, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]*Document, len(matches))
	for i, m := range matches {
		out[i] = m.doc
	}
	return out
}

// Terms splits text into distinct lowercase words, dropping short words and a
// small set of English stop words.
func Terms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	var terms []string
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, ok := stopWords[f]; ok {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "how": {}, "what": {}, "can": {}, "does": {},
	"with": {}, "this": {}, "that": {}, "are": {}, "you": {}, "why": {}, "use": {},
	"which": {}, "when": {}, "where": {}, "who": {}, "from": {}, "into": {}, "about": {},
}
