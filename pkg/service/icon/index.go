package icon

import (
	"math"
	"slices"
)

// index is a TF-IDF model over a fixed set of documents
type index struct {
	vocab map[string]int
	idf   []float64
	docs  []map[int]float64
}

// newIndex builds L2-normalized TF-IDF vectors for docs. Terms appearing in more
// than maxDF of the documents are dropped unless that would leave no terms at all.
func newIndex(docs [][]string, maxDF float64) *index {
	n := len(docs)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, t := range doc {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	keep := func(t string) bool { return true }
	if maxDF > 0 && maxDF < 1 {
		limit := maxDF * float64(n)
		ceiling := func(t string) bool { return float64(df[t]) <= limit }
		for t := range df {
			if ceiling(t) {
				keep = ceiling
				break
			}
		}
	}

	words := make([]string, 0, len(df))
	for t := range df {
		if keep(t) {
			words = append(words, t)
		}
	}
	slices.Sort(words)

	idx := &index{
		vocab: make(map[string]int, len(words)),
		idf:   make([]float64, len(words)),
		docs:  make([]map[int]float64, n),
	}
	for i, t := range words {
		idx.vocab[t] = i
		idx.idf[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}
	for i, doc := range docs {
		idx.docs[i] = idx.vectorize(doc)
	}
	return idx
}

// vectorize maps terms onto the vocabulary. Unknown terms are ignored.
func (x *index) vectorize(terms []string) map[int]float64 {
	vec := make(map[int]float64)
	for _, t := range terms {
		if i, ok := x.vocab[t]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i, tf := range vec {
		w := tf * x.idf[i]
		vec[i] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// scores returns the cosine similarity between terms and every document
func (x *index) scores(terms []string) []float64 {
	q := x.vectorize(terms)
	out := make([]float64, len(x.docs))
	for d, doc := range x.docs {
		var dot float64
		for i, w := range q {
			dot += w * doc[i]
		}
		out[d] = dot
	}
	return out
}
