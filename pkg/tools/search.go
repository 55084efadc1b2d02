// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tools

import (
	"math"
	"sort"
	"strings"
)

const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// BM25Index is the default search strategy: it ranks specs against a
// query using standard BM25 over a per-spec searchable document built
// from name, description, and argument names/descriptions.
type BM25Index struct {
	docs []bm25Doc
}

type bm25Doc struct {
	spec   Spec
	terms  []string
	freq   map[string]int
	length int
}

// NewBM25Index creates an empty BM25 search index.
func NewBM25Index() *BM25Index {
	return &BM25Index{}
}

// Index rebuilds the index from scratch; document frequency and average
// document length are recomputed on every call.
func (b *BM25Index) Index(specs []Spec) {
	docs := make([]bm25Doc, 0, len(specs))
	for _, spec := range specs {
		terms := tokenize(searchableText(spec))
		freq := make(map[string]int, len(terms))
		for _, t := range terms {
			freq[t]++
		}
		docs = append(docs, bm25Doc{spec: spec, terms: terms, freq: freq, length: len(terms)})
	}
	b.docs = docs
}

// Search ranks the indexed specs against query, returning up to limit
// results with positive score, sorted by score descending.
func (b *BM25Index) Search(query string, limit int) []Scored {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || len(b.docs) == 0 {
		return nil
	}

	avgLen := b.averageDocLength()
	df := b.documentFrequencies(queryTerms)
	n := float64(len(b.docs))

	scored := make([]Scored, 0, len(b.docs))
	for _, doc := range b.docs {
		score := 0.0
		for _, term := range queryTerms {
			tf := float64(doc.freq[term])
			if tf == 0 {
				continue
			}
			d := float64(df[term])
			idf := math.Log(1 + (n-d+0.5)/(d+0.5))
			denom := tf + bm25K1*(1-bm25B+bm25B*float64(doc.length)/avgLen)
			score += idf * (tf * (bm25K1 + 1) / denom)
		}
		if score > 0 {
			scored = append(scored, Scored{Spec: doc.spec, Score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Spec.Name < scored[j].Spec.Name
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func (b *BM25Index) averageDocLength() float64 {
	if len(b.docs) == 0 {
		return 0
	}
	total := 0
	for _, d := range b.docs {
		total += d.length
	}
	return float64(total) / float64(len(b.docs))
}

func (b *BM25Index) documentFrequencies(queryTerms []string) map[string]int {
	df := make(map[string]int, len(queryTerms))
	for _, term := range queryTerms {
		for _, doc := range b.docs {
			if doc.freq[term] > 0 {
				df[term]++
			}
		}
	}
	return df
}

// searchableText concatenates the fields the spec's text is scored
// against: name, description, each argument name, each argument
// description.
func searchableText(spec Spec) string {
	var b strings.Builder
	b.WriteString(spec.Name)
	b.WriteByte(' ')
	b.WriteString(spec.Description)
	if spec.InputSchema != nil {
		if props, ok := spec.InputSchema["properties"].(map[string]any); ok {
			for name, raw := range props {
				b.WriteByte(' ')
				b.WriteString(name)
				if prop, ok := raw.(map[string]any); ok {
					if desc, ok := prop["description"].(string); ok {
						b.WriteByte(' ')
						b.WriteString(desc)
					}
				}
			}
		}
	}
	return b.String()
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// AllIndex is the debugging search strategy: it returns every indexed
// spec, up to limit, each scored 1.0, regardless of query.
type AllIndex struct {
	specs []Spec
}

// NewAllIndex creates an empty return-all search index.
func NewAllIndex() *AllIndex {
	return &AllIndex{}
}

func (a *AllIndex) Index(specs []Spec) {
	a.specs = specs
}

func (a *AllIndex) Search(_ string, limit int) []Scored {
	specs := a.specs
	if limit > 0 && len(specs) > limit {
		specs = specs[:limit]
	}
	out := make([]Scored, len(specs))
	for i, s := range specs {
		out[i] = Scored{Spec: s, Score: 1.0}
	}
	return out
}
