// Package textsim implements lexical text similarity: a TF-IDF vectorizer
// fitted per call and cosine similarity over its sparse rows.
package textsim

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Vectorizer defaults.
const (
	DefaultMaxFeatures = 5000
	DefaultMaxNGram    = 2
)

// Vector is an L2-normalized sparse TF-IDF row keyed by term.
type Vector map[string]float64

// Vectorizer builds TF-IDF rows over unigrams and bigrams. A Vectorizer holds
// no fitted state; each FitTransform call builds its own vocabulary.
type Vectorizer struct {
	MaxFeatures int
	MaxNGram    int
	StopWords   map[string]struct{}
}

// NewVectorizer returns a vectorizer with English stop words, unigrams and
// bigrams, and at most DefaultMaxFeatures terms.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		MaxFeatures: DefaultMaxFeatures,
		MaxNGram:    DefaultMaxNGram,
		StopWords:   englishStopWords,
	}
}

// Tokenize splits text into lowercase words of at least two letters or digits
// and drops stop words.
func (v *Vectorizer) Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := words[:0]
	for _, w := range words {
		if len([]rune(w)) < 2 {
			continue
		}
		if _, stop := v.StopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// Terms expands tokens into the n-grams counted by the vectorizer.
func (v *Vectorizer) Terms(text string) []string {
	tokens := v.Tokenize(text)
	maxN := max(v.MaxNGram, 1)
	terms := make([]string, 0, len(tokens)*maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// FitTransform fits a vocabulary and smoothed IDF on docs and returns one
// normalized row per document. A document with no known terms yields an
// empty row.
func (v *Vectorizer) FitTransform(docs []string) []Vector {
	counts := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)
	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range v.Terms(doc) {
			tf[term]++
		}
		for term, c := range tf {
			docFreq[term]++
			corpusFreq[term] += c
		}
		counts[i] = tf
	}

	vocab := v.limitFeatures(corpusFreq)
	n := float64(len(docs))
	idf := make(map[string]float64, len(vocab))
	for term := range vocab {
		idf[term] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	rows := make([]Vector, len(docs))
	for i, tf := range counts {
		row := make(Vector, len(tf))
		squares := make([]float64, 0, len(tf))
		for term, c := range tf {
			w, ok := idf[term]
			if !ok {
				continue
			}
			val := float64(c) * w
			row[term] = val
			squares = append(squares, val*val)
		}
		if norm := sumSorted(squares); norm > 0 {
			norm = math.Sqrt(norm)
			for term := range row {
				row[term] /= norm
			}
		}
		rows[i] = row
	}
	return rows
}

// limitFeatures keeps the MaxFeatures most frequent terms across the corpus.
// Ties are broken alphabetically so the vocabulary is deterministic.
func (v *Vectorizer) limitFeatures(corpusFreq map[string]int) map[string]struct{} {
	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
				return corpusFreq[terms[i]] > corpusFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	vocab := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		vocab[term] = struct{}{}
	}
	return vocab
}

// Cosine returns the cosine similarity of two normalized rows, clamped to [0, 1].
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	products := make([]float64, 0, len(a))
	for term, x := range a {
		if y, ok := b[term]; ok {
			products = append(products, x*y)
		}
	}
	return Clamp01(sumSorted(products))
}

// sumSorted adds xs in ascending order, so the sum does not depend on map
// iteration order or on which terms carry the weights.
func sumSorted(xs []float64) float64 {
	sort.Float64s(xs)
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum
}

// Similarities fits the vectorizer on the query followed by docs and returns
// the cosine similarity of the query against each doc, aligned with docs.
func (v *Vectorizer) Similarities(query string, docs []string) []float64 {
	all := make([]string, 0, len(docs)+1)
	all = append(all, query)
	all = append(all, docs...)
	rows := v.FitTransform(all)

	scores := make([]float64, len(docs))
	for i := range docs {
		scores[i] = Cosine(rows[0], rows[i+1])
	}
	return scores
}

// Clamp01 bounds x to [0, 1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
