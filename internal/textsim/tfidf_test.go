package textsim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	v := NewVectorizer()
	assert.Equal(t, []string{"machine", "learning", "scholarship", "germany"},
		v.Tokenize("The Machine-Learning scholarship in Germany, a"))
	assert.Empty(t, v.Tokenize("a i of the"))
}

func TestTerms(t *testing.T) {
	v := NewVectorizer()
	assert.Equal(t, []string{"data", "science", "data science"}, v.Terms("data science"))

	v.MaxNGram = 1
	assert.Equal(t, []string{"data", "science"}, v.Terms("data science"))
}

func TestFitTransform(t *testing.T) {
	v := NewVectorizer()
	rows := v.FitTransform([]string{"python data", "python", ""})
	require.Len(t, rows, 3)

	for _, row := range rows[:2] {
		var norm float64
		for _, x := range row {
			norm += x * x
		}
		assert.InDelta(t, 1.0, norm, 1e-9)
	}
	assert.Empty(t, rows[2])

	// "python" appears in two of three documents, "data" in one, so "data"
	// carries the larger idf weight.
	assert.Greater(t, rows[0]["data"], rows[0]["python"])

	// Smooth idf: "python" weighs ln(4/3)+1 and "data" ln(4/2)+1 in row 0.
	pyIDF, dataIDF := math.Log(4.0/3.0)+1, math.Log(2.0)+1
	assert.InDelta(t, dataIDF/pyIDF, rows[0]["data"]/rows[0]["python"], 1e-9)
	assert.InDelta(t, 1.0, rows[1]["python"], 1e-9)
}

func TestMaxFeatures(t *testing.T) {
	v := NewVectorizer()
	v.MaxFeatures = 1
	v.MaxNGram = 1
	rows := v.FitTransform([]string{"alpha beta beta", "beta gamma"})
	assert.Equal(t, Vector{"beta": 1}, rows[0])
	assert.Equal(t, Vector{"beta": 1}, rows[1])
}

func TestSimilarities(t *testing.T) {
	v := NewVectorizer()
	scores := v.Similarities("computer science masters germany", []string{
		"masters scholarship for computer science students in germany",
		"nursing grant for healthcare students",
		"",
	})
	require.Len(t, scores, 3)
	assert.Greater(t, scores[0], scores[1])
	assert.Equal(t, 0.0, scores[1])
	assert.Equal(t, 0.0, scores[2])
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}

	// Identical text matches fully.
	same := v.Similarities("robotics research", []string{"robotics research"})
	assert.InDelta(t, 1.0, same[0], 1e-9)
}

func TestSimilaritiesDeterministic(t *testing.T) {
	v := NewVectorizer()
	docs := []string{"python data analysis", "data engineering", "art history"}
	assert.Equal(t, v.Similarities("python data", docs), v.Similarities("python data", docs))
}

func TestSimilaritiesBitIdenticalAcrossCalls(t *testing.T) {
	v := NewVectorizer()
	query := "masters computer science machine learning germany python research"
	docs := []string{
		"masters scholarship for computer science students in germany",
		"machine learning research fellowship for python developers",
		"graduate study in germany for research students in science",
		"computer vision and machine learning masters programme",
	}
	want := v.Similarities(query, docs)
	for range 200 {
		assert.Equal(t, want, v.Similarities(query, docs))
	}
}

func TestSimilaritiesEqualForSymmetricDocs(t *testing.T) {
	v := NewVectorizer()
	topics := []string{"robotics", "genomics", "astronomy", "linguistics", "economics", "geology"}
	docs := make([]string, len(topics))
	for i, topic := range topics {
		docs[i] = "graduate study in computer science " + topic
	}
	for range 50 {
		scores := v.Similarities("computer science masters", docs)
		for _, s := range scores {
			assert.Equal(t, scores[0], s)
		}
		assert.Greater(t, scores[0], 0.0)
	}
}

func TestCosineDense(t *testing.T) {
	assert.InDelta(t, 1.0, CosineDense([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-6)
	assert.Equal(t, 0.0, CosineDense([]float32{1, 0}, []float32{-1, 0}))
	assert.Equal(t, 0.0, CosineDense([]float32{1, 0}, []float32{0, 0}))
	assert.Equal(t, 0.0, CosineDense([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosineDense(nil, nil))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 1.0, Clamp01(1.0000001))
	assert.Equal(t, 0.3, Clamp01(0.3))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
}
