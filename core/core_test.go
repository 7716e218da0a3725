package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/garima1kafle/path2prep/internal/classifier"
	"github.com/garima1kafle/path2prep/internal/features"
	"github.com/garima1kafle/path2prep/internal/textsim"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClassifier returns the same distribution for every input.
type fixedClassifier struct {
	name   schema.Method
	proba  []float64
	err    error
	panics bool
}

func (f *fixedClassifier) Name() schema.Method { return f.name }

func (f *fixedClassifier) PredictProba(_ context.Context, _ []float64) ([]float64, error) {
	if f.panics {
		panic("corrupt model")
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]float64(nil), f.proba...), nil
}

// topicEmbedder maps texts mentioning Germany to one axis and everything else to another.
type topicEmbedder struct {
	err    error
	panics bool
}

func (e *topicEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if e.panics {
		panic("onnx crashed")
	}
	if e.err != nil {
		return nil, e.err
	}
	if strings.Contains(text, "Germany") {
		return []float32{1, 0}, nil
	}
	return []float32{0.6, 0.8}, nil
}

func (e *topicEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *topicEmbedder) Close() error    { return nil }
func (e *topicEmbedder) ModelID() string { return "topic" }

func careerPool(n int) []schema.Candidate {
	pool := make([]schema.Candidate, n)
	for i := range pool {
		pool[i] = schema.Candidate{Kind: schema.CareerKind, Name: fmt.Sprintf("Career %d", i), IsApproved: true, IsActive: true}
	}
	return pool
}

func careerLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("Career %d", i)
	}
	return labels
}

// risingProba gives label i probability (i+1)/sum so the last label wins.
func risingProba(n int) []float64 {
	p := make([]float64, n)
	total := float64(n*(n+1)) / 2
	for i := range p {
		p[i] = float64(i+1) / total
	}
	return p
}

func scholarshipPool() []schema.Candidate {
	return []schema.Candidate{
		{Kind: schema.ScholarshipKind, Name: "DAAD", Description: "Masters study in Germany for computer science students"},
		{Kind: schema.ScholarshipKind, Name: "Nursing Grant", Description: "Support for healthcare and nursing students"},
		{Kind: schema.ScholarshipKind, Name: "Fulbright", Description: "Graduate study in the United States for computer science"},
	}
}

func studentProfile() *schema.Profile {
	gpa := 3.6
	return &schema.Profile{
		User:            "asha",
		GPA:             &gpa,
		DegreeLevel:     "Master's",
		Major:           "Computer Science",
		TargetCountry:   "Germany",
		TechnicalSkills: []string{"Python", "Machine Learning"},
	}
}

func assertWellFormed(t *testing.T, results []schema.ScoredCandidate) {
	t.Helper()
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
		if i > 0 {
			assert.LessOrEqual(t, r.Score, results[i-1].Score)
		}
	}
}

func TestInvalidTopK(t *testing.T) {
	career := NewCareerEngine(classifier.NewRegistry(nil, nil), nil)
	matcher := NewScholarshipMatcher(MatcherOptions{})
	for _, topK := range []int{0, -3} {
		_, err := career.Rank(context.Background(), studentProfile(), careerPool(3), topK)
		assert.ErrorIs(t, err, ErrInvalidTopK)
		_, err = matcher.Rank(context.Background(), studentProfile(), scholarshipPool(), topK)
		assert.ErrorIs(t, err, ErrInvalidTopK)
	}
}

func TestEmptyPool(t *testing.T) {
	rankers := []Ranker{
		NewCareerEngine(classifier.NewRegistry(nil, nil), nil),
		NewScholarshipMatcher(MatcherOptions{Lexical: textsim.NewVectorizer()}),
	}
	for _, r := range rankers {
		results, err := r.Rank(context.Background(), studentProfile(), nil, 5)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestNoProfileUsesDefaults(t *testing.T) {
	reg := classifier.NewRegistry(careerLabels(4), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodKNN, proba: risingProba(4)})
	rankers := map[schema.CandidateKind]Ranker{
		schema.CareerKind:      NewCareerEngine(reg, nil),
		schema.ScholarshipKind: NewScholarshipMatcher(MatcherOptions{Lexical: textsim.NewVectorizer(), Embedder: &topicEmbedder{}}),
	}
	pools := map[schema.CandidateKind][]schema.Candidate{
		schema.CareerKind:      careerPool(4),
		schema.ScholarshipKind: scholarshipPool(),
	}
	for kind, r := range rankers {
		t.Run(string(kind), func(t *testing.T) {
			results, err := r.Rank(context.Background(), nil, pools[kind], 2)
			require.NoError(t, err)
			require.Len(t, results, 2)
			for i, res := range results {
				assert.Equal(t, schema.DefaultScore, res.Score)
				assert.Equal(t, schema.MethodDefault, res.Method)
				assert.Equal(t, pools[kind][i].Name, res.Candidate.Name)
			}
		})
	}
}

func TestScholarshipEmptyProfileText(t *testing.T) {
	pool := []schema.Candidate{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	m := NewScholarshipMatcher(MatcherOptions{Lexical: textsim.NewVectorizer(), Embedder: &topicEmbedder{}})

	results, err := m.Rank(context.Background(), &schema.Profile{User: "empty"}, pool, 5)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, pool[i].Name, r.Candidate.Name)
		assert.Equal(t, 0.5, r.Score)
		assert.Equal(t, schema.MethodDefault, r.Method)
	}
}

func TestScholarshipBackendsUnavailable(t *testing.T) {
	m := NewScholarshipMatcher(MatcherOptions{LexicalNote: "disabled by configuration"})
	results, err := m.Rank(context.Background(), studentProfile(), scholarshipPool(), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 0.5, r.Score)
		assert.Equal(t, schema.MethodDefault, r.Method)
	}

	status := m.Backends()
	require.Len(t, status, 2)
	assert.False(t, status[0].Available)
	assert.Equal(t, "disabled by configuration", status[0].Reason)
	assert.Equal(t, "not configured", status[1].Reason)
}

// expectedLexical computes the lexical scores the matcher should produce.
func expectedLexical(profile *schema.Profile, pool []schema.Candidate) []float64 {
	docs := make([]string, len(pool))
	for i, c := range pool {
		docs[i] = features.Preprocess(features.CandidateText(c))
	}
	return textsim.NewVectorizer().Similarities(features.Preprocess(features.ProfileText(profile)), docs)
}

func scoreByName(results []schema.ScoredCandidate) map[string]float64 {
	out := make(map[string]float64, len(results))
	for _, r := range results {
		out[r.Candidate.Name] = r.Score
	}
	return out
}

func TestScholarshipLexicalOnly(t *testing.T) {
	pool := scholarshipPool()
	profile := studentProfile()
	m := NewScholarshipMatcher(MatcherOptions{Lexical: textsim.NewVectorizer()})

	results, err := m.Rank(context.Background(), profile, pool, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assertWellFormed(t, results)

	lexical := expectedLexical(profile, pool)
	got := scoreByName(results)
	for i, c := range pool {
		assert.Equal(t, lexical[i], got[c.Name], c.Name)
	}
	for _, r := range results {
		assert.Equal(t, schema.MethodTFIDF, r.Method)
	}
	assert.Equal(t, "DAAD", results[0].Candidate.Name)
}

func TestScholarshipBlend(t *testing.T) {
	pool := scholarshipPool()
	profile := studentProfile()
	m := NewScholarshipMatcher(MatcherOptions{Lexical: textsim.NewVectorizer(), Embedder: &topicEmbedder{}})

	results, err := m.Rank(context.Background(), profile, pool, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assertWellFormed(t, results)

	lexical := expectedLexical(profile, pool)
	// The profile mentions Germany, so only DAAD is aligned in embedding space.
	germany, other := []float32{1, 0}, []float32{0.6, 0.8}
	dense := []float64{
		textsim.CosineDense(germany, germany),
		textsim.CosineDense(germany, other),
		textsim.CosineDense(germany, other),
	}
	got := scoreByName(results)
	for i, c := range pool {
		want := schema.LexicalWeight*lexical[i] + schema.EmbeddingWeight*dense[i]
		assert.InDelta(t, want, got[c.Name], 1e-9, c.Name)
	}
	for _, r := range results {
		assert.Equal(t, schema.MethodBlend, r.Method)
		assert.Contains(t, r.Breakdown, schema.MethodTFIDF)
		assert.Contains(t, r.Breakdown, schema.MethodEmbedding)
	}
}

func TestScholarshipEmbeddingOnly(t *testing.T) {
	m := NewScholarshipMatcher(MatcherOptions{Embedder: &topicEmbedder{}, LexicalNote: "off"})
	results, err := m.Rank(context.Background(), studentProfile(), scholarshipPool(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "DAAD", results[0].Candidate.Name)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, schema.MethodEmbedding, results[0].Method)
}

func TestScholarshipEmbeddingFailureFallsBack(t *testing.T) {
	pool := scholarshipPool()
	profile := studentProfile()
	lexical := expectedLexical(profile, pool)

	for name, emb := range map[string]*topicEmbedder{
		"error": {err: errors.New("session closed")},
		"panic": {panics: true},
	} {
		t.Run(name, func(t *testing.T) {
			m := NewScholarshipMatcher(MatcherOptions{Lexical: textsim.NewVectorizer(), Embedder: emb})
			results, err := m.Rank(context.Background(), profile, pool, 3)
			require.NoError(t, err)
			got := scoreByName(results)
			for i, c := range pool {
				assert.Equal(t, lexical[i], got[c.Name])
			}
			assert.Equal(t, schema.MethodTFIDF, results[0].Method)
		})
	}
}

func TestCareerAgreeingClassifiers(t *testing.T) {
	const n = 10
	proba := risingProba(n)
	reg := classifier.NewRegistry(careerLabels(n), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodRandomForest, proba: proba},
		&fixedClassifier{name: schema.MethodKNN, proba: proba},
		&fixedClassifier{name: schema.MethodNeuralNet, proba: proba},
	)
	e := NewCareerEngine(reg, nil)

	results, err := e.Rank(context.Background(), studentProfile(), careerPool(n), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assertWellFormed(t, results)

	for i, r := range results {
		label := n - 1 - i
		assert.Equal(t, fmt.Sprintf("Career %d", label), r.Candidate.Name)
		want := schema.RandomForestWeight*proba[label] + schema.KNNWeight*proba[label] + schema.NeuralNetWeight*proba[label]
		assert.InDelta(t, want, r.Score, 1e-12)
		assert.Equal(t, schema.MethodEnsemble, r.Method)
		assert.Len(t, r.Breakdown, 3)
	}
}

func TestCareerWeightedEnsemble(t *testing.T) {
	rf := []float64{0.7, 0.2, 0.1}
	knn := []float64{0.1, 0.8, 0.1}
	nn := []float64{0.2, 0.2, 0.6}
	reg := classifier.NewRegistry(careerLabels(3), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodRandomForest, proba: rf},
		&fixedClassifier{name: schema.MethodKNN, proba: knn},
		&fixedClassifier{name: schema.MethodNeuralNet, proba: nn},
	)
	results, err := NewCareerEngine(reg, nil).Rank(context.Background(), studentProfile(), careerPool(3), 3)
	require.NoError(t, err)

	got := scoreByName(results)
	for i := range 3 {
		want := 0.4*rf[i] + 0.3*knn[i] + 0.3*nn[i]
		assert.InDelta(t, want, got[fmt.Sprintf("Career %d", i)], 1e-12)
	}
	assert.Equal(t, "Career 1", results[0].Candidate.Name)
}

func TestCareerPartialAvailabilityRenormalizes(t *testing.T) {
	rf := []float64{1, 0}
	knn := []float64{0, 1}
	reg := classifier.NewRegistry(careerLabels(2), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodRandomForest, proba: rf},
		&fixedClassifier{name: schema.MethodKNN, proba: knn},
	)
	results, err := NewCareerEngine(reg, nil).Rank(context.Background(), studentProfile(), careerPool(2), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Career 0", results[0].Candidate.Name)
	assert.InDelta(t, 0.4/0.7, results[0].Score, 1e-12)
	assert.InDelta(t, 0.3/0.7, results[1].Score, 1e-12)
	assert.Equal(t, schema.MethodEnsemble, results[0].Method)
}

func TestCareerSingleClassifierMethod(t *testing.T) {
	reg := classifier.NewRegistry(careerLabels(2), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodKNN, proba: []float64{0.25, 0.75}})
	results, err := NewCareerEngine(reg, nil).Rank(context.Background(), studentProfile(), careerPool(2), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, schema.MethodKNN, results[0].Method)
	assert.Equal(t, 0.75, results[0].Score)
}

func TestCareerFailingClassifierDegrades(t *testing.T) {
	good := []float64{0.1, 0.9}
	reg := classifier.NewRegistry(careerLabels(2), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodRandomForest, err: errors.New("bad input")},
		&fixedClassifier{name: schema.MethodKNN, proba: good},
		&fixedClassifier{name: schema.MethodNeuralNet, panics: true},
	)
	results, err := NewCareerEngine(reg, nil).Rank(context.Background(), studentProfile(), careerPool(2), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, schema.MethodKNN, results[0].Method)
	assert.Equal(t, 0.9, results[0].Score)
	assert.Equal(t, 0.1, results[1].Score)
}

func TestCareerAllClassifiersUnavailable(t *testing.T) {
	e := NewCareerEngine(classifier.NewRegistry(nil, nil), nil)
	results, err := e.Rank(context.Background(), studentProfile(), careerPool(5), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("Career %d", i), r.Candidate.Name)
		assert.Equal(t, 0.5, r.Score)
		assert.Equal(t, schema.MethodDefault, r.Method)
	}
	assert.Len(t, e.Backends(), 3)
}

func TestCareerUnknownLabels(t *testing.T) {
	// The models know Career 0 and Retired; the pool holds Career 0 and Astronaut.
	reg := classifier.NewRegistry([]string{"Retired", "Career 0"}, features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodRandomForest, proba: []float64{0.8, 0.2}})
	pool := []schema.Candidate{{Name: "Astronaut"}, {Name: "Career 0"}}

	results, err := NewCareerEngine(reg, nil).Rank(context.Background(), studentProfile(), pool, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Career 0", results[0].Candidate.Name)
	assert.Equal(t, 0.2, results[0].Score)
	assert.Equal(t, "Astronaut", results[1].Candidate.Name)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestCareerMismatchedDistributionIsFailure(t *testing.T) {
	reg := classifier.NewRegistry(careerLabels(3), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodRandomForest, proba: []float64{1}})
	results, err := NewCareerEngine(reg, nil).Rank(context.Background(), studentProfile(), careerPool(3), 3)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, schema.MethodDefault, r.Method)
	}
}

func TestStableTies(t *testing.T) {
	reg := classifier.NewRegistry(careerLabels(4), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodKNN, proba: []float64{0.25, 0.25, 0.25, 0.25}})
	results, err := NewCareerEngine(reg, nil).Rank(context.Background(), studentProfile(), careerPool(4), 4)
	require.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("Career %d", i), r.Candidate.Name)
	}
}

func TestScholarshipLexicalTiesKeepPoolOrder(t *testing.T) {
	topics := []string{"robotics", "genomics", "astronomy", "linguistics", "economics", "geology"}
	pool := make([]schema.Candidate, len(topics))
	for i, topic := range topics {
		pool[i] = schema.Candidate{Kind: schema.ScholarshipKind, Name: topic, Description: "graduate study in computer science " + topic}
	}
	m := NewScholarshipMatcher(MatcherOptions{Lexical: textsim.NewVectorizer()})

	for range 50 {
		results, err := m.Rank(context.Background(), studentProfile(), pool, len(pool))
		require.NoError(t, err)
		require.Len(t, results, len(pool))
		for i, r := range results {
			assert.Equal(t, topics[i], r.Candidate.Name)
			assert.Equal(t, results[0].Score, r.Score)
		}
	}
}

func TestResultLengthAndIdempotence(t *testing.T) {
	reg := classifier.NewRegistry(careerLabels(6), features.DefaultColumns(),
		&fixedClassifier{name: schema.MethodRandomForest, proba: risingProba(6)},
		&fixedClassifier{name: schema.MethodKNN, proba: []float64{0.5, 0.1, 0.1, 0.1, 0.1, 0.1}})
	career := NewCareerEngine(reg, nil)
	matcher := NewScholarshipMatcher(MatcherOptions{Lexical: textsim.NewVectorizer(), Embedder: &topicEmbedder{}})

	for n := range 7 {
		for _, k := range []int{1, 3, 10} {
			pool := careerPool(n)
			first, err := career.Rank(context.Background(), studentProfile(), pool, k)
			require.NoError(t, err)
			assert.Len(t, first, min(n, k))
			assertWellFormed(t, first)

			second, err := career.Rank(context.Background(), studentProfile(), pool, k)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		}
	}

	first, err := matcher.Rank(context.Background(), studentProfile(), scholarshipPool(), 2)
	require.NoError(t, err)
	second, err := matcher.Rank(context.Background(), studentProfile(), scholarshipPool(), 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildEnginesWithoutModels(t *testing.T) {
	cfg := testConfig(t)
	engines := BuildEngines(cfg, nil)
	defer func() { _ = engines.Close() }()

	statuses := engines.Backends()
	require.Len(t, statuses, 5)
	available := map[schema.Method]bool{}
	for _, s := range statuses {
		available[s.Name] = s.Available
	}
	assert.True(t, available[schema.MethodTFIDF])
	assert.False(t, available[schema.MethodEmbedding])
	assert.False(t, available[schema.MethodRandomForest])

	assert.Equal(t, schema.CareerKind, engines.For(schema.CareerKind).Kind())
	assert.Equal(t, schema.ScholarshipKind, engines.For(schema.ScholarshipKind).Kind())
}
