package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// CandidateKind represents what is being ranked. It doubles as the engine name.
	CandidateKind string

	// Method represents the scoring method that produced a result, or a backend name.
	Method string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All candidate kinds supported.
const (
	CareerKind      CandidateKind = "career"
	ScholarshipKind CandidateKind = "scholarship"
)

// All scoring methods. Backend names reuse the single-backend methods.
const (
	MethodDefault      Method = "default"
	MethodTFIDF        Method = "tfidf"
	MethodEmbedding    Method = "bert"
	MethodBlend        Method = "bert_tfidf_ensemble"
	MethodRandomForest Method = "random_forest"
	MethodKNN          Method = "knn"
	MethodNeuralNet    Method = "neural_network"
	MethodEnsemble     Method = "ensemble"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Classifier ensemble weights for career ranking.
const (
	RandomForestWeight = 0.4
	KNNWeight          = 0.3
	NeuralNetWeight    = 0.3
)

// Similarity blend weights for scholarship matching.
const (
	LexicalWeight   = 0.3
	EmbeddingWeight = 0.7
)

// DefaultScore is assigned to every candidate when no backend can score.
const DefaultScore = 0.5

// ClassifierMethods lists the career classifiers in ensemble order.
var ClassifierMethods = []Method{MethodRandomForest, MethodKNN, MethodNeuralNet}

// SimilarityMethods lists the scholarship similarity backends in blend order.
var SimilarityMethods = []Method{MethodTFIDF, MethodEmbedding}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCandidateKinds lists all valid candidate kinds.
var ValidCandidateKinds = map[CandidateKind]struct{}{
	CareerKind:      {},
	ScholarshipKind: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultWeights returns the default backend weights for an engine.
func GetDefaultWeights(kind CandidateKind) map[Method]float64 {
	switch kind {
	case ScholarshipKind:
		return map[Method]float64{
			MethodTFIDF:     LexicalWeight,
			MethodEmbedding: EmbeddingWeight,
		}
	default: // CareerKind
		return map[Method]float64{
			MethodRandomForest: RandomForestWeight,
			MethodKNN:          KNNWeight,
			MethodNeuralNet:    NeuralNetWeight,
		}
	}
}
