// Package cmd defines the command-line interface for path2prep.
package cmd

import (
	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(careersCmd)
	rootCmd.AddCommand(scholarshipsCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-candidate metadata (organization, country, deadline, salary)")
	rootCmd.PersistentFlags().Bool("explain", false, "Print the scoring method and per-backend score breakdown")
	rootCmd.PersistentFlags().IntP("limit", "l", 0, "Number of results to return (top_k); unset means 3 careers or 5 scholarships")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("pprof", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Path to a JSON file holding one student profile or an array of them")
	rootCmd.PersistentFlags().StringP("user", "u", "", "User whose profile is ranked")
	rootCmd.PersistentFlags().String("careers", "", "Path to the career pool (.json or .csv)")
	rootCmd.PersistentFlags().String("scholarships", "", "Path to the scholarship pool (.json or .csv)")
	rootCmd.PersistentFlags().String("models-dir", contract.DefaultModelsDir, "Directory holding the classifier and embedding model artifacts")
	rootCmd.PersistentFlags().String("ort-lib", "", "Path to the ONNX Runtime shared library")
	rootCmd.PersistentFlags().String("embed-model", "", "Path to the sentence embedding ONNX model")
	rootCmd.PersistentFlags().String("embed-tokenizer", "", "Path to the embedding tokenizer.json")
	rootCmd.PersistentFlags().Int("embed-dim", contract.DefaultEmbeddingDim, "Embedding vector dimension")
	rootCmd.PersistentFlags().Int("embed-max-seq-len", contract.DefaultMaxSeqLen, "Maximum token sequence length for embeddings")
	rootCmd.PersistentFlags().String("lexical", "yes", "Enable the TF-IDF similarity backend (yes/no)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Embedding cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Ranking history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for ranking history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: trace or debug or info or warn or error or disabled")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address the HTTP API listens on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyShowCmd to Viper
	historyShowCmd.Flags().String("engine", string(schema.CareerKind), "Engine whose ranking is shown: career or scholarship")
	if err := viper.BindPFlags(historyShowCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history show flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
