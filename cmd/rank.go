package cmd

import (
	"github.com/garima1kafle/path2prep/core"
	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/spf13/cobra"
)

// careersCmd ranks careers for a profile.
var careersCmd = &cobra.Command{
	Use:   "careers",
	Short: "Show the careers that best fit a student profile.",
	Long: `Rank the career pool for a student profile with the classifier ensemble.

Random forest (0.4), KNN (0.3) and neural network (0.3) each predict a
distribution over career labels. A career scores the weighted probability of
its own label. Classifiers that are missing or fail are skipped and the
remaining weights are renormalized. Without any classifier, or without a
profile, every career scores 0.5.

Examples:
  # Top 5 careers for one user
  path2prep careers --profile profiles.json --user asha --careers careers.json --limit 5

  # Show which classifiers contributed
  path2prep careers --profile profiles.json --user asha --careers careers.json --explain

  # Export to CSV
  path2prep careers --profile me.json --careers careers.csv --output csv --output-file careers-out.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCareers(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot rank careers", err)
		}
	},
}

// scholarshipsCmd matches scholarships to a profile.
var scholarshipsCmd = &cobra.Command{
	Use:   "scholarships",
	Short: "Show the scholarships that best match a student profile.",
	Long: `Match the scholarship pool to a student profile by text similarity.

The profile text is compared with each scholarship's title, description,
eligibility, category and country. TF-IDF cosine contributes 0.3 and
sentence-embedding cosine 0.7. If the embedding model is unavailable the
TF-IDF score is used alone; without either backend every scholarship
scores 0.5.

Examples:
  # Top 10 scholarships with organization, country and deadline
  path2prep scholarships --profile profiles.json --user asha --scholarships scholarships.json --detail

  # JSON for another tool
  path2prep scholarships --profile me.json --scholarships scholarships.json --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScholarships(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot match scholarships", err)
		}
	},
}

// backendsCmd displays backend availability and weights.
var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "Display which scoring backends are loaded and their weights",
	Long: `Load every model artifact and report which scoring backends are available.

Shows, per engine:
- Backend name (random_forest, knn, neural_network, tfidf, bert)
- Whether it loaded, and why not when it did not
- The weight it contributes before renormalization

Examples:
  path2prep backends --models-dir ./models
  path2prep backends --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBackends(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot inspect backends", err)
		}
	},
}
