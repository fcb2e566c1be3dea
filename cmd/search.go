package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/filtering"
	"github.com/spigell/talent-matcher/internal/search"
	"github.com/spigell/talent-matcher/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter the talent pool and rank it by search criteria",
	Run: func(cmd *cobra.Command, _ []string) {
		runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("track", search.All, "SAP track")
	searchCmd.Flags().String("german", search.All, "german tier: basic, intermediate or advanced")
	searchCmd.Flags().String("experience", search.All, "experience band: junior, mid or senior")
	searchCmd.Flags().String("availability", search.All, "available or unavailable")
	searchCmd.Flags().StringP("query", "q", "", "free-text skill query, broadened with synonyms")
	searchCmd.Flags().Int("min-score", 0, "drop talents scoring below this value")
	searchCmd.Flags().Int("min-readiness", 0, "drop talents whose track readiness is below this value")
	searchCmd.Flags().String("job", "", "drop talents that already have an application for this job")
	searchCmd.Flags().Bool("available-only", false, "drop unavailable talents before scoring")
	searchCmd.Flags().StringSlice("skip-filter", nil, "names of filters to disable")
	searchCmd.Flags().Bool("dry-run", false, "print the filter configuration and exit")
	searchCmd.Flags().StringP("exclude-file", "e", "", "file with talents to exclude. Default is unset.")

	viper.BindPFlag("exclude-file", searchCmd.Flags().Lookup("exclude-file"))
}

func runSearch(cmd *cobra.Command) {
	ctx := context.Background()
	c := setup()

	flags := cmd.Flags()
	criteria := search.Criteria{}
	criteria.Track, _ = flags.GetString("track")
	criteria.GermanLevel, _ = flags.GetString("german")
	criteria.Experience, _ = flags.GetString("experience")
	criteria.Availability, _ = flags.GetString("availability")
	criteria.Query, _ = flags.GetString("query")

	cfg := &filtering.Config{
		Criteria:    criteria,
		ExcludeFile: c.config.ExcludeFile,
	}
	cfg.MinScore, _ = flags.GetInt("min-score")
	cfg.MinReadiness, _ = flags.GetInt("min-readiness")
	cfg.JobID, _ = flags.GetString("job")
	cfg.RequireAvailable, _ = flags.GetBool("available-only")

	steps := filtering.Default()
	skipped, _ := flags.GetStringSlice("skip-filter")
	for _, name := range skipped {
		filtering.DisableByName(steps, strings.TrimSpace(name), "disabled by --skip-filter")
	}

	if dryRun, _ := flags.GetBool("dry-run"); dryRun {
		printStatuses(cmd, c, cfg, steps)
		return
	}

	deps := filtering.Deps{
		Logger:   c.logger,
		Analyzer: c.analyzer,
		Searcher: c.searcher,
	}
	if cfg.JobID != "" {
		journal, err := store.OpenJournal(c.config.Journal)
		if err != nil {
			c.logger.Fatal("opening applications journal", zap.Error(err))
		}
		deps.Applications = journal
	}

	talents, _, err := c.load(ctx)
	if err != nil {
		c.logger.Fatal("loading records", zap.Error(err))
	}

	if cfg.ExcludeFile != "" {
		if _, err := os.Stat(cfg.ExcludeFile); errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("exclude file does not exist, skipping", zap.String("path", cfg.ExcludeFile))
			filtering.DisableByName(steps, "exclude_file", "file does not exist")
		}
	}

	filtered, err := filtering.Run(ctx, cfg, deps, steps, talents.Clone())
	if err != nil {
		c.logger.Fatal("filtering failed", zap.Error(err))
	}

	if filtered.Len() == 0 {
		c.logger.Info("exiting", zap.String("reason", "no talents left after filters"))
		return
	}

	hits := c.searcher.Search(filtered.Items, criteria, cfg.MinScore)
	c.logger.Info("search finished", zap.Int("hits", len(hits)))

	if err := printJSON(cmd.OutOrStdout(), hits); err != nil {
		c.logger.Fatal("printing hits", zap.Error(err))
	}
}

// printStatuses validates the enabled steps so their status carries the effective settings.
func printStatuses(cmd *cobra.Command, c *components, cfg *filtering.Config, steps []filtering.Filter) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			c.logger.Fatal("invalid filter configuration", zap.String("name", step.Name()), zap.Error(err))
		}
	}

	if err := printJSON(cmd.OutOrStdout(), filtering.Describe(steps)); err != nil {
		c.logger.Fatal("printing filters", zap.Error(err))
	}
}
