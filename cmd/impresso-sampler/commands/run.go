package commands

import (
	"log/slog"
	"time"

	"impresso-sampler/lib/impresso"
	"impresso-sampler/lib/serviceutil"
	"impresso-sampler/lib/telemetry"
	"impresso-sampler/services/sampler"

	"github.com/spf13/cobra"
)

var (
	runKeywords   *string
	runCheckpoint *string
	runFrom       *string
	runTo         *string
)

func init() {
	runKeywords = runCmd.Flags().String("keywords", "all_newsagencies.txt", "Newline-delimited keyword list, '#' starts a comment.")
	runCheckpoint = runCmd.Flags().String("checkpoint", "newsagencies_by_article.json", "Checkpoint/output JSON file, reused to resume.")
	runFrom = runCmd.Flags().String("from", "", "Inclusive start date (YYYY-MM-DD), unbounded when empty.")
	runTo = runCmd.Flags().String("to", "", "Inclusive end date (YYYY-MM-DD), unbounded when empty.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--keywords <file>] [--checkpoint <file>] [--from <date>] [--to <date>]",
	Short: "Samples article UIDs for every keyword in the list, resuming from the checkpoint.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		telemetry.SetupFromEnv(ctx, "impresso-sampler")
		telemetry.InstrumentPerfStats(ctx)

		cfg := readConfig()

		rng, err := impresso.NewDateRange(*runFrom, *runTo)
		if err != nil {
			serviceutil.Fatal("invalid date range", err)
		}

		keywords, err := sampler.ReadKeywordList(*runKeywords)
		if err != nil {
			serviceutil.Fatal("failed to read keyword list", err)
		}
		if len(keywords) == 0 {
			slog.Warn("keyword list is empty, nothing to do", "path", *runKeywords)
			return
		}

		provider, cleanup, err := providerFromConfig(cfg)
		if err != nil {
			serviceutil.Fatal("failed to configure session provider", err)
		}
		defer cleanup()

		source, err := sampler.NewRefreshingSource(ctx, provider, sampler.RefreshingSourceOptions{
			TTL:          sessionTTL(cfg),
			HintInterval: time.Duration(cfg.Session.HintSeconds) * time.Second,
			BaseURL:      cfg.Api.BaseUrl,
		})
		if err != nil {
			serviceutil.Fatal("failed to acquire initial session", err)
		}

		samplerCfg := sampler.Config{
			LimitPerQuery: cfg.Sampler.LimitPerQuery,
			MaxHits:       cfg.Sampler.MaxHits,
			Delay:         time.Duration(cfg.Sampler.DelaySeconds * float64(time.Second)),
		}
		if cfg.Sampler.LimitPerQuery == 0 {
			samplerCfg.LimitPerQuery = 20
		}
		if cfg.Sampler.MaxHits == 0 {
			samplerCfg.MaxHits = 10000
		}
		if cfg.Sampler.DelaySeconds == 0 {
			samplerCfg.Delay = time.Second
		}

		runner := sampler.NewRunner(source, *runCheckpoint)

		t1 := time.Now()
		result, err := runner.Run(ctx, keywords, rng, samplerCfg)
		if err != nil {
			serviceutil.Fatal("campaign aborted", err)
		}
		slog.Info("campaign finished", "seconds", time.Since(t1).Seconds())

		printResultTable(result, keywords)
	},
}
