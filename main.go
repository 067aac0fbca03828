package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"apartment-scraper/config"
	"apartment-scraper/models"
	"apartment-scraper/scraper/browser"
	"apartment-scraper/scraper/city24"
	"apartment-scraper/services"
	"apartment-scraper/storage"
	"apartment-scraper/utils"
)

// redisStreamMaxLen caps the listings stream.
const redisStreamMaxLen = 10000

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apartment-scraper",
		Short: "Scrape paginated apartment listings into CSV",
		Long: `apartment-scraper walks the search result pages of a real-estate portal
one page at a time, extracts every listing it can and writes the result
to a CSV file. Values that could not be read are written as N/A.

Settings are read from the environment (and a .env file); flags override them.

Examples:
  # Scrape the first 5 pages
  apartment-scraper --pages 5

  # Write somewhere else and also store in PostgreSQL
  apartment-scraper -o /tmp/flats.csv --postgres`,
		SilenceUsage: true,
		RunE:         runRootCmd,
	}

	cmd.Flags().IntP("pages", "p", 0, "Number of result pages to scrape")
	cmd.Flags().String("url", "", "Page URL template, {page} is replaced by the page index")
	cmd.Flags().StringP("output", "o", "", "CSV output path")
	cmd.Flags().Duration("timeout", 0, "How long to wait for listings to appear on a page")
	cmd.Flags().Duration("delay", 0, "Pause between consecutive pages")
	cmd.Flags().Bool("postgres", false, "Also store listings in PostgreSQL")
	cmd.Flags().String("redis", "", "Also publish listings to the Redis stream at this address")

	return cmd
}

// applyFlags overrides cfg with every flag the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("pages") {
		if cfg.PagesToScrape, err = flags.GetInt("pages"); err != nil {
			return err
		}
	}
	if flags.Changed("url") {
		if cfg.PageURLTemplate, err = flags.GetString("url"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.CSVOutputPath, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.PageTimeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("delay") {
		if cfg.RequestDelay, err = flags.GetDuration("delay"); err != nil {
			return err
		}
	}
	if flags.Changed("postgres") {
		if cfg.PostgresEnabled, err = flags.GetBool("postgres"); err != nil {
			return err
		}
	}
	if flags.Changed("redis") {
		if cfg.RedisAddr, err = flags.GetString("redis"); err != nil {
			return err
		}
	}
	return nil
}

func runRootCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := utils.NewLoggerTo(os.Stdout, utils.ParseLevel(cfg.LogLevel))
	ctx := context.Background()

	logger.Info("=== Apartment scraper starting ===")
	logger.Info("Config: pages %d | page timeout %v | delay %v | output %s",
		cfg.PagesToScrape, cfg.PageTimeout, cfg.RequestDelay, cfg.CSVOutputPath)

	sink, pgWriter, err := openSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			logger.Warn("Closing outputs: %v", cerr)
		}
	}()

	session := browser.NewSession(browser.Options{
		ChromeBin:       cfg.ChromeBin,
		NavigateTimeout: cfg.NavigateTimeout,
		MaxRetries:      cfg.MaxRetries,
	}, logger.With("browser"))

	extractor := city24.NewExtractor(logger.With("extractor"))
	navigator := city24.NewNavigator(session, extractor, cfg.PageURL, cfg.PageTimeout, logger.With("navigator"))
	crawler := city24.NewCrawler(session, navigator, sink, utils.NewPacer(cfg.RequestDelay), logger.With("crawler"))

	result, err := crawler.Run(ctx, cfg.PagesToScrape)
	if err != nil {
		logger.Error("Saving results failed: %v", err)
		return err
	}
	if result.Len() == 0 {
		return nil
	}

	records := result.Records
	if pgWriter != nil {
		if stored, ferr := pgWriter.FetchAll(); ferr != nil {
			logger.Error("Failed to fetch listings from DB for insights: %v", ferr)
		} else {
			records = stored
		}
	}

	insightSvc := services.NewInsightService(logger.With("insights"))
	insightSvc.Print(os.Stdout, insightSvc.Generate(records))

	printSummary(result.Stats, cfg.CSVOutputPath)
	return nil
}

// openSinks builds the output chain: the CSV file always, PostgreSQL and
// Redis when configured. Optional outputs that cannot be reached are
// logged and skipped.
func openSinks(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*storage.Fanout, *storage.PostgresWriter, error) {
	sink := storage.NewFanout(storage.NewCSVWriter(cfg.CSVOutputPath))

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		retry := &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger.With("postgres"),
		}
		pw, err := storage.NewPostgresWriter(ctx, cfg.DSN(), retry)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := pw.Clear(); err != nil {
			logger.Warn("Could not clear previous listings: %v", err)
		}
		pgWriter = pw
		sink.Add(pw)
	}

	if cfg.RedisAddr != "" {
		pub := storage.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, redisStreamMaxLen)
		if err := pub.Ping(); err != nil {
			logger.Warn("Redis at %s unreachable, not publishing: %v", cfg.RedisAddr, err)
			_ = pub.Close()
		} else {
			sink.Add(pub)
		}
	}

	return sink, pgWriter, nil
}

func printSummary(stats models.CrawlStats, csvPath string) {
	fmt.Printf("  Pages: %d ok, %d timed out, %d failed | listings kept: %d, dropped: %d | took %v\n",
		stats.PagesOK, stats.PagesTimedOut, stats.PagesFailed,
		stats.ListingsKept, stats.ListingsDropped(),
		stats.FinishedAt.Sub(stats.StartedAt).Round(time.Second))
	fmt.Printf("  Done. CSV → %s\n\n", csvPath)
}
