package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobscout-scraper/internal/app"
	"jobscout-scraper/internal/classify"
	"jobscout-scraper/internal/config"
	"jobscout-scraper/internal/extract"
	"jobscout-scraper/internal/fetcher"
	"jobscout-scraper/internal/links"
	"jobscout-scraper/internal/observability"
	"jobscout-scraper/internal/report"
	"jobscout-scraper/internal/sources"
)

var (
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobscout",
		Short:         "Find job postings matching your skills",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (optional)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newScrapeCmd())
	root.AddCommand(newSitesCmd())

	return root
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(configPath)
}

func newScrapeCmd() *cobra.Command {
	var (
		outputPath string
		maxLinks   int
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl the configured websites and write a job report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-links") {
				cfg.Crawl.MaxLinksPerSite = maxLinks
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := observability.NewLogger(cfg.Observability.LogPath, cfg.Observability.LogLevel, verbose)
			defer func() { _ = logger.Sync() }()

			lexicon, err := cfg.LoadLexicon()
			if err != nil {
				return err
			}

			mgr := sources.NewManager(cfg.Files.Websites, cfg.Files.Keywords, logger)
			websites, err := mgr.LoadWebsites()
			if err != nil {
				return err
			}
			keywords, err := mgr.LoadKeywords()
			if err != nil {
				return err
			}

			orchestrator := app.NewOrchestrator(
				cfg,
				logger,
				fetcher.NewFetcher(cfg, logger),
				classify.NewClassifier(lexicon, logger),
				links.NewPrioritizer(cfg.Crawl.MaxLinksPerSite, logger),
				extract.NewExtractor(logger),
			)

			ctx, cancel := app.WithShutdown(cmd.Context(), logger)
			defer cancel()

			jobs, _, err := orchestrator.Run(ctx, websites, keywords)
			if err != nil {
				return err
			}

			writer := report.NewWriter(cfg.Report.OutputDir)
			path, err := writer.Write(jobs, outputPath, time.Now())
			if err != nil {
				return err
			}

			logger.Info("results saved", zap.String("path", path))
			fmt.Printf("\nScraping complete! Found %d jobs.\n", len(jobs))
			fmt.Printf("Results saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file for results")
	cmd.Flags().IntVar(&maxLinks, "max-links", 10, "maximum number of links to check per website")

	return cmd
}

func newSitesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Manage the list of websites to scrape",
	}

	newManager := func() (*sources.Manager, func(), error) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, nil, err
		}
		logger := observability.NewLogger(cfg.Observability.LogPath, cfg.Observability.LogLevel, verbose)
		cleanup := func() { _ = logger.Sync() }
		return sources.NewManager(cfg.Files.Websites, cfg.Files.Keywords, logger), cleanup, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add URL",
		Short: "Add a website to scrape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, cleanup, err := newManager()
			if err != nil {
				return err
			}
			defer cleanup()

			added, err := mgr.AddWebsite(args[0])
			if err != nil {
				return err
			}
			if added {
				fmt.Printf("Added website: %s\n", args[0])
			} else {
				fmt.Printf("Website already exists: %s\n", args[0])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove URL",
		Short: "Remove a website from scraping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, cleanup, err := newManager()
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := mgr.RemoveWebsite(args[0])
			if err != nil {
				return err
			}
			if removed {
				fmt.Printf("Removed website: %s\n", args[0])
			} else {
				fmt.Printf("Website not found: %s\n", args[0])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all configured websites",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, cleanup, err := newManager()
			if err != nil {
				return err
			}
			defer cleanup()

			websites, err := mgr.LoadWebsites()
			if err != nil {
				return err
			}

			fmt.Println("\nConfigured websites:")
			if len(websites) == 0 {
				fmt.Println("No websites configured.")
			} else {
				for i, site := range websites {
					fmt.Printf("%d. %s\n", i+1, site)
				}
			}
			fmt.Println()
			return nil
		},
	})

	return cmd
}
