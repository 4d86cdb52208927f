// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sociometrica/ranking-cs/internal/fetch"
	"github.com/sociometrica/ranking-cs/internal/seed"
	"github.com/sociometrica/ranking-cs/internal/store"
	"github.com/sociometrica/ranking-cs/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [scholar-ids...]",
	Short: "Fetch researcher profiles from Google Scholar",
	Long: `Fetch downloads one profile per identifier and stores the batch as a
new snapshot run. Identifiers come from the arguments, from a seed list
(--seed), or both. Fetching is strictly sequential with a conservative
delay between profiles; Scholar blocks aggressive clients.

With --source serpapi the profiles go through the SerpAPI relay instead
of scraping Scholar directly (requires .secrets/serpapi-api-key). With
--source openalex the identifiers are treated as OpenAlex author IDs.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("seed", "", "seed list file (CSV with header, or one ID per line)")
	fetchCmd.Flags().String("source", "scholar", "profile source: scholar, serpapi, or openalex")
	fetchCmd.Flags().Int("max-retries", 0, "attempts per identifier (default 3)")
	fetchCmd.Flags().Duration("delay", 0, "pause between profiles (default 5s)")
	fetchCmd.Flags().Duration("retry-delay", 0, "fixed pause before a retry (default 10s)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	seedPath, _ := cmd.Flags().GetString("seed")
	sourceName, _ := cmd.Flags().GetString("source")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	delay, _ := cmd.Flags().GetDuration("delay")
	retryDelay, _ := cmd.Flags().GetDuration("retry-delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	seeds := make([]types.SeedEntry, 0, len(args))
	for _, id := range args {
		seeds = append(seeds, types.SeedEntry{ScholarID: id})
	}
	if seedPath != "" {
		fromFile, err := seed.Load(seedPath)
		if err != nil {
			return err
		}
		seeds = append(seeds, fromFile...)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("provide scholar IDs as arguments or a seed list via --seed")
	}

	cfg := types.FetchConfig{
		HTTPConfig:   httpConfig(timeout),
		MaxRetries:   intSetting(maxRetries, "fetch.max_retries", defaultMaxRetries),
		RequestDelay: durationSetting(delay, "fetch.request_delay", defaultRequestDelay),
		RetryDelay:   durationSetting(retryDelay, "fetch.retry_delay", defaultRetryDelay),
		SerpAPIKey:   secretDefault("serpapi-api-key", stringSetting("", "fetch.serpapi_key", "")),
	}

	client := &http.Client{Timeout: cfg.Timeout}
	src, err := newSource(sourceName, client, cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	result := fetch.FetchBatch(cmd.Context(), src, seeds, cfg, os.Stdout)

	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.SaveRun(cmd.Context(), src.Name(), started, result.Records, result.Failures)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	fmt.Printf("run %d: %d profile(s) stored, %d failed\n", runID, len(result.Records), len(result.Failures))
	fetch.PrintFailureSummary(result.Failures, os.Stdout)

	if len(result.Records) == 0 {
		return fmt.Errorf("no profiles fetched")
	}
	return nil
}

// newSource picks the profile source implementation by name.
func newSource(name string, client *http.Client, cfg types.FetchConfig) (fetch.Source, error) {
	switch name {
	case "scholar":
		return &fetch.ScholarSource{Client: client, Config: cfg}, nil
	case "serpapi":
		if cfg.SerpAPIKey == "" {
			return nil, fmt.Errorf("serpapi source requires an API key (.secrets/serpapi-api-key)")
		}
		return &fetch.SerpAPISource{Client: client, APIKey: cfg.SerpAPIKey, Config: cfg}, nil
	case "openalex":
		return &fetch.OpenAlexSource{
			Client: client,
			Email:  secretDefault("openalex-email", ""),
			Config: cfg.HTTPConfig,
		}, nil
	default:
		return nil, fmt.Errorf("unknown source %q (want scholar, serpapi, or openalex)", name)
	}
}
