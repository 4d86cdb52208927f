// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sociometrica/ranking-cs/internal/fetch"
	"github.com/sociometrica/ranking-cs/internal/normalize"
	"github.com/sociometrica/ranking-cs/internal/store"
	"github.com/sociometrica/ranking-cs/pkg/types"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest Chilean social science authors from OpenAlex",
	Long: `Harvest walks the OpenAlex authors listing filtered to Chilean
institutions, keeps the social science subset, and stores the result as
a new snapshot run. OpenAlex needs no API key; setting a contact email
(flag, config, or .secrets/openalex-email) grants polite-pool rate
limits.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().Int("min-h-index", 0, "h-index floor applied in the API filter (default 1)")
	harvestCmd.Flags().Int("per-page", 0, "listing page size, max 200 (default 200)")
	harvestCmd.Flags().String("email", "", "contact email for the OpenAlex polite pool")
	harvestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	harvestCmd.Flags().Duration("page-delay", 0, "pause between listing pages (default 50ms)")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	minH, _ := cmd.Flags().GetInt("min-h-index")
	perPage, _ := cmd.Flags().GetInt("per-page")
	email, _ := cmd.Flags().GetString("email")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	pageDelay, _ := cmd.Flags().GetDuration("page-delay")

	cfg := types.HarvestConfig{
		HTTPConfig: httpConfig(timeout),
		Email:      secretDefault("openalex-email", stringSetting(email, "harvest.email", "")),
		MinHIndex:  intSetting(minH, "harvest.min_h_index", 1),
		PerPage:    intSetting(perPage, "harvest.per_page", 200),
		PageDelay:  durationSetting(pageDelay, "harvest.page_delay", defaultPageDelay),
	}

	client := &http.Client{Timeout: cfg.Timeout}
	src := &fetch.OpenAlexSource{Client: client, Email: cfg.Email, Config: cfg.HTTPConfig}

	started := time.Now()
	raws, err := src.HarvestChile(cmd.Context(), cfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("harvest: %w", err)
	}

	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	return saveHarvestRun(cmd.Context(), s, src.Name(), started, raws, os.Stdout)
}

// saveHarvestRun normalizes the harvested authors and stores them as a
// new snapshot run. Zero obtained records is run-fatal: the empty run is
// still recorded for the audit trail, but the command exits non-zero so
// a scheduled harvest that silently dried up gets noticed.
func saveHarvestRun(ctx context.Context, s *store.Store, source string, started time.Time, raws []types.RawAuthor, w io.Writer) error {
	var records []types.AuthorRecord
	var failures []types.FailureEntry
	for _, raw := range raws {
		record, err := normalize.Normalize(&raw, raw.OpenAlexID, started)
		if err != nil {
			failures = append(failures, types.FailureEntry{
				Identifier: raw.OpenAlexID,
				Name:       raw.Name,
				LastError:  err.Error(),
			})
			continue
		}
		records = append(records, record)
	}

	runID, err := s.SaveRun(ctx, source, started, records, failures)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	fmt.Fprintf(w, "run %d: %d author(s) stored, %d failed\n", runID, len(records), len(failures))
	fetch.PrintFailureSummary(failures, w)

	if len(records) == 0 {
		return fmt.Errorf("harvest produced no authors")
	}
	return nil
}
