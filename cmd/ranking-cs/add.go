// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sociometrica/ranking-cs/internal/fetch"
	"github.com/sociometrica/ranking-cs/internal/normalize"
	"github.com/sociometrica/ranking-cs/pkg/types"
)

var addCmd = &cobra.Command{
	Use:   "add [scholar-id]",
	Short: "Look up one researcher and optionally append to the seed list",
	Long: `Add fetches a single Google Scholar profile and prints it. With
--search the argument is treated as a name query and the first matching
profile is used. With --seed the researcher is appended to the seed CSV
so the next update includes them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().Bool("search", false, "treat the argument as a name query instead of a Scholar ID")
	addCmd.Flags().String("seed", "", "seed CSV to append the researcher to")
	addCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	search, _ := cmd.Flags().GetBool("search")
	seedPath, _ := cmd.Flags().GetString("seed")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := types.FetchConfig{HTTPConfig: httpConfig(timeout)}
	client := &http.Client{Timeout: cfg.Timeout}
	src := &fetch.ScholarSource{Client: client, Config: cfg}

	id := args[0]
	if search {
		ids, err := src.SearchAuthors(cmd.Context(), args[0], 5)
		if err != nil {
			return fmt.Errorf("searching %q: %w", args[0], err)
		}
		if len(ids) == 0 {
			return fmt.Errorf("no profiles found for %q", args[0])
		}
		id = ids[0]
		if len(ids) > 1 {
			fmt.Printf("%d matches for %q, using the first: %v\n", len(ids), args[0], ids)
		}
	}

	raw, err := src.FetchAuthor(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", id, err)
	}
	record, err := normalize.Normalize(raw, id, time.Now())
	if err != nil {
		return fmt.Errorf("normalizing %s: %w", id, err)
	}

	fmt.Printf("%s\n", record.Name)
	fmt.Printf("  scholar_id: %s\n", record.ScholarID)
	fmt.Printf("  affiliation: %s\n", record.Affiliation)
	fmt.Printf("  h-index: %d (5y %d)\n", record.HIndex, record.HIndex5y)
	fmt.Printf("  citations: %d (5y %d)\n", record.Citations, record.Citations5y)
	if len(record.Interests) > 0 {
		fmt.Printf("  interests: %v\n", record.Interests)
	}

	if seedPath != "" {
		if err := appendToSeed(seedPath, record); err != nil {
			return err
		}
		fmt.Printf("appended to %s\n", seedPath)
	}
	return nil
}

// appendToSeed adds one row to the seed CSV, writing the header first
// when the file is new.
func appendToSeed(path string, record types.AuthorRecord) error {
	info, err := os.Stat(path)
	isNew := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening seed list: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write([]string{"scholar_id", "name", "discipline", "institution"}); err != nil {
			return fmt.Errorf("writing seed header: %w", err)
		}
	}
	if err := w.Write([]string{record.ScholarID, record.Name, "", record.Affiliation}); err != nil {
		return fmt.Errorf("writing seed row: %w", err)
	}

	w.Flush()
	return w.Error()
}
