// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seed loads the curated researcher list that drives profile
// fetches. Three formats are accepted: a CSV with a header row, a YAML
// list of entries, and a plain-text file with one Scholar ID per line.
// The loader never writes the seed list back.
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// idColumns are the header names accepted for the Scholar ID column, in
// preference order. Matching is case-insensitive.
var idColumns = []string{"scholar_id", "google_scholar_id", "id", "user"}

// Load reads a seed list from path. Files ending in .csv are parsed as
// CSV, .yaml/.yml as a YAML list of entries; anything else is treated
// as one identifier per line. Entries without an ID are skipped;
// duplicate IDs keep the first occurrence.
func Load(path string) ([]types.SeedEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed list: %w", err)
	}
	defer f.Close()

	var entries []types.SeedEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		entries, err = parseCSV(f)
	case ".yaml", ".yml":
		entries, err = parseYAML(f)
	default:
		entries, err = parseLines(f)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return dedupe(entries), nil
}

// parseYAML reads a YAML list of seed entries and drops the ones
// without an ID.
func parseYAML(r io.Reader) ([]types.SeedEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw []types.SeedEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}

	var entries []types.SeedEntry
	for _, entry := range raw {
		entry.ScholarID = strings.TrimSpace(entry.ScholarID)
		if entry.ScholarID == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseCSV reads a header row, locates the ID column, and picks up the
// optional name, discipline, and institution columns when present.
func parseCSV(r io.Reader) ([]types.SeedEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(stripBOM(name)))] = i
	}

	idCol := -1
	for _, candidate := range idColumns {
		if i, ok := cols[candidate]; ok {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("no identifier column found (looked for %s)", strings.Join(idColumns, ", "))
	}

	nameCol := lookup(cols, "name", "nombre")
	disciplineCol := lookup(cols, "discipline", "disciplina")
	institutionCol := lookup(cols, "institution", "institucion", "institución", "affiliation")

	var entries []types.SeedEntry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		entry := types.SeedEntry{
			ScholarID:   field(row, idCol),
			Name:        field(row, nameCol),
			Discipline:  field(row, disciplineCol),
			Institution: field(row, institutionCol),
		}
		if entry.ScholarID == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseLines reads one identifier per line. Blank lines and lines
// starting with '#' are skipped.
func parseLines(r io.Reader) ([]types.SeedEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var entries []types.SeedEntry
	for _, line := range strings.Split(string(data), "\n") {
		id := strings.TrimSpace(stripBOM(line))
		if id == "" || strings.HasPrefix(id, "#") {
			continue
		}
		entries = append(entries, types.SeedEntry{ScholarID: id})
	}
	return entries, nil
}

func dedupe(entries []types.SeedEntry) []types.SeedEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, entry := range entries {
		if seen[entry.ScholarID] {
			continue
		}
		seen[entry.ScholarID] = true
		out = append(out, entry)
	}
	return out
}

func lookup(cols map[string]int, names ...string) int {
	for _, name := range names {
		if i, ok := cols[name]; ok {
			return i
		}
	}
	return -1
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
