// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the ranked table to the published artifact
// formats: a spreadsheet-friendly CSV, a multi-sheet XLSX workbook, and
// the JSON consumed by the static web page. Output filenames carry the
// run date so successive runs never clobber each other.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// utf8BOM prefixes the CSV so Excel opens accented names correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvHeader matches the column layout of the published ranking table.
var csvHeader = []string{
	"ranking", "nombre", "institucion", "disciplina",
	"h_index", "citas", "trabajos",
	"scholar_id", "openalex_id", "orcid", "topics",
}

// Result lists the files one export run produced.
type Result struct {
	CSVPath      string
	StatsCSVPath string
	XLSXPath     string
	JSONPath     string
}

// Export writes all artifacts for one run into cfg.OutputDir, creating
// the directory if needed. The date stamp comes from stats.GeneratedAt
// so a re-export of a stored run keeps the run's own date.
func Export(rows []types.RankedRow, stats types.Stats, cfg types.ExportConfig, w io.Writer) (Result, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	stamp := stats.GeneratedAt.Format("20060102")
	result := Result{
		CSVPath:      filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.csv", cfg.BaseName, stamp)),
		StatsCSVPath: filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_stats.csv", cfg.BaseName, stamp)),
		XLSXPath:     filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.xlsx", cfg.BaseName, stamp)),
		JSONPath:     filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_web_%s.json", cfg.BaseName, stamp)),
	}

	if err := WriteCSV(rows, result.CSVPath); err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "wrote %s\n", result.CSVPath)

	if err := WriteStatsCSV(stats, result.StatsCSVPath); err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "wrote %s\n", result.StatsCSVPath)

	if err := WriteXLSX(rows, stats, result.XLSXPath); err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "wrote %s\n", result.XLSXPath)

	if err := WriteWebJSON(rows, stats, result.JSONPath); err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "wrote %s\n", result.JSONPath)

	return result, nil
}

// WriteCSV writes the ranked table as UTF-8-with-BOM CSV.
func WriteCSV(rows []types.RankedRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.Name,
			row.ShortAffiliation,
			row.Discipline,
			strconv.Itoa(row.HIndex),
			strconv.Itoa(row.Citations),
			strconv.Itoa(row.WorksCount),
			row.ScholarID,
			row.OpenAlexID,
			row.ORCID,
			strings.Join(row.Interests, "; "),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", row.Rank, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// WriteStatsCSV writes the run statistics as a two-column metric/value
// table, BOM-prefixed like the ranking CSV.
func WriteStatsCSV(stats types.Stats, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	records := [][]string{
		{"metrica", "valor"},
		{"total_autores", strconv.Itoa(stats.Count)},
		{"h_index_promedio", formatFloat(stats.MeanHIndex)},
		{"h_index_mediana", formatFloat(stats.MedianHIndex)},
		{"h_index_maximo", strconv.Itoa(stats.MaxHIndex)},
		{"citas_totales", strconv.Itoa(stats.TotalCitations)},
		{"citas_promedio", formatFloat(stats.MeanCitations)},
		{"fecha_generacion", stats.GeneratedAt.Format("2006-01-02 15:04")},
	}

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteXLSX writes the three-sheet workbook: the ranking itself, the
// run statistics, and the per-institution tally.
func WriteXLSX(rows []types.RankedRow, stats types.Stats, path string) error {
	book := excelize.NewFile()
	defer book.Close()

	const rankingSheet = "Ranking"
	if err := book.SetSheetName(book.GetSheetName(0), rankingSheet); err != nil {
		return fmt.Errorf("naming ranking sheet: %w", err)
	}

	header := []any{"Ranking", "Nombre", "Institución", "Disciplina", "H-Index", "Citas", "Trabajos", "Scholar ID"}
	if err := setRow(book, rankingSheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		values := []any{
			row.Rank, row.Name, row.ShortAffiliation, row.Discipline,
			row.HIndex, row.Citations, row.WorksCount, row.ScholarID,
		}
		if err := setRow(book, rankingSheet, i+2, values); err != nil {
			return err
		}
	}

	const statsSheet = "Estadísticas"
	if _, err := book.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("creating stats sheet: %w", err)
	}
	statRows := [][]any{
		{"Métrica", "Valor"},
		{"Total autores", stats.Count},
		{"H-index promedio", stats.MeanHIndex},
		{"H-index mediana", stats.MedianHIndex},
		{"H-index máximo", stats.MaxHIndex},
		{"Citas totales", stats.TotalCitations},
		{"Citas promedio", stats.MeanCitations},
		{"Fecha generación", stats.GeneratedAt.Format("2006-01-02 15:04")},
	}
	for i, values := range statRows {
		if err := setRow(book, statsSheet, i+1, values); err != nil {
			return err
		}
	}

	const institutionSheet = "Por Institución"
	if _, err := book.NewSheet(institutionSheet); err != nil {
		return fmt.Errorf("creating institution sheet: %w", err)
	}
	if err := setRow(book, institutionSheet, 1, []any{"Institución", "Cantidad"}); err != nil {
		return err
	}
	for i, count := range stats.TopAffiliations {
		if err := setRow(book, institutionSheet, i+2, []any{count.Institution, count.Count}); err != nil {
			return err
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// webDocument is the JSON the static page loads.
type webDocument struct {
	Metadata    webMetadata     `json:"metadata"`
	Statistics  types.Stats     `json:"statistics"`
	Researchers []webResearcher `json:"researchers"`
}

type webMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Total       int       `json:"total"`
	Version     string    `json:"version"`
}

type webResearcher struct {
	Rank        int    `json:"rank"`
	ID          string `json:"id"`
	ScholarID   string `json:"scholar_id,omitempty"`
	OpenAlexID  string `json:"openalex_id,omitempty"`
	ORCID       string `json:"orcid,omitempty"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Discipline  string `json:"d1"`
	Topics      string `json:"topics"`
	HIndex      int    `json:"hindex"`
	Citations   int    `json:"citations"`
	Works       int    `json:"works"`
}

// WriteWebJSON writes the document the ranking page fetches.
func WriteWebJSON(rows []types.RankedRow, stats types.Stats, path string) error {
	doc := webDocument{
		Metadata: webMetadata{
			GeneratedAt: stats.GeneratedAt,
			Total:       len(rows),
			Version:     "1.0",
		},
		Statistics:  stats,
		Researchers: make([]webResearcher, len(rows)),
	}

	for i, row := range rows {
		doc.Researchers[i] = webResearcher{
			Rank:        row.Rank,
			ID:          row.ID(),
			ScholarID:   row.ScholarID,
			OpenAlexID:  row.OpenAlexID,
			ORCID:       row.ORCID,
			Name:        row.Name,
			Affiliation: row.ShortAffiliation,
			Discipline:  row.DisciplineCode,
			Topics:      shortTopics(row.Interests, 3),
			HIndex:      row.HIndex,
			Citations:   row.Citations,
			Works:       row.WorksCount,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding web JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// shortTopics joins the first max interests, truncating long entries so
// the web table stays narrow.
func shortTopics(interests []string, max int) string {
	if len(interests) > max {
		interests = interests[:max]
	}
	out := make([]string, 0, len(interests))
	for _, topic := range interests {
		topic = strings.TrimSpace(topic)
		if runes := []rune(topic); len(runes) > 40 {
			topic = string(runes[:37]) + "..."
		}
		out = append(out, topic)
	}
	return strings.Join(out, "; ")
}

func setRow(book *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell coordinates: %w", err)
	}
	if err := book.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
