// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

func sampleRows() []types.RankedRow {
	return []types.RankedRow{
		{
			AuthorRecord: types.AuthorRecord{
				ScholarID:  "oZGkFZoAAAAJ",
				Name:       "David Altman",
				HIndex:     32,
				Citations:  7412,
				WorksCount: 120,
				Interests:  []string{"comparative politics", "direct democracy"},
			},
			Rank:             1,
			Discipline:       "Ciencia Política",
			DisciplineCode:   "CP",
			ShortAffiliation: "PUC Chile",
		},
		{
			AuthorRecord: types.AuthorRecord{
				OpenAlexID: "https://openalex.org/A5023888391",
				Name:       "Juan Pablo Luna",
				HIndex:     28,
				Citations:  4210,
			},
			Rank:             2,
			Discipline:       "Ciencia Política",
			DisciplineCode:   "CP",
			ShortAffiliation: "PUC Chile",
		},
	}
}

func sampleStats() types.Stats {
	return types.Stats{
		Count:          2,
		MeanHIndex:     30,
		MedianHIndex:   30,
		MaxHIndex:      32,
		TotalCitations: 11622,
		MeanCitations:  5811,
		TopAffiliations: []types.AffiliationCount{
			{Institution: "PUC Chile", Count: 2},
		},
		GeneratedAt: time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC),
	}
}

func TestExport_WritesAllArtifactsWithDateStamp(t *testing.T) {
	dir := t.TempDir()
	cfg := types.ExportConfig{OutputDir: filepath.Join(dir, "output"), BaseName: "ranking_cs"}

	var buf bytes.Buffer
	result, err := Export(sampleRows(), sampleStats(), cfg, &buf)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.OutputDir, "ranking_cs_20260824.csv"), result.CSVPath)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "ranking_cs_20260824_stats.csv"), result.StatsCSVPath)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "ranking_cs_20260824.xlsx"), result.XLSXPath)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "ranking_cs_web_20260824.json"), result.JSONPath)

	for _, path := range []string{result.CSVPath, result.StatsCSVPath, result.XLSXPath, result.JSONPath} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
	assert.Contains(t, buf.String(), "ranking_cs_20260824.csv")
}

func TestWriteCSV_BOMAndColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(sampleRows(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "CSV starts with the UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "David Altman", records[1][1])
	assert.Equal(t, "PUC Chile", records[1][2])
	assert.Equal(t, "32", records[1][4])
	assert.Equal(t, "comparative politics; direct democracy", records[1][10])
}

func TestWriteStatsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	require.NoError(t, WriteStatsCSV(sampleStats(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 8)

	assert.Equal(t, []string{"metrica", "valor"}, records[0])
	assert.Equal(t, []string{"total_autores", "2"}, records[1])
	assert.Equal(t, []string{"h_index_promedio", "30.00"}, records[2])
	assert.Equal(t, []string{"citas_totales", "11622"}, records[5])
}

func TestWriteXLSX_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(sampleRows(), sampleStats(), path))

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()

	assert.ElementsMatch(t, []string{"Ranking", "Estadísticas", "Por Institución"}, book.GetSheetList())

	name, err := book.GetCellValue("Ranking", "B2")
	require.NoError(t, err)
	assert.Equal(t, "David Altman", name)

	total, err := book.GetCellValue("Estadísticas", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	inst, err := book.GetCellValue("Por Institución", "A2")
	require.NoError(t, err)
	assert.Equal(t, "PUC Chile", inst)
}

func TestWriteWebJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web.json")
	require.NoError(t, WriteWebJSON(sampleRows(), sampleStats(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Metadata struct {
			Total   int    `json:"total"`
			Version string `json:"version"`
		} `json:"metadata"`
		Researchers []map[string]any `json:"researchers"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 2, doc.Metadata.Total)
	assert.Equal(t, "1.0", doc.Metadata.Version)
	require.Len(t, doc.Researchers, 2)

	first := doc.Researchers[0]
	assert.Equal(t, "oZGkFZoAAAAJ", first["id"])
	assert.Equal(t, "CP", first["d1"])
	assert.Equal(t, float64(32), first["hindex"])
	assert.Equal(t, "comparative politics; direct democracy", first["topics"])

	// The OpenAlex-only record falls back to its OpenAlex ID.
	assert.Equal(t, "https://openalex.org/A5023888391", doc.Researchers[1]["id"])
}

func TestShortTopics(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := shortTopics([]string{"one", "two", "three", "four", long}, 3)
	assert.Equal(t, "one; two; three", got)

	truncated := shortTopics([]string{long}, 3)
	assert.True(t, strings.HasSuffix(truncated, "..."))
	assert.LessOrEqual(t, len([]rune(truncated)), 40)
}
