// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeSeed(t, "seeds.csv",
		"scholar_id,name,discipline,institution\n"+
			"oZGkFZoAAAAJ,David Altman,Ciencia Política,PUC Chile\n"+
			"CPJ0qfQAAAAJ,Juan Carlos Castillo,Sociología,U. de Chile\n")

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, types.SeedEntry{
		ScholarID:   "oZGkFZoAAAAJ",
		Name:        "David Altman",
		Discipline:  "Ciencia Política",
		Institution: "PUC Chile",
	}, entries[0])
}

func TestLoad_CSVSpanishHeaders(t *testing.T) {
	path := writeSeed(t, "seeds.csv",
		"id,nombre,disciplina,institucion\n"+
			"abc123,Ana Pérez,Antropología,UAH\n")

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ana Pérez", entries[0].Name)
	assert.Equal(t, "Antropología", entries[0].Discipline)
	assert.Equal(t, "UAH", entries[0].Institution)
}

func TestLoad_CSVMissingIDColumn(t *testing.T) {
	path := writeSeed(t, "seeds.csv", "nombre,disciplina\nAna,Sociología\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no identifier column")
}

func TestLoad_CSVSkipsEmptyIDs(t *testing.T) {
	path := writeSeed(t, "seeds.csv",
		"scholar_id,name\nabc,Uno\n,Sin ID\nxyz,Dos\n")

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "abc", entries[0].ScholarID)
	assert.Equal(t, "xyz", entries[1].ScholarID)
}

func TestLoad_PlainText(t *testing.T) {
	path := writeSeed(t, "ids.txt",
		"# top researchers\noZGkFZoAAAAJ\n\nCPJ0qfQAAAAJ\noZGkFZoAAAAJ\n")

	entries, err := Load(path)
	require.NoError(t, err)

	// Comment, blank line, and duplicate are all dropped.
	require.Len(t, entries, 2)
	assert.Equal(t, "oZGkFZoAAAAJ", entries[0].ScholarID)
	assert.Equal(t, "CPJ0qfQAAAAJ", entries[1].ScholarID)
}

func TestLoad_YAML(t *testing.T) {
	path := writeSeed(t, "seeds.yaml",
		"- scholar_id: oZGkFZoAAAAJ\n"+
			"  name: David Altman\n"+
			"  discipline: Ciencia Política\n"+
			"- scholar_id: \"\"\n"+
			"  name: Sin ID\n")

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "oZGkFZoAAAAJ", entries[0].ScholarID)
	assert.Equal(t, "David Altman", entries[0].Name)
	assert.Equal(t, "Ciencia Política", entries[0].Discipline)
}

func TestLoad_BOMStripped(t *testing.T) {
	path := writeSeed(t, "seeds.csv",
		"\uFEFFscholar_id,name\nabc,Uno\n")

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ScholarID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
