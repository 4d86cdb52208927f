// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

func TestNormalize_FullRecord(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	raw := &types.RawAuthor{
		ScholarID:   "oZGkFZoAAAAJ",
		Name:        "  David Altman ",
		Affiliation: "Pontificia Universidad Católica de Chile",
		EmailDomain: "uc.cl",
		Interests:   []string{"comparative politics", " direct democracy ", ""},
		HIndex:      "32",
		I10Index:    "58",
		Citations:   "7,412",
		Citations5y: "3120",
	}

	rec, err := Normalize(raw, "oZGkFZoAAAAJ", now)
	require.NoError(t, err)

	assert.Equal(t, "David Altman", rec.Name)
	assert.Equal(t, "oZGkFZoAAAAJ", rec.ScholarID)
	assert.Equal(t, 32, rec.HIndex)
	assert.Equal(t, 58, rec.I10Index)
	assert.Equal(t, 7412, rec.Citations, "thousands separator must parse")
	assert.Equal(t, 3120, rec.Citations5y)
	assert.Equal(t, []string{"comparative politics", "direct democracy"}, rec.Interests)
	assert.Equal(t, now, rec.FetchedAt)
}

func TestNormalize_MissingNameFails(t *testing.T) {
	raw := &types.RawAuthor{ScholarID: "abc", HIndex: "10"}

	_, err := Normalize(raw, "abc", time.Now())
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestNormalize_NilRecordFails(t *testing.T) {
	_, err := Normalize(nil, "abc", time.Now())
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNormalize_MissingNumbersDefaultToZero(t *testing.T) {
	raw := &types.RawAuthor{Name: "X"}

	rec, err := Normalize(raw, "abc", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, rec.HIndex)
	assert.Equal(t, 0, rec.I10Index)
	assert.Equal(t, 0, rec.Citations, "missing citations must become 0, not null")
	assert.NotNil(t, rec.Interests)
	assert.Empty(t, rec.Interests)
}

func TestNormalize_MalformedNumbersDefaultToZero(t *testing.T) {
	raw := &types.RawAuthor{
		Name:      "X",
		HIndex:    "n/a",
		Citations: "-5",
		I10Index:  "12abc",
	}

	rec, err := Normalize(raw, "abc", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, rec.HIndex)
	assert.Equal(t, 0, rec.Citations)
	assert.Equal(t, 0, rec.I10Index)
}

func TestNormalize_FallsBackToFetchedID(t *testing.T) {
	raw := &types.RawAuthor{Name: "X"}

	rec, err := Normalize(raw, "zzz", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "zzz", rec.ScholarID)
}

func TestNormalize_ORCIDPrefixStripped(t *testing.T) {
	raw := &types.RawAuthor{
		Name:       "X",
		OpenAlexID: "https://openalex.org/A123",
		ORCID:      "https://orcid.org/0000-0001-2345-6789",
	}

	rec, err := Normalize(raw, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "0000-0001-2345-6789", rec.ORCID)
	assert.Empty(t, rec.ScholarID, "OpenAlex records keep scholar_id empty")
}
