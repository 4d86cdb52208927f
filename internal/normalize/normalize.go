// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps provider-shaped raw author records into
// canonical AuthorRecords. Providers return partially populated objects
// all the time, so every field except the name has a default: numeric
// fields become 0 when absent or unparsable, interest lists become
// empty slices. Nothing here may panic on provider garbage.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// ValidationError means a required field was missing after parsing.
// Not retryable: refetching the same profile returns the same data.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "required field missing: " + e.Field
}

// Normalize converts a raw provider record into a canonical
// AuthorRecord. The name is required; everything else defaults.
// The identifier is the one the caller fetched, kept even when the
// provider echoes a different casing.
func Normalize(raw *types.RawAuthor, id string, now time.Time) (types.AuthorRecord, error) {
	if raw == nil {
		return types.AuthorRecord{}, &ValidationError{Field: "record"}
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return types.AuthorRecord{}, &ValidationError{Field: "name"}
	}

	scholarID := raw.ScholarID
	if scholarID == "" && raw.OpenAlexID == "" {
		scholarID = id
	}

	interests := make([]string, 0, len(raw.Interests))
	for _, in := range raw.Interests {
		if in = strings.TrimSpace(in); in != "" {
			interests = append(interests, in)
		}
	}

	return types.AuthorRecord{
		ScholarID:   scholarID,
		OpenAlexID:  raw.OpenAlexID,
		ORCID:       strings.TrimPrefix(raw.ORCID, "https://orcid.org/"),
		Name:        name,
		Affiliation: strings.TrimSpace(raw.Affiliation),
		EmailDomain: strings.TrimSpace(raw.EmailDomain),
		Interests:   interests,

		HIndex:      count(raw.HIndex),
		HIndex5y:    count(raw.HIndex5y),
		I10Index:    count(raw.I10Index),
		I10Index5y:  count(raw.I10Index5y),
		Citations:   count(raw.Citations),
		Citations5y: count(raw.Citations5y),
		WorksCount:  count(raw.WorksCount),

		PrimaryField: strings.TrimSpace(raw.PrimaryField),
		Homepage:     raw.Homepage,
		PictureURL:   raw.PictureURL,
		FetchedAt:    now,
	}, nil
}

// count parses a provider metric. Absent, malformed, or negative values
// all collapse to 0 so the output record never carries a null.
func count(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Scholar renders large counts with thousands separators.
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
