// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ranking pipeline.
package types

import "time"

// SeedEntry is one row of the curated seed list: a researcher the
// pipeline should fetch. The seed list is maintained by hand outside the
// pipeline and is never mutated by it.
type SeedEntry struct {
	// ScholarID is the Google Scholar profile identifier (the user=
	// parameter of the profile URL).
	ScholarID string `json:"scholar_id" yaml:"scholar_id"`

	// Name is the reference name, used for reporting when a fetch fails.
	Name string `json:"name" yaml:"name"`

	// Discipline is the curated discipline label (e.g. "Sociología").
	Discipline string `json:"discipline,omitempty" yaml:"discipline,omitempty"`

	// Institution is the reference institution from the seed list.
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`
}

// RawAuthor is a provider-shaped author record before normalization.
// Numeric fields are carried as strings exactly as the provider returned
// them; the normalizer owns all parsing and defaulting, so sources never
// have to decide what a missing or malformed count means.
type RawAuthor struct {
	ScholarID   string
	OpenAlexID  string
	ORCID       string
	Name        string
	Affiliation string
	EmailDomain string
	Interests   []string

	HIndex      string
	HIndex5y    string
	I10Index    string
	I10Index5y  string
	Citations   string
	Citations5y string
	WorksCount  string

	// PrimaryField is the provider's field classification (OpenAlex
	// topic field); empty for Scholar profiles.
	PrimaryField string

	Homepage   string
	PictureURL string
}

// AuthorRecord is the canonical author record produced by the
// normalizer from one successful fetch. Numeric fields are always
// non-negative and never absent; a re-fetch replaces the whole record.
type AuthorRecord struct {
	ScholarID   string   `json:"scholar_id,omitempty" yaml:"scholar_id,omitempty"`
	OpenAlexID  string   `json:"openalex_id,omitempty" yaml:"openalex_id,omitempty"`
	ORCID       string   `json:"orcid,omitempty" yaml:"orcid,omitempty"`
	Name        string   `json:"name" yaml:"name"`
	Affiliation string   `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	EmailDomain string   `json:"email_domain,omitempty" yaml:"email_domain,omitempty"`
	Interests   []string `json:"interests" yaml:"interests"`

	HIndex      int `json:"h_index" yaml:"h_index"`
	HIndex5y    int `json:"h_index_5y" yaml:"h_index_5y"`
	I10Index    int `json:"i10_index" yaml:"i10_index"`
	I10Index5y  int `json:"i10_index_5y" yaml:"i10_index_5y"`
	Citations   int `json:"citations" yaml:"citations"`
	Citations5y int `json:"citations_5y" yaml:"citations_5y"`
	WorksCount  int `json:"works_count" yaml:"works_count"`

	PrimaryField string `json:"primary_field,omitempty" yaml:"primary_field,omitempty"`

	Homepage   string    `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	PictureURL string    `json:"picture_url,omitempty" yaml:"picture_url,omitempty"`
	FetchedAt  time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// ID returns the record's external identifier: the Scholar ID when
// present, otherwise the OpenAlex ID.
func (a AuthorRecord) ID() string {
	if a.ScholarID != "" {
		return a.ScholarID
	}
	return a.OpenAlexID
}

// RankedRow is an AuthorRecord with its dense rank and the derived
// presentation fields. Ranks are recomputed in full on every run.
type RankedRow struct {
	AuthorRecord `yaml:",inline"`

	// Rank is 1-based and contiguous: the final table always carries
	// exactly the ranks 1..N.
	Rank int `json:"rank" yaml:"rank"`

	// Discipline is the classified discipline label (e.g. "Ciencia
	// Política"); DisciplineCode is its short form for the web table.
	Discipline     string `json:"discipline" yaml:"discipline"`
	DisciplineCode string `json:"discipline_code" yaml:"discipline_code"`

	// ShortAffiliation is the abbreviated institution name.
	ShortAffiliation string `json:"short_affiliation" yaml:"short_affiliation"`
}

// FailureEntry records an identifier that exhausted its retries or
// produced an unusable record. Collected for the end-of-run summary
// only; failures are not authoritative state.
type FailureEntry struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	LastError  string `json:"last_error" yaml:"last_error"`
}

// Stats holds summary statistics over the filtered, ranked set.
// Fractional values are rounded to 2 decimal places.
type Stats struct {
	Count          int     `json:"count" yaml:"count"`
	MeanHIndex     float64 `json:"mean_h_index" yaml:"mean_h_index"`
	MedianHIndex   float64 `json:"median_h_index" yaml:"median_h_index"`
	MaxHIndex      int     `json:"max_h_index" yaml:"max_h_index"`
	TotalCitations int     `json:"total_citations" yaml:"total_citations"`
	MeanCitations  float64 `json:"mean_citations" yaml:"mean_citations"`

	// TopAffiliations counts rows per abbreviated institution,
	// descending. Used for the "Por Institución" spreadsheet sheet.
	TopAffiliations []AffiliationCount `json:"top_affiliations,omitempty" yaml:"top_affiliations,omitempty"`

	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// AffiliationCount is one row of the per-institution tally.
type AffiliationCount struct {
	Institution string `json:"institution" yaml:"institution"`
	Count       int    `json:"count" yaml:"count"`
}
