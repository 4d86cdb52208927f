// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	// Scholar requires a browser-like value; OpenAlex asks for a
	// contact address in it.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for fetching individual profiles.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of attempts per identifier (default 3).
	// A value of 3 means exactly 3 calls before the identifier is
	// recorded as failed.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestDelay is the pause between consecutive identifiers
	// (default 5s). Fetching is strictly sequential: the delay is the
	// only throttle and must stay conservative or Scholar blocks the
	// client.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// RetryDelay is the fixed pause before a retry (default 10s). No
	// exponential growth: the upstream recovers on a fixed schedule.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// SerpAPIKey enables the SerpAPI relay source when set.
	SerpAPIKey string `json:"serpapi_key,omitempty" yaml:"serpapi_key,omitempty"`
}

// HarvestConfig holds settings for the OpenAlex Chile harvest.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email" yaml:"email"`

	// MinHIndex filters the download at the API level (default 1).
	MinHIndex int `json:"min_h_index" yaml:"min_h_index"`

	// PerPage is the page size for the paginated listing (max 200).
	PerPage int `json:"per_page" yaml:"per_page"`

	// PageDelay is the pause between listing pages (default 50ms).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// ErrorDelay is the pause after a failed page before continuing
	// (default 2s).
	ErrorDelay time.Duration `json:"error_delay" yaml:"error_delay"`
}

// RankingConfig holds the filtering and classification rules applied by
// the aggregator. The exclusion lists are hand-maintained corrections
// for upstream misattributions; they default to the curated built-in
// tables but are overridable from the config file so tests can pass
// fixed fixtures.
type RankingConfig struct {
	// MinHIndex drops records below the floor (default 1).
	MinHIndex int `json:"min_h_index" yaml:"min_h_index"`

	// NameExclusions lists researchers removed by name (wrong-country
	// attributions and obvious provider errors).
	NameExclusions []string `json:"name_exclusions" yaml:"name_exclusions"`

	// AffiliationDenylist lists institutions that are not actually
	// Chilean despite the provider saying so.
	AffiliationDenylist []string `json:"affiliation_denylist" yaml:"affiliation_denylist"`

	// FieldExclusions lists provider field classifications outside the
	// social sciences.
	FieldExclusions []string `json:"field_exclusions" yaml:"field_exclusions"`

	// KnownScholarIDs maps researcher names to manually verified
	// Google Scholar IDs, filled in after aggregation.
	KnownScholarIDs map[string]string `json:"known_scholar_ids" yaml:"known_scholar_ids"`
}

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// OutputDir is the directory artifacts are written to
	// (default "data/output"). Created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// BaseName is the filename prefix (default "ranking_cs").
	// Filenames embed the run date, so a later run never overwrites an
	// earlier day's artifacts.
	BaseName string `json:"base_name" yaml:"base_name"`
}

// StoreConfig holds settings for the snapshot store.
type StoreConfig struct {
	// Path is the sqlite database file (default "data/ranking.db").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Harvest HarvestConfig `json:"harvest" yaml:"harvest"`
	Ranking RankingConfig `json:"ranking" yaml:"ranking"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
