// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so
// tests can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search"

// SerpAPISource fetches Scholar profiles through the SerpAPI relay.
// Costs quota (100 free searches a month) but never hits a bot
// challenge, so it is the fallback when direct scraping gets blocked.
type SerpAPISource struct {
	Client *http.Client
	APIKey string
	Config types.FetchConfig
}

// Name returns the source identifier.
func (s *SerpAPISource) Name() string { return "serpapi" }

// serpAPIResponse captures the fields we need from the
// google_scholar_author engine.
type serpAPIResponse struct {
	Author  serpAPIAuthor  `json:"author"`
	CitedBy serpAPICitedBy `json:"cited_by"`
}

type serpAPIAuthor struct {
	Name         string            `json:"name"`
	Affiliations string            `json:"affiliations"`
	Email        string            `json:"email"`
	Website      string            `json:"website"`
	Thumbnail    string            `json:"thumbnail"`
	Interests    []serpAPIInterest `json:"interests"`
}

type serpAPIInterest struct {
	Title string `json:"title"`
}

type serpAPICitedBy struct {
	Table []serpAPITableRow `json:"table"`
}

// serpAPITableRow is one row of the metrics table. The engine keys each
// row by metric name ("citations", "h_index", "i10_index"); json.Number
// keeps the counts as strings for the normalizer.
type serpAPITableRow struct {
	Citations *serpAPIMetric `json:"citations"`
	HIndex    *serpAPIMetric `json:"h_index"`
	I10Index  *serpAPIMetric `json:"i10_index"`
}

type serpAPIMetric struct {
	All       json.Number `json:"all"`
	Since2019 json.Number `json:"since_2019"`
}

// FetchAuthor queries the relay for one author profile.
func (s *SerpAPISource) FetchAuthor(ctx context.Context, id string) (*types.RawAuthor, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("serpapi source requires an API key")
	}

	params := url.Values{
		"engine":    {"google_scholar_author"},
		"author_id": {id},
		"hl":        {"en"},
		"api_key":   {s.APIKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var sr serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	raw := &types.RawAuthor{
		ScholarID:   id,
		Name:        sr.Author.Name,
		Affiliation: sr.Author.Affiliations,
		EmailDomain: strings.TrimPrefix(sr.Author.Email, "Verified email at "),
		Homepage:    sr.Author.Website,
		PictureURL:  sr.Author.Thumbnail,
	}
	for _, in := range sr.Author.Interests {
		raw.Interests = append(raw.Interests, in.Title)
	}

	for _, row := range sr.CitedBy.Table {
		switch {
		case row.Citations != nil:
			raw.Citations = row.Citations.All.String()
			raw.Citations5y = row.Citations.Since2019.String()
		case row.HIndex != nil:
			raw.HIndex = row.HIndex.All.String()
			raw.HIndex5y = row.HIndex.Since2019.String()
		case row.I10Index != nil:
			raw.I10Index = row.I10Index.All.String()
			raw.I10Index5y = row.I10Index.Since2019.String()
		}
	}

	return raw, nil
}
