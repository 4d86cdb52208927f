// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sociometrica/ranking-cs/internal/httputil"
	"github.com/sociometrica/ranking-cs/pkg/types"
)

// openAlexBase is the OpenAlex API root. Declared as a var so tests can
// substitute an httptest server.
var openAlexBase = "https://api.openalex.org"

// socialScienceDomains are the OpenAlex topic domains that count as
// social science outright.
var socialScienceDomains = map[string]bool{
	"Social Sciences": true,
}

// socialScienceFields are the topic fields accepted when the domain is
// not conclusive.
var socialScienceFields = map[string]bool{
	"Sociology": true, "Political Science": true, "Economics": true,
	"Psychology": true, "Education": true, "Law": true, "Business": true,
	"Geography": true, "Anthropology": true, "Communication": true,
	"Social Work": true, "Public Policy": true, "Demography": true,
	"Gender Studies": true, "Urban Studies": true, "Development Studies": true,
	"Public Administration": true, "Social Psychology": true,
	"Criminology": true, "Political Economy": true, "International Relations": true,
}

// OpenAlexSource queries the OpenAlex authors API. Free, no key; the
// mailto parameter grants polite-pool rate limits.
type OpenAlexSource struct {
	Client *http.Client
	Email  string
	Config types.HTTPConfig
}

// Name returns the source identifier.
func (s *OpenAlexSource) Name() string { return "openalex" }

// OpenAlex API JSON structures.
type openAlexListResponse struct {
	Meta    openAlexMeta     `json:"meta"`
	Results []openAlexAuthor `json:"results"`
}

type openAlexMeta struct {
	Count      int    `json:"count"`
	NextCursor string `json:"next_cursor"`
}

type openAlexAuthor struct {
	ID                    string                `json:"id"`
	DisplayName           string                `json:"display_name"`
	ORCID                 string                `json:"orcid"`
	CitedByCount          json.Number           `json:"cited_by_count"`
	WorksCount            json.Number           `json:"works_count"`
	SummaryStats          openAlexSummaryStats  `json:"summary_stats"`
	LastKnownInstitutions []openAlexInstitution `json:"last_known_institutions"`
	Topics                []openAlexTopic       `json:"topics"`
	XConcepts             []openAlexConcept     `json:"x_concepts"`
}

type openAlexSummaryStats struct {
	HIndex   json.Number `json:"h_index"`
	I10Index json.Number `json:"i10_index"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
}

type openAlexTopic struct {
	DisplayName string            `json:"display_name"`
	Domain      openAlexNamedItem `json:"domain"`
	Field       openAlexNamedItem `json:"field"`
}

type openAlexNamedItem struct {
	DisplayName string `json:"display_name"`
}

type openAlexConcept struct {
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

// FetchAuthor fetches a single author record by OpenAlex ID (either the
// bare "A..." form or the full URL).
func (s *OpenAlexSource) FetchAuthor(ctx context.Context, id string) (*types.RawAuthor, error) {
	reqURL := openAlexBase + "/authors/" + url.PathEscape(id)
	if s.Email != "" {
		reqURL += "?mailto=" + url.QueryEscape(s.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openalex request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var author openAlexAuthor
	if err := json.NewDecoder(resp.Body).Decode(&author); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	raw := rawFromOpenAlex(author)
	return &raw, nil
}

// HarvestChile walks the paginated OpenAlex authors listing for Chilean
// institutions above the configured h-index floor and keeps the social
// science subset. Pages advance with a continuation cursor; a failed
// page is reported, slept over, and skipped rather than aborting the
// whole harvest.
func (s *OpenAlexSource) HarvestChile(ctx context.Context, cfg types.HarvestConfig, w io.Writer) ([]types.RawAuthor, error) {
	perPage := cfg.PerPage
	if perPage <= 0 || perPage > 200 {
		perPage = 200
	}
	minH := cfg.MinHIndex
	if minH <= 0 {
		minH = 1
	}
	errorDelay := cfg.ErrorDelay
	if errorDelay <= 0 {
		errorDelay = 2 * time.Second
	}

	filter := fmt.Sprintf("last_known_institutions.country_code:cl,summary_stats.h_index:>%d", minH-1)

	var authors []types.RawAuthor
	cursor := "*"
	page := 0
	consecutiveFailures := 0

	for cursor != "" {
		select {
		case <-ctx.Done():
			return authors, ctx.Err()
		default:
		}

		params := url.Values{
			"filter":   {filter},
			"per_page": {fmt.Sprintf("%d", perPage)},
			"cursor":   {cursor},
		}
		if cfg.Email != "" {
			params.Set("mailto", cfg.Email)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexBase+"/authors?"+params.Encode(), nil)
		if err != nil {
			return authors, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		page++
		list, err := s.fetchPage(ctx, req)
		if err != nil {
			consecutiveFailures++
			if consecutiveFailures >= 5 {
				return authors, fmt.Errorf("page %d failed %d times in a row: %w", page, consecutiveFailures, err)
			}
			fmt.Fprintf(w, "  page %d failed: %v\n", page, err)
			select {
			case <-ctx.Done():
				return authors, ctx.Err()
			case <-time.After(errorDelay):
			}
			continue
		}
		consecutiveFailures = 0

		if len(list.Results) == 0 {
			break
		}

		for _, author := range list.Results {
			field, ok := socialScience(author)
			if !ok {
				continue
			}
			inst := chileanInstitution(author)
			if inst == "" {
				continue
			}

			raw := rawFromOpenAlex(author)
			raw.Affiliation = inst
			raw.PrimaryField = field
			authors = append(authors, raw)
		}

		if page%20 == 0 {
			fmt.Fprintf(w, "  page %d: %d social-science authors of %d total\n",
				page, len(authors), list.Meta.Count)
		}

		cursor = list.Meta.NextCursor
		if cursor != "" && cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return authors, ctx.Err()
			case <-time.After(cfg.PageDelay):
			}
		}
	}

	fmt.Fprintf(w, "harvest complete: %d social-science authors in %d pages\n", len(authors), page)
	return authors, nil
}

// fetchPage issues one listing request through the shared retry helper
// so 429s from the polite pool are absorbed.
func (s *OpenAlexSource) fetchPage(ctx context.Context, req *http.Request) (*openAlexListResponse, error) {
	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 3)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var list openAlexListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return &list, nil
}

// socialScience reports whether an author belongs to the social
// sciences and returns the matched field label. The first five topics
// decide; x_concepts with score > 40 are the fallback for authors whose
// topic list predates the topics rollout.
func socialScience(author openAlexAuthor) (string, bool) {
	topics := author.Topics
	if len(topics) > 5 {
		topics = topics[:5]
	}
	for _, topic := range topics {
		if socialScienceDomains[topic.Domain.DisplayName] {
			return topic.Field.DisplayName, true
		}
		if socialScienceFields[topic.Field.DisplayName] {
			return topic.Field.DisplayName, true
		}
	}

	concepts := author.XConcepts
	if len(concepts) > 10 {
		concepts = concepts[:10]
	}
	for _, concept := range concepts {
		if concept.Score > 40 && socialScienceFields[concept.DisplayName] {
			return concept.DisplayName, true
		}
	}
	return "", false
}

// chileanInstitution returns the display name of the author's Chilean
// institution, or "" when none of the last known institutions is in
// Chile.
func chileanInstitution(author openAlexAuthor) string {
	for _, inst := range author.LastKnownInstitutions {
		if inst.CountryCode == "CL" {
			return inst.DisplayName
		}
	}
	return ""
}

// rawFromOpenAlex maps the API record into the provider-neutral shape.
func rawFromOpenAlex(author openAlexAuthor) types.RawAuthor {
	raw := types.RawAuthor{
		OpenAlexID:  author.ID,
		ORCID:       author.ORCID,
		Name:        author.DisplayName,
		HIndex:      author.SummaryStats.HIndex.String(),
		I10Index:    author.SummaryStats.I10Index.String(),
		Citations:   author.CitedByCount.String(),
		WorksCount:  author.WorksCount.String(),
		Affiliation: chileanInstitution(author),
	}
	if raw.Affiliation == "" && len(author.LastKnownInstitutions) > 0 {
		raw.Affiliation = author.LastKnownInstitutions[0].DisplayName
	}
	for _, topic := range author.Topics {
		raw.Interests = append(raw.Interests, topic.DisplayName)
	}
	if field, ok := socialScience(author); ok {
		raw.PrimaryField = field
	}
	return raw
}
