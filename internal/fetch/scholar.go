// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// scholarBase is the Google Scholar endpoint. Declared as a var so
// tests can substitute an httptest server.
var scholarBase = "https://scholar.google.com"

// ScholarSource scrapes the public Google Scholar profile page.
// Selectors track the gsc_* ids Scholar has used for years; when they
// break the parse fails loudly rather than returning empty metrics.
type ScholarSource struct {
	Client *http.Client
	Config types.FetchConfig
}

// Name returns the source identifier.
func (s *ScholarSource) Name() string { return "scholar" }

// FetchAuthor fetches and parses one profile page. One network call
// per invocation; retries are the batch loop's job.
func (s *ScholarSource) FetchAuthor(ctx context.Context, id string) (*types.RawAuthor, error) {
	profileURL := fmt.Sprintf("%s/citations?user=%s&hl=en", scholarBase, url.QueryEscape(id))

	body, err := s.get(ctx, profileURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	raw := &types.RawAuthor{
		ScholarID:   id,
		Name:        strings.TrimSpace(doc.Find("#gsc_prf_in").Text()),
		Affiliation: strings.TrimSpace(doc.Find("div.gsc_prf_il").First().Text()),
		EmailDomain: emailDomain(doc.Find("#gsc_prf_ivh").Text()),
		Homepage:    doc.Find("a.gsc_prf_ila").AttrOr("href", ""),
		PictureURL:  doc.Find("#gsc_prf_pup-img").AttrOr("src", ""),
	}

	doc.Find("a.gsc_prf_inta").Each(func(_ int, sel *goquery.Selection) {
		raw.Interests = append(raw.Interests, strings.TrimSpace(sel.Text()))
	})

	// The citation metrics table has one row per metric with an
	// all-time and a since-5-years column.
	doc.Find("table#gsc_rsb_st tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		metric := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		all := strings.TrimSpace(cells.Eq(1).Text())
		recent := strings.TrimSpace(cells.Eq(2).Text())

		switch {
		case strings.Contains(metric, "citations"):
			raw.Citations, raw.Citations5y = all, recent
		case strings.Contains(metric, "h-index"):
			raw.HIndex, raw.HIndex5y = all, recent
		case strings.Contains(metric, "i10-index"):
			raw.I10Index, raw.I10Index5y = all, recent
		}
	})

	if raw.Name == "" {
		return nil, &ParseError{Reason: "profile name container (#gsc_prf_in) not found"}
	}
	return raw, nil
}

var scholarUserRe = regexp.MustCompile(`user=([^&]+)`)

// SearchAuthors queries the profile search page and returns the
// Scholar IDs of the first max results. Used by the add command to
// locate a researcher by name before fetching the full profile.
func (s *ScholarSource) SearchAuthors(ctx context.Context, query string, max int) ([]string, error) {
	searchURL := fmt.Sprintf("%s/citations?hl=en&view_op=search_authors&mauthors=%s",
		scholarBase, url.QueryEscape(query))

	body, err := s.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	var ids []string
	doc.Find("div.gsc_1usr a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		m := scholarUserRe.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		id := m[1]
		for _, seen := range ids {
			if seen == id {
				return true
			}
		}
		ids = append(ids, id)
		return max <= 0 || len(ids) < max
	})
	return ids, nil
}

// get issues one request and applies the status and challenge checks
// shared by the profile and search pages.
func (s *ScholarSource) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading scholar response: %w", err)
	}
	body := string(data)

	if isChallengePage(body) {
		return "", ErrChallenge
	}
	return body, nil
}

// isChallengePage detects the bot-verification interstitial Scholar
// serves when it flags automated traffic.
func isChallengePage(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "unusual traffic") ||
		strings.Contains(lower, "captcha") ||
		strings.Contains(lower, "gs_captcha")
}

// emailDomain extracts the domain from the "Verified email at X"
// banner under the profile name.
func emailDomain(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.LastIndex(text, "@"); i >= 0 {
		if f := strings.Fields(text[i+1:]); len(f) > 0 {
			return f[0]
		}
		return ""
	}
	const marker = "Verified email at "
	if i := strings.Index(text, marker); i >= 0 {
		rest := strings.TrimSpace(text[i+len(marker):])
		if f := strings.Fields(rest); len(f) > 0 {
			return strings.TrimSuffix(f[0], ".")
		}
	}
	return ""
}
