// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

const profileHTML = `<html><body>
<div id="gsc_prf_in">Magdalena Saldaña</div>
<div class="gsc_prf_il">Pontificia Universidad Católica de Chile</div>
<div id="gsc_prf_ivh">Verified email at uc.cl - <a class="gsc_prf_ila" href="https://example.org">Homepage</a></div>
<a class="gsc_prf_inta" href="#">political communication</a>
<a class="gsc_prf_inta" href="#">journalism</a>
<table id="gsc_rsb_st">
<tr><td>Citations</td><td>2,310</td><td>1,870</td></tr>
<tr><td>h-index</td><td>21</td><td>19</td></tr>
<tr><td>i10-index</td><td>30</td><td>28</td></tr>
</table>
</body></html>`

func newScholarSource(ts *httptest.Server) *ScholarSource {
	return &ScholarSource{
		Client: ts.Client(),
		Config: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{UserAgent: "test-agent"},
		},
	}
}

func TestScholarFetchAuthor_ParsesProfile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UknWOrEAAAAJ", r.URL.Query().Get("user"))
		fmt.Fprint(w, profileHTML)
	}))
	defer ts.Close()

	old := scholarBase
	scholarBase = ts.URL
	defer func() { scholarBase = old }()

	src := newScholarSource(ts)
	raw, err := src.FetchAuthor(context.Background(), "UknWOrEAAAAJ")
	require.NoError(t, err)

	assert.Equal(t, "Magdalena Saldaña", raw.Name)
	assert.Equal(t, "Pontificia Universidad Católica de Chile", raw.Affiliation)
	assert.Equal(t, "uc.cl", raw.EmailDomain)
	assert.Equal(t, []string{"political communication", "journalism"}, raw.Interests)
	assert.Equal(t, "2,310", raw.Citations)
	assert.Equal(t, "1,870", raw.Citations5y)
	assert.Equal(t, "21", raw.HIndex)
	assert.Equal(t, "19", raw.HIndex5y)
	assert.Equal(t, "30", raw.I10Index)
}

func TestScholarFetchAuthor_ChallengeDetected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>Our systems have detected unusual traffic from your computer network.</body></html>`)
	}))
	defer ts.Close()

	old := scholarBase
	scholarBase = ts.URL
	defer func() { scholarBase = old }()

	src := newScholarSource(ts)
	_, err := src.FetchAuthor(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrChallenge)
}

func TestScholarFetchAuthor_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := scholarBase
	scholarBase = ts.URL
	defer func() { scholarBase = old }()

	src := newScholarSource(ts)
	_, err := src.FetchAuthor(context.Background(), "abc")

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusForbidden, serr.Code)
}

func TestScholarFetchAuthor_MissingNameIsParseError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>nothing here</p></body></html>`)
	}))
	defer ts.Close()

	old := scholarBase
	scholarBase = ts.URL
	defer func() { scholarBase = old }()

	src := newScholarSource(ts)
	_, err := src.FetchAuthor(context.Background(), "abc")

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestScholarFetchAuthor_MissingMetricsTableDefaultsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div id="gsc_prf_in">Solo Nombre</div></body></html>`)
	}))
	defer ts.Close()

	old := scholarBase
	scholarBase = ts.URL
	defer func() { scholarBase = old }()

	src := newScholarSource(ts)
	raw, err := src.FetchAuthor(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "Solo Nombre", raw.Name)
	assert.Empty(t, raw.HIndex, "normalizer turns this into 0")
	assert.Empty(t, raw.Citations)
}

func TestScholarSearchAuthors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "search_authors", r.URL.Query().Get("view_op"))
		fmt.Fprint(w, `<html><body>
<div class="gsc_1usr"><a class="gs_ai_pho" href="/citations?user=AAA111&hl=en">x</a></div>
<div class="gsc_1usr"><a href="/citations?user=BBB222&hl=en">y</a></div>
<div class="gsc_1usr"><a href="/citations?user=CCC333&hl=en">z</a></div>
</body></html>`)
	}))
	defer ts.Close()

	old := scholarBase
	scholarBase = ts.URL
	defer func() { scholarBase = old }()

	src := newScholarSource(ts)
	ids, err := src.SearchAuthors(context.Background(), "Juan Pérez Universidad de Chile", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA111", "BBB222"}, ids)
}

func TestEmailDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Verified email at uc.cl", "uc.cl"},
		{"Verified email at uchile.cl - Homepage", "uchile.cl"},
		{"someone@udp.cl", "udp.cl"},
		{"", ""},
		{"No email here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, emailDomain(tt.in))
		})
	}
}
