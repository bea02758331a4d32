package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litePage = `<html><body><table>
<tr><td>1.</td><td><a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.goodreads.com%2Fbook%2Fshow%2F44767458-dune&amp;rut=abc" class="result-link">Dune by Frank  Herbert | Goodreads</a></td></tr>
<tr><td>&nbsp;</td><td class="result-snippet">Set on the desert planet <b>Arrakis</b>, Dune is the story of Paul Atreides.</td></tr>
<tr><td>2.</td><td><a rel="nofollow" href="https://en.wikipedia.org/wiki/Dune_(novel)" class="result-link">Dune (novel) - Wikipedia</a></td></tr>
<tr><td>&nbsp;</td><td class="result-snippet">Dune is a 1965 epic science fiction novel.</td></tr>
<tr><td>3.</td><td><a rel="nofollow" href="https://example.com/third" class="result-link">Third</a></td></tr>
</table></body></html>`

func TestParseLiteResults(t *testing.T) {
	results, err := ParseLiteResults(strings.NewReader(litePage), 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, Result{
		Title:    "Dune by Frank Herbert | Goodreads",
		URL:      "https://www.goodreads.com/book/show/44767458-dune",
		Snippet:  "Set on the desert planet Arrakis, Dune is the story of Paul Atreides.",
		Position: 1,
	}, results[0])
	assert.Equal(t, "https://en.wikipedia.org/wiki/Dune_(novel)", results[1].URL)
	assert.Equal(t, "", results[2].Snippet)
	assert.Equal(t, 3, results[2].Position)
}

func TestParseLiteResultsRespectsMax(t *testing.T) {
	results, err := ParseLiteResults(strings.NewReader(litePage), 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(litePage))
	}))
	defer srv.Close()

	c := NewDuckDuckGoClient(0, WithBaseURL(srv.URL+"/"))
	results, err := c.Search(context.Background(), "  dune frank herbert ", 1)
	require.NoError(t, err)

	assert.Equal(t, "dune frank herbert", gotQuery)
	assert.Len(t, results, 1)
}

func TestSearchEmptyQuery(t *testing.T) {
	c := NewDuckDuckGoClient(0)
	_, err := c.Search(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewDuckDuckGoClient(0, WithBaseURL(srv.URL+"/"))
	_, err := c.Search(context.Background(), "dune", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchPacingHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(litePage))
	}))
	defer srv.Close()

	c := NewDuckDuckGoClient(time.Hour, WithBaseURL(srv.URL+"/"))
	_, err := c.Search(context.Background(), "first", 5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "second", 5)
	assert.Error(t, err)
}

func TestCleanRedirectURL(t *testing.T) {
	assert.Equal(t, "https://a.example/x?y=1",
		cleanRedirectURL("//duckduckgo.com/l/?uddg=https%3A%2F%2Fa.example%2Fx%3Fy%3D1&rut=z"))
	assert.Equal(t, "https://b.example/", cleanRedirectURL("https://b.example/"))
	assert.Equal(t, "https://c.example/p", cleanRedirectURL("//c.example/p"))
}
