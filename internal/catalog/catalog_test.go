package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[
  {"slug": "a", "title": "Alpha", "summary": "first", "tags": ["go", "web"],
   "links": [{"href": "https://example.com/a", "label": "Site"}],
   "overview": ["<ul>", "<li>x</li>", "</ul>", "plain text"]},
  {"slug": "b", "title": "Beta", "summary": "second", "tags": []}
]`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	a := c.Projects[0]
	assert.Equal(t, "Alpha", a.Title)
	assert.Equal(t, []string{"go", "web"}, a.Tags)
	assert.Equal(t, []Link{{Href: "https://example.com/a", Label: "Site"}}, a.Links)
	assert.Len(t, a.Overview, 4)
	assert.Nil(t, a.Process)

	b := c.Projects[1]
	assert.Empty(t, b.Tags)
	assert.Nil(t, b.Links)
}

func TestFind(t *testing.T) {
	c, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)

	p, ok := c.Find("b")
	require.True(t, ok)
	assert.Equal(t, "Beta", p.Title)

	p, ok = c.Find("")
	require.True(t, ok)
	assert.Equal(t, "a", p.Slug, "missing slug falls back to the first record")

	p, ok = c.Find("nope")
	require.True(t, ok)
	assert.Equal(t, "a", p.Slug, "unknown slug falls back to the first record")

	_, ok = (&Catalog{}).Find("a")
	assert.False(t, ok)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an array", `{"slug": "a"}`},
		{"missing slug", `[{"title": "x"}]`},
		{"empty slug", `[{"slug": "", "title": "x"}]`},
		{"tags wrong type", `[{"slug": "a", "title": "x", "tags": "go"}]`},
		{"link without href", `[{"slug": "a", "title": "x", "links": [{"label": "l"}]}]`},
		{"overview not strings", `[{"slug": "a", "title": "x", "overview": [1, 2]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

func TestParseSparseRecords(t *testing.T) {
	c, err := Parse([]byte(`[
	  {"slug": "a", "title": "A", "summary": null, "hero": null,
	   "tags": null, "links": null, "overview": null, "process": null},
	  {"slug": "b"}
	]`))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	a := c.Projects[0]
	assert.Empty(t, a.Summary)
	assert.Nil(t, a.Tags)
	assert.Nil(t, a.Links)
	assert.Nil(t, a.Overview)

	b, ok := c.Find("b")
	require.True(t, ok)
	assert.Equal(t, "b", b.Slug)
	assert.Empty(t, b.Title)
}

func TestParseStructErrors(t *testing.T) {
	_, err := Parse([]byte(`[{"slug": "a", "links": [{"href": ""}]}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Href")

	_, err = Parse([]byte(`[{"slug": "a", "title": "x"}, {"slug": "a", "title": "y"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate slug")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	c, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "none.json"), nil)
	require.Error(t, err)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadHTTP(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer server.Close()

	c, err := Load(context.Background(), server.URL+"/projects.json", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, DefaultUserAgent, userAgent)
}

func TestLoadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Load(context.Background(), server.URL+"/projects.json", nil)
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestWriteRoundTrip(t *testing.T) {
	c, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, c.Write(path))

	loaded, err := Load(context.Background(), path, nil)
	require.NoError(t, err)

	want, err := json.Marshal(c)
	require.NoError(t, err)
	got, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, (&Catalog{}).Write(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
