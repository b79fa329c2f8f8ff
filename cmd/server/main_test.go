package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lexd "github.com/pamir-morph/golexd"
)

const testGrammar = `
PATTERNS
NounStem [<n>] NounNum

LEXICON NounStem
дуст

LEXICON NounNum
<sg>:
<pl>:ен
`

func testHolder(t *testing.T) *holder {
	t.Helper()
	tr, err := lexd.Compile(testGrammar)
	require.NoError(t, err)
	return &holder{t: tr}
}

func TestHandleAnalyze(t *testing.T) {
	h := testHolder(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze?surface=дустен", nil)
	rec := httptest.NewRecorder()
	handleAnalyze(h)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "дустен", resp.Surface)
	assert.Equal(t, []string{"дуст<n><pl>"}, resp.Readings)
}

func TestHandleAnalyzeUnknownForm(t *testing.T) {
	h := testHolder(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze?surface=хона", nil)
	rec := httptest.NewRecorder()
	handleAnalyze(h)(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp analyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Readings)
}

func TestHandleAnalyzeMissingParam(t *testing.T) {
	h := testHolder(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	handleAnalyze(h)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeMethodNotAllowed(t *testing.T) {
	h := testHolder(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze?surface=дуст", nil)
	rec := httptest.NewRecorder()
	handleAnalyze(h)(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleGenerate(t *testing.T) {
	h := testHolder(t)

	req := httptest.NewRequest(http.MethodGet, "/api/generate?lexical=дуст<n><pl>", nil)
	rec := httptest.NewRecorder()
	handleGenerate(h)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp generateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"дустен"}, resp.Surfaces)
}

func TestHandleStats(t *testing.T) {
	h := testHolder(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	handleStats(h)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp statsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.WordClasses)
	assert.Equal(t, 2, resp.Lexicons)
	assert.Equal(t, 3, resp.Entries)
	assert.Positive(t, resp.States)
}

func TestWatchGrammarReloadAndShutdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nouns.lexd")
	require.NoError(t, os.WriteFile(path, []byte(testGrammar), 0o644))

	h := testHolder(t)
	before := h.get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watchGrammar(ctx, dir, h))

	updated := testGrammar + "\nLEXICON NounStem\nпода\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		return h.get() != before
	}, 5*time.Second, 50*time.Millisecond, "transducer swapped after grammar change")
	assert.Equal(t, 4, h.get().Stats().Entries)

	// cancelling the context stops the watcher goroutine
	cancel()
}

func TestHolderSwap(t *testing.T) {
	h := testHolder(t)
	before := h.get()

	tr, err := lexd.Compile(testGrammar)
	require.NoError(t, err)
	h.set(tr)
	assert.NotSame(t, before, h.get())
}
