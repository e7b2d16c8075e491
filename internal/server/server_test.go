// SPDX-License-Identifier: MPL-2.0

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/config"
	"bookmeta-cli/internal/pipeline"
	"bookmeta-cli/internal/store"
)

type fakeIngestor struct {
	repo    *store.Repository
	queries []string
	files   []string
	fail    error
}

func (f *fakeIngestor) Ingest(ctx context.Context, query string) (*catalog.Book, error) {
	f.queries = append(f.queries, query)
	if f.fail != nil {
		return nil, f.fail
	}
	return f.repo.Upsert(ctx, &catalog.Detail{Title: query})
}

func (f *fakeIngestor) ImportFile(_ context.Context, name string, _ []byte) (*pipeline.ImportResult, error) {
	f.files = append(f.files, name)
	return &pipeline.ImportResult{Total: 2, OK: 2}, nil
}

func (f *fakeIngestor) IngestAll(_ context.Context, queries []string) (*pipeline.ImportResult, error) {
	f.queries = append(f.queries, queries...)
	return &pipeline.ImportResult{Total: len(queries), OK: len(queries)}, nil
}

func newTestServer(t *testing.T) (*gin.Engine, *store.Repository, *fakeIngestor) {
	t.Helper()

	db, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })

	repo := store.NewRepository(db)
	ingestor := &fakeIngestor{repo: repo}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(
		config.ServerConfig{Host: "127.0.0.1", Port: 0},
		NewBookHandler(repo, ingestor, logger),
		"", // no covers dir in tests
		logger,
	)
	return srv.engine, repo, ingestor
}

func seedBook(t *testing.T, repo *store.Repository, d *catalog.Detail) *catalog.Book {
	t.Helper()
	book, err := repo.Upsert(context.Background(), d)
	require.NoError(t, err)
	return book
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestListAndGetBooks(t *testing.T) {
	t.Parallel()

	engine, repo, _ := newTestServer(t)
	book := seedBook(t, repo, &catalog.Detail{
		Title:   "围城",
		Authors: []string{"钱锺书"},
		ISBN:    "9787020024759",
		CIP:     "I246.5",
	})

	w := doJSON(t, engine, http.MethodGet, "/api/v1/books?q=围城", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "围城", list[0].Title)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/books/"+itoa(book.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "9787020024759", got.ISBN)
}

func TestGetBookNotFound(t *testing.T) {
	t.Parallel()

	engine, _, _ := newTestServer(t)
	w := doJSON(t, engine, http.MethodGet, "/api/v1/books/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/books/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBook(t *testing.T) {
	t.Parallel()

	engine, repo, _ := newTestServer(t)
	book := seedBook(t, repo, &catalog.Detail{Title: "活着", ISBN: "9787506365437"})

	clc := "I247.5"
	w := doJSON(t, engine, http.MethodPatch, "/api/v1/books/"+itoa(book.ID), BookUpdateRequest{CLC: &clc})
	require.Equal(t, http.StatusOK, w.Code)

	var got BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "I247.5", got.CLC)
	require.NotEmpty(t, got.CLCLabel)
	require.Equal(t, "活着", got.Title)
}

func TestDeleteBook(t *testing.T) {
	t.Parallel()

	engine, repo, _ := newTestServer(t)
	book := seedBook(t, repo, &catalog.Detail{Title: "小王子"})

	w := doJSON(t, engine, http.MethodDelete, "/api/v1/books/"+itoa(book.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/books/"+itoa(book.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestEndpoint(t *testing.T) {
	t.Parallel()

	engine, _, ingestor := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/ingest", IngestRequest{Query: "三体 刘慈欣"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, []string{"三体 刘慈欣"}, ingestor.queries)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/ingest", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestNoMatch(t *testing.T) {
	t.Parallel()

	engine, _, ingestor := newTestServer(t)
	ingestor.fail = pipeline.ErrNoMatch

	w := doJSON(t, engine, http.MethodPost, "/api/v1/ingest", IngestRequest{Query: "无名之书"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportUpload(t *testing.T) {
	t.Parallel()

	engine, _, ingestor := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "books.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("title\n围城\n活着\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"books.csv"}, ingestor.files)
}

func TestImportInlineQueries(t *testing.T) {
	t.Parallel()

	engine, _, ingestor := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/import", ImportRequest{Queries: []string{"围城", "活着"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"围城", "活着"}, ingestor.queries)

	var result pipeline.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 2, result.OK)
}

func TestRefreshUsesISBNFirst(t *testing.T) {
	t.Parallel()

	engine, repo, ingestor := newTestServer(t)
	withISBN := seedBook(t, repo, &catalog.Detail{Title: "围城", ISBN: "9787020024759"})
	noISBN := seedBook(t, repo, &catalog.Detail{Title: "活着", Authors: []string{"余华"}})

	w := doJSON(t, engine, http.MethodPost, "/api/v1/books/"+itoa(withISBN.ID)+"/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/books/"+itoa(noISBN.ID)+"/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, []string{"9787020024759", "活着 余华"}, ingestor.queries)
}

func TestStatsAndHealth(t *testing.T) {
	t.Parallel()

	engine, repo, _ := newTestServer(t)
	seedBook(t, repo, &catalog.Detail{Title: "围城", ISBN: "9787020024759"})

	w := doJSON(t, engine, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.EqualValues(t, 1, stats.Books)
	require.Equal(t, 1, stats.MissingCLC)

	w = doJSON(t, engine, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestIndexPage(t *testing.T) {
	t.Parallel()

	engine, _, _ := newTestServer(t)
	w := doJSON(t, engine, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), "BookMeta"))
}

func itoa(id uint) string {
	return strconv.Itoa(int(id))
}
