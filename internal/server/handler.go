// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"bookmeta-cli/internal/catalog"
	"bookmeta-cli/internal/classify"
	"bookmeta-cli/internal/pipeline"
	"bookmeta-cli/internal/store"
)

// maxImportUpload bounds the size of an uploaded batch file.
const maxImportUpload = 8 << 20

// Ingestor is the subset of the ingest pipeline the API needs.
// *pipeline.Pipeline satisfies it.
type Ingestor interface {
	Ingest(ctx context.Context, query string) (*catalog.Book, error)
	ImportFile(ctx context.Context, name string, data []byte) (*pipeline.ImportResult, error)
	IngestAll(ctx context.Context, queries []string) (*pipeline.ImportResult, error)
}

// BookHandler serves the /api/v1 endpoints.
type BookHandler struct {
	repo     *store.Repository
	ingestor Ingestor
	logger   *log.Logger
}

// NewBookHandler creates a BookHandler. A nil logger falls back to
// log.Default().
func NewBookHandler(repo *store.Repository, ingestor Ingestor, logger *log.Logger) *BookHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &BookHandler{repo: repo, ingestor: ingestor, logger: logger}
}

// List returns books matching the optional ?q= query, newest first.
func (h *BookHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, errorResponse("limit must be a positive integer"))
			return
		}
		limit = n
	}

	books, err := h.repo.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("search failed: %v", err)))
		return
	}

	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns a single book by ID.
func (h *BookHandler) Get(c *gin.Context) {
	book, ok := h.bookByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

// Update applies a partial edit to a book record.
func (h *BookHandler) Update(c *gin.Context) {
	book, ok := h.bookByParam(c)
	if !ok {
		return
	}

	var req BookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	applyUpdate(book, &req)

	if err := h.repo.Update(c.Request.Context(), book); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("update failed: %v", err)))
		return
	}

	c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete removes a book and its source records.
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("book %d not found", id)))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("delete failed: %v", err)))
		return
	}

	c.Status(http.StatusNoContent)
}

// Sources lists the provider records behind a book, newest first.
func (h *BookHandler) Sources(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	records, err := h.repo.Sources(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("list sources failed: %v", err)))
		return
	}
	c.JSON(http.StatusOK, records)
}

// Refresh re-runs the provider chain for an existing book, using its ISBN
// when present and falling back to title plus first author.
func (h *BookHandler) Refresh(c *gin.Context) {
	book, ok := h.bookByParam(c)
	if !ok {
		return
	}

	query := book.ISBN
	if query == "" {
		query = book.Title
		if authors := book.AuthorList(); len(authors) > 0 {
			query += " " + authors[0]
		}
	}

	updated, err := h.ingestor.Ingest(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoMatch) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("no provider matched %q", query)))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("refresh failed: %v", err)))
		return
	}

	h.logger.Info("refreshed book", "id", book.ID, "query", query)
	c.JSON(http.StatusOK, toBookResponse(updated))
}

// Ingest resolves a single query against the provider chain.
func (h *BookHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	book, err := h.ingestor.Ingest(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoMatch) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("no provider matched %q", req.Query)))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("ingest failed: %v", err)))
		return
	}

	c.JSON(http.StatusCreated, toBookResponse(book))
}

// Import ingests a batch. It accepts either a multipart upload under the
// "file" field (CSV or plain-text query list) or a JSON body with inline
// queries.
func (h *BookHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close() //nolint:errcheck // read-only temp file

		data, readErr := io.ReadAll(io.LimitReader(file, maxImportUpload))
		if readErr != nil {
			c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("read upload: %v", readErr)))
			return
		}

		result, importErr := h.ingestor.ImportFile(c.Request.Context(), header.Filename, data)
		if importErr != nil {
			c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("import failed: %v", importErr)))
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	var req ImportRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, errorResponse("expected a multipart file upload or a JSON query list"))
		return
	}

	result, ingestErr := h.ingestor.IngestAll(c.Request.Context(), req.Queries)
	if ingestErr != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("import failed: %v", ingestErr)))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats reports catalog totals for the UI header.
func (h *BookHandler) Stats(c *gin.Context) {
	total, err := h.repo.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("count failed: %v", err)))
		return
	}

	missing, err := h.repo.ListMissingCLC(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("stats failed: %v", err)))
		return
	}

	c.JSON(http.StatusOK, StatsResponse{Books: total, MissingCLC: len(missing)})
}

func (h *BookHandler) bookByParam(c *gin.Context) (*catalog.Book, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}

	book, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Sprintf("book %d not found", id)))
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("load book: %v", err)))
		return nil, false
	}
	return book, true
}

func idParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid book id %q", raw)))
		return 0, false
	}
	return uint(id), true
}

func toBookResponse(b *catalog.Book) BookResponse {
	resp := BookResponse{Book: *b}
	if b.CLC != "" {
		resp.CLCLabel = classify.Label(b.CLC)
		resp.CLCBucket = classify.Bucket(b.CLC)
	}
	return resp
}

func applyUpdate(b *catalog.Book, req *BookUpdateRequest) {
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Authors != nil {
		b.Authors = *req.Authors
	}
	if req.Publisher != nil {
		b.Publisher = *req.Publisher
	}
	if req.PubYear != nil {
		b.PubYear = *req.PubYear
	}
	if req.Edition != nil {
		b.Edition = *req.Edition
	}
	if req.Pages != nil {
		b.Pages = *req.Pages
	}
	if req.Summary != nil {
		b.Summary = *req.Summary
	}
	if req.AuthorBio != nil {
		b.AuthorBio = *req.AuthorBio
	}
	if req.Language != nil {
		b.Language = *req.Language
	}
	if req.CLC != nil {
		b.CLC = *req.CLC
	}
}
