// SPDX-License-Identifier: MPL-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"bookmeta-cli/internal/catalog"
)

// ErrBookNotFound is returned by lookups that match no book.
var ErrBookNotFound = errors.New("book not found")

// Repository is the catalog persistence API.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps an open database connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying connection for diagnostics.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Upsert applies provider detail to the catalog. A detail with an ISBN
// locates the existing book by ISBN and overwrites fields that carry a
// value, leaving the rest alone; a detail without an ISBN always creates a
// new book so distinct editions are never merged by title.
func (r *Repository) Upsert(ctx context.Context, d *catalog.Detail) (*catalog.Book, error) {
	isbn := catalog.NormalizeISBN(d.ISBN)

	var result *catalog.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model BookModel
		if isbn != "" {
			err := tx.Where("isbn = ?", isbn).First(&model).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				model = BookModel{ISBN: &isbn, TitleStd: d.Title, AuthorsStd: catalog.JoinAuthors(d.Authors)}
				if err := tx.Create(&model).Error; err != nil {
					return fmt.Errorf("create book: %w", err)
				}
			case err != nil:
				return fmt.Errorf("lookup book by isbn: %w", err)
			}
			mergeDetail(&model, d)
		} else {
			model = BookModel{
				TitleStd:   d.Title,
				AuthorsStd: catalog.JoinAuthors(d.Authors),
				Publisher:  d.Publisher,
				PubYear:    d.PubYear,
				Edition:    d.Edition,
				Pages:      d.Pages,
				Summary:    strings.TrimSpace(d.Summary),
				AuthorBio:  strings.TrimSpace(d.AuthorBio),
				Language:   d.Language,
				CIP:        d.CIP,
			}
		}

		if err := tx.Save(&model).Error; err != nil {
			return fmt.Errorf("save book: %w", err)
		}
		result = model.ToDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// mergeDetail overwrites model fields from d, skipping empty values so a
// sparse source never erases data a richer one provided earlier.
func mergeDetail(model *BookModel, d *catalog.Detail) {
	if t := strings.TrimSpace(d.Title); t != "" {
		model.TitleStd = t
	}
	if len(d.Authors) > 0 {
		model.AuthorsStd = catalog.JoinAuthors(d.Authors)
	}
	if d.Publisher != "" {
		model.Publisher = d.Publisher
	}
	if d.PubYear != 0 {
		model.PubYear = d.PubYear
	}
	if d.Edition != "" {
		model.Edition = d.Edition
	}
	if d.Pages != 0 {
		model.Pages = d.Pages
	}
	if s := strings.TrimSpace(d.Summary); s != "" {
		model.Summary = s
	}
	if b := strings.TrimSpace(d.AuthorBio); b != "" {
		model.AuthorBio = b
	}
	if d.Language != "" {
		model.Language = d.Language
	}
	if d.CIP != "" {
		model.CIP = d.CIP
	}
}

// Update persists changes to an existing book.
func (r *Repository) Update(ctx context.Context, b *catalog.Book) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	var model BookModel
	model.FromDomain(b)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return nil
}

// SetCoverPath records a cover path if the book does not already have one.
func (r *Repository) SetCoverPath(ctx context.Context, bookID uint, relPath string) error {
	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ? AND (cover_path IS NULL OR cover_path = '')", bookID).
		Update("cover_path", relPath).Error
	if err != nil {
		return fmt.Errorf("set cover path for book %d: %w", bookID, err)
	}
	return nil
}

// ClearCoverPath removes a book's cover reference without touching any
// other column, so it works on rows that would not pass full validation.
func (r *Repository) ClearCoverPath(ctx context.Context, bookID uint) error {
	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ?", bookID).
		Update("cover_path", "").Error
	if err != nil {
		return fmt.Errorf("clear cover path for book %d: %w", bookID, err)
	}
	return nil
}

// SetCLC assigns a classification code if the book does not have one yet.
func (r *Repository) SetCLC(ctx context.Context, bookID uint, clc string) error {
	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ? AND (clc IS NULL OR clc = '')", bookID).
		Update("clc", clc).Error
	if err != nil {
		return fmt.Errorf("set clc for book %d: %w", bookID, err)
	}
	return nil
}

// AddSource appends a provenance record.
func (r *Repository) AddSource(ctx context.Context, s *catalog.SourceRecord) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	var model SourceModel
	model.FromDomain(s)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("create source record: %w", err)
	}
	s.ID = model.ID
	return nil
}

// Sources lists the provenance records for one book, newest first.
func (r *Repository) Sources(ctx context.Context, bookID uint) ([]*catalog.SourceRecord, error) {
	var models []SourceModel
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("fetch sources for book %d: %w", bookID, err)
	}
	out := make([]*catalog.SourceRecord, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

// GetByID fetches one book.
func (r *Repository) GetByID(ctx context.Context, id uint) (*catalog.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch book %d: %w", id, err)
	}
	return model.ToDomain(), nil
}

// GetByISBN fetches one book by normalized ISBN.
func (r *Repository) GetByISBN(ctx context.Context, isbn string) (*catalog.Book, error) {
	norm := catalog.NormalizeISBN(isbn)
	if norm == "" {
		return nil, ErrBookNotFound
	}
	var model BookModel
	err := r.db.WithContext(ctx).Where("isbn = ?", norm).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch book by isbn %s: %w", norm, err)
	}
	return model.ToDomain(), nil
}

// Search lists books whose title, authors or ISBN contains the query,
// newest first. An empty query lists everything up to limit.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]*catalog.Book, error) {
	dbQuery := r.db.WithContext(ctx).Model(&BookModel{})
	if q := strings.TrimSpace(query); q != "" {
		like := "%" + q + "%"
		dbQuery = dbQuery.Where(
			"title_std LIKE ? OR authors_std LIKE ? OR isbn LIKE ?",
			like, like, like,
		)
	}
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}

	var models []BookModel
	if err := dbQuery.Order("updated_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	out := make([]*catalog.Book, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

// ListMissingCLC lists books without a classification code, for backfill.
func (r *Repository) ListMissingCLC(ctx context.Context) ([]*catalog.Book, error) {
	var models []BookModel
	err := r.db.WithContext(ctx).
		Where("clc IS NULL OR clc = ''").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list unclassified books: %w", err)
	}
	out := make([]*catalog.Book, len(models))
	for i := range models {
		out[i] = models[i].ToDomain()
	}
	return out, nil
}

// ListCoverPaths returns every non-empty cover path in the catalog, for
// orphan cleanup.
func (r *Repository) ListCoverPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("cover_path IS NOT NULL AND cover_path <> ''").
		Pluck("cover_path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("list cover paths: %w", err)
	}
	return paths, nil
}

// Count returns the number of books in the catalog.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&BookModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// Delete removes one book; its source records go with it.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&SourceModel{}).Error; err != nil {
			return fmt.Errorf("delete sources for book %d: %w", id, err)
		}
		res := tx.Delete(&BookModel{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete book %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrBookNotFound
		}
		return nil
	})
}

// Purge removes every book and source record. The caller is expected to
// have confirmed this with the user.
func (r *Repository) Purge(ctx context.Context) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&BookModel{}).Count(&purged).Error; err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&SourceModel{}).Error; err != nil {
			return fmt.Errorf("purge sources: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&BookModel{}).Error; err != nil {
			return fmt.Errorf("purge books: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}
