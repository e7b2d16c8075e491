// SPDX-License-Identifier: MPL-2.0

package store

import (
	"time"

	"bookmeta-cli/internal/catalog"
)

// BookModel is the GORM database model for catalog books.
type BookModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	TitleStd string `gorm:"column:title_std;not null;default:'';index:ix_books_title_authors,priority:1;index"`
	// AuthorsStd is the comma-joined author list.
	AuthorsStd string `gorm:"column:authors_std;index:ix_books_title_authors,priority:2;index"`

	Publisher string
	PubYear   int `gorm:"column:pub_year"`

	// ISBN is a pointer so books without one do not collide on the
	// unique index.
	ISBN    *string `gorm:"column:isbn;uniqueIndex"`
	Edition string
	Pages   int

	Summary   string `gorm:"type:text"`
	AuthorBio string `gorm:"column:author_bio;type:text"`
	Language  string `gorm:"default:中文"`

	CoverPath string `gorm:"column:cover_path"`

	CIP string `gorm:"column:cip"`
	CLC string `gorm:"column:clc"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Sources []SourceModel `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM.
func (BookModel) TableName() string {
	return "books"
}

// ToDomain converts the GORM model to the domain entity.
func (m *BookModel) ToDomain() *catalog.Book {
	return &catalog.Book{
		ID:        m.ID,
		Title:     m.TitleStd,
		Authors:   m.AuthorsStd,
		Publisher: m.Publisher,
		PubYear:   m.PubYear,
		ISBN:      derefString(m.ISBN),
		Edition:   m.Edition,
		Pages:     m.Pages,
		Summary:   m.Summary,
		AuthorBio: m.AuthorBio,
		Language:  m.Language,
		CoverPath: m.CoverPath,
		CIP:       m.CIP,
		CLC:       m.CLC,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain converts the domain entity to the GORM model.
func (m *BookModel) FromDomain(b *catalog.Book) {
	m.ID = b.ID
	m.TitleStd = b.Title
	m.AuthorsStd = b.Authors
	m.Publisher = b.Publisher
	m.PubYear = b.PubYear
	m.ISBN = nullableString(b.ISBN)
	m.Edition = b.Edition
	m.Pages = b.Pages
	m.Summary = b.Summary
	m.AuthorBio = b.AuthorBio
	m.Language = b.Language
	m.CoverPath = b.CoverPath
	m.CIP = b.CIP
	m.CLC = b.CLC
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SourceModel is the GORM database model for provenance records.
type SourceModel struct {
	ID     uint `gorm:"primaryKey;autoIncrement"`
	BookID uint `gorm:"column:book_id;not null;index"`

	Site string `gorm:"not null;index"`
	URL  string `gorm:"column:url"`
	// Extracted is the raw provider detail serialized as JSON.
	Extracted string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM.
func (SourceModel) TableName() string {
	return "sources"
}

// ToDomain converts the GORM model to the domain entity.
func (m *SourceModel) ToDomain() *catalog.SourceRecord {
	return &catalog.SourceRecord{
		ID:        m.ID,
		BookID:    m.BookID,
		Site:      m.Site,
		URL:       m.URL,
		Extracted: m.Extracted,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain converts the domain entity to the GORM model.
func (m *SourceModel) FromDomain(s *catalog.SourceRecord) {
	m.ID = s.ID
	m.BookID = s.BookID
	m.Site = s.Site
	m.URL = s.URL
	m.Extracted = s.Extracted
	m.CreatedAt = s.CreatedAt
}
