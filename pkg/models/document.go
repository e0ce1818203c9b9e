// Package models contains the database models the standalone server uses
// to stand in for the host platform's entity storage.
package models

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hashicorp-forge/quill/pkg/document"
)

// DefaultEncodingProfile is applied to documents created without one.
const DefaultEncodingProfile = "basic_html"

// Document is a persisted content document.
type Document struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title           string `gorm:"type:varchar(500)"`
	BodyValue       string `gorm:"type:text"`
	EncodingProfile string `gorm:"type:varchar(100);not null"`
}

// TableName specifies the table name.
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate hook to default the encoding profile.
func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.EncodingProfile == "" {
		d.EncodingProfile = DefaultEncodingProfile
	}
	return nil
}

// DocumentStore adapts the documents table to the document.Store
// interface consumed by the patch service. Save is one gorm call, so two
// concurrent patches resolve last-write-wins at the database.
type DocumentStore struct {
	DB *gorm.DB
}

var _ document.Store = (*DocumentStore)(nil)

func (s *DocumentStore) Get(ctx context.Context, id string) (*document.Document, error) {
	var d Document
	err := s.DB.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	return &document.Document{
		ID:    d.ID,
		Title: d.Title,
		Body: document.Body{
			Value:           d.BodyValue,
			EncodingProfile: d.EncodingProfile,
		},
	}, nil
}

func (s *DocumentStore) Save(ctx context.Context, doc *document.Document) error {
	return s.DB.WithContext(ctx).
		Model(&Document{}).
		Where("id = ?", doc.ID).
		Updates(map[string]any{
			"body_value":       doc.Body.Value,
			"encoding_profile": doc.Body.EncodingProfile,
		}).Error
}
