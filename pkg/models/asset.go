package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/quill/pkg/storage"
)

// Asset records a stored upload so its reference URL stays resolvable.
type Asset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time

	Name      string `gorm:"type:varchar(500);not null"`
	MimeType  string `gorm:"type:varchar(255)"`
	Backend   string `gorm:"type:varchar(50);not null;index:idx_assets_backend"`
	URI       string `gorm:"type:varchar(1000);not null;uniqueIndex:idx_assets_uri"`
	PublicURL string `gorm:"type:varchar(1000)"`
	SizeBytes int64
}

// TableName specifies the table name.
func (Asset) TableName() string {
	return "assets"
}

// BeforeCreate hook to ensure the ID is set.
func (a *Asset) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AssetRecorder adapts the assets table to storage.Recorder.
type AssetRecorder struct {
	DB *gorm.DB
}

var _ storage.Recorder = (*AssetRecorder)(nil)

func (r *AssetRecorder) Record(ctx context.Context, asset *storage.StoredAsset) error {
	row := Asset{
		ID:        asset.ID,
		Name:      asset.Name,
		MimeType:  asset.MimeType,
		Backend:   asset.Backend,
		URI:       asset.URI,
		PublicURL: asset.PublicURL,
		SizeBytes: asset.Size,
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}
