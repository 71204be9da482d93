package mysql

import (
	"context"
	"errors"
	"time"

	docDomain "loanbook/internal/domain/document"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

// AutoMigrate creates or updates the documents table.
func (r *DocumentRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&docDomain.Document{})
}

func (r *DocumentRepository) Get(ctx context.Context, name string) (*docDomain.Document, error) {
	var out docDomain.Document
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, docDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

// Put inserts the document or overwrites the body of the one with the same name.
func (r *DocumentRepository) Put(ctx context.Context, d *docDomain.Document) error {
	d.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(d).Error
}
