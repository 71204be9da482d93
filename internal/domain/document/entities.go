package document

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultName is the document holding the loan collection.
const DefaultName = "loans"

// Table: documents. One row per named JSON blob, replaced wholesale on write.
type Document struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string         `gorm:"column:name;size:64;not null;uniqueIndex:ux_documents_name"`
	Body      datatypes.JSON `gorm:"column:body;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Document) TableName() string { return "documents" }
