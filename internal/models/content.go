// internal/models/content.go
package models

// ContentRecord is the metadata for a single uploaded asset. Records are
// immutable after creation; the only mutation is a hard delete that removes
// both the record and the backing file.
type ContentRecord struct {
	ID             string  `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name           string  `json:"name" gorm:"not null"`
	Description    string  `json:"description"`
	Price          float64 `json:"price" gorm:"not null"`
	CreatorAddress string  `json:"creatorAddress" gorm:"index;not null"`
	FilePath       string  `json:"filePath" gorm:"not null"`
}
