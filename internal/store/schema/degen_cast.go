package schema

import "time"

// DegenCast holds the columns shared by indexed tip and raindrop casts.
// Rows are written by an external cast indexer; this service only reads them.
type DegenCast struct {
	ID            int64     `gorm:"primaryKey"`
	CreatedAt     time.Time `gorm:"not null"`
	FromFid       string    `gorm:"type:text;not null;index"`
	Value         float64   `gorm:"type:numeric;not null"`
	OriginalText  string    `gorm:"type:text;not null"`
	CastHash      string    `gorm:"type:text;not null;index"`
	CastTimestamp time.Time `gorm:"not null"`
	RootParentURL *string   `gorm:"column:root_parent_url;type:text"`
	ParentURL     *string   `gorm:"column:parent_url;type:text"`
}

// DegenTip is an indexed cast that tipped another user
type DegenTip struct {
	DegenCast
	ToFid          string  `gorm:"type:text;not null"`
	ParentCastHash *string `gorm:"type:text"`
}

func (DegenTip) TableName() string {
	return "degen_tip"
}

// DegenRaindrop is an indexed cast that spent raindrop balance
type DegenRaindrop struct {
	DegenCast
}

func (DegenRaindrop) TableName() string {
	return "degen_raindrop"
}
