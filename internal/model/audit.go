package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action types
const (
	ActionAdded   = "Added"
	ActionEdited  = "Edited"
	ActionDeleted = "Deleted"
)

// Modules
const (
	ModuleStock   = "Stock"
	ModuleRevenue = "Revenue"
)

// Entity types
const (
	EntityProduct = "Product"
	EntitySale    = "Sale"
)

// LogEntry records one change made from the Stock or Revenue pages.
// Entries are append-only; they are only removed in bulk by age.
type LogEntry struct {
	ID               uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	ActionType       string    `gorm:"type:varchar(20);not null;index" json:"action_type"`
	Module           string    `gorm:"type:varchar(20);not null;index" json:"module"`
	EntityType       string    `gorm:"type:varchar(20)" json:"entity_type"`
	EntityIdentifier string    `gorm:"type:varchar(100);index" json:"entity_identifier"` // SKU or transaction ID
	Details          string    `gorm:"type:text" json:"details"`
	Timestamp        string    `gorm:"type:varchar(30);index" json:"timestamp"` // UTC instant, RFC 3339
	TimestampPkt     string    `gorm:"type:varchar(19)" json:"timestamp_pkt"`   // Asia/Karachi
	TimestampGmt     string    `gorm:"type:varchar(19)" json:"timestamp_gmt"`   // Europe/London, GMT or BST
}

func (LogEntry) TableName() string {
	return "logs"
}

func (l *LogEntry) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
