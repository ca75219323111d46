package models

import "time"

// AuditLog records one completed workflow action. Metadata never holds key
// material, only sizes, modes and timings.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:uuid;index;not null" json:"session_id"`
	Algorithm string    `gorm:"index;not null" json:"algorithm"`
	Action    string    `gorm:"not null" json:"action"`
	Outcome   string    `gorm:"not null" json:"outcome"`
	Metadata  JSONB     `gorm:"type:jsonb;default:'{}'::jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
