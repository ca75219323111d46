package models

import "time"

// Algorithm is the persisted view of one catalogue entry.
type Algorithm struct {
	ID          string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Algorithm   string    `gorm:"uniqueIndex;not null" json:"algorithm"`
	Name        string    `gorm:"not null" json:"name"`
	Category    string    `gorm:"not null" json:"category"`
	KeyEncoding string    `gorm:"not null" json:"key_encoding"`
	KeyPair     bool      `gorm:"not null;default:false" json:"key_pair"`
	KeyLengths  JSONB     `gorm:"type:jsonb;not null;default:'[]'::jsonb" json:"key_lengths"`
	Curves      JSONB     `gorm:"type:jsonb;not null;default:'[]'::jsonb" json:"curves"`
	Modes       JSONB     `gorm:"type:jsonb;not null;default:'[]'::jsonb" json:"modes"`
	Counters    JSONB     `gorm:"type:jsonb;not null;default:'[]'::jsonb" json:"counters"`
	IVSizeBits  *int      `json:"iv_size_bits,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
