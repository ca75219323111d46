package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cipherlab/internal/catalogue"
	"cipherlab/internal/models"
)

// Store persists the algorithm catalogue and the audit trail in postgres.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.Algorithm{}, &models.AuditLog{})
}

// UpsertCatalogue writes one row per spec, updating rows that already exist.
func (s *Store) UpsertCatalogue(ctx context.Context, specs []catalogue.Spec) error {
	rows := make([]models.Algorithm, 0, len(specs))
	for _, spec := range specs {
		row, err := AlgorithmRow(spec)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "algorithm"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "category", "key_encoding", "key_pair", "key_lengths",
			"curves", "modes", "counters", "iv_size_bits", "updated_at",
		}),
	}).Create(&rows).Error
}

func (s *Store) WriteAudit(ctx context.Context, l *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(l).Error
}

// SessionLogs returns the most recent audit rows of one session, newest first.
func (s *Store) SessionLogs(ctx context.Context, sessionID string, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// AlgorithmRow maps a spec onto its catalogue table row.
func AlgorithmRow(spec catalogue.Spec) (models.Algorithm, error) {
	row := models.Algorithm{
		Algorithm:   spec.ID,
		Name:        spec.Name,
		Category:    string(spec.Category),
		KeyEncoding: string(spec.KeyEncoding),
		KeyPair:     spec.KeyPair,
	}
	var err error
	if row.KeyLengths, err = models.NewJSONB(nonNil(spec.KeySizesBits)); err != nil {
		return row, fmt.Errorf("%s key lengths: %w", spec.ID, err)
	}
	if row.Curves, err = models.NewJSONB(nonNil(spec.Curves)); err != nil {
		return row, fmt.Errorf("%s curves: %w", spec.ID, err)
	}
	if row.Modes, err = models.NewJSONB(nonNil(spec.BlockModes)); err != nil {
		return row, fmt.Errorf("%s modes: %w", spec.ID, err)
	}
	if row.Counters, err = models.NewJSONB(nonNil(spec.Counters)); err != nil {
		return row, fmt.Errorf("%s counters: %w", spec.ID, err)
	}
	if spec.RequiresNonceOrIV {
		n := spec.NonceSizeBits
		row.IVSizeBits = &n
	}
	return row, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
