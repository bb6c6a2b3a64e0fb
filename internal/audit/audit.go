// Package audit persists one record per evaluation run so the trail of
// past compliance checks can be replayed and reported on.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fintrail/fintrail/pkg/errors"
	"github.com/fintrail/fintrail/pkg/models"
)

// DefaultTrailLimit caps a trail read when the caller does not set one.
const DefaultTrailLimit = 50

// Recorder writes and reads the audit trail.
type Recorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecorder returns a Recorder over the given database handle.
func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Record assigns identifiers and timestamps to the given entry and
// persists it. The caller fills in the analysis fields only.
func (r *Recorder) Record(ctx context.Context, record models.AuditRecord) (models.AuditRecord, error) {
	now := time.Now().UTC()
	record.ID = uuid.New()
	record.AuditID = fmt.Sprintf("AUD-%s-%s", now.Format("20060102"), record.ID.String()[:8])
	record.CreatedAt = now

	if err := models.ValidateAuditRecord(record); err != nil {
		return models.AuditRecord{}, err
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return models.AuditRecord{}, errors.Unavailable.Explain("writing audit record").Wrap(err)
	}

	r.logger.Info("audit record written",
		zap.String("audit_id", record.AuditID),
		zap.String("status", record.ComplianceStatus),
		zap.Int("violations", record.ViolationsFound),
	)
	return record, nil
}

// Trail returns the most recent audit records, newest first.
func (r *Recorder) Trail(ctx context.Context, limit int) ([]models.AuditRecord, error) {
	if limit <= 0 {
		limit = DefaultTrailLimit
	}
	var records []models.AuditRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, errors.Unavailable.Explain("reading audit trail").Wrap(err)
	}
	return records, nil
}
