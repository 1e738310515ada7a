package outbox

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
)

// dead letter rows keep at most this many bytes of the publish error.
const dlqErrorBytes = 1024

// DLQRepository parks events the publisher will not retry.
type DLQRepository struct {
	db *gorm.DB
}

func NewDLQRepository(db *gorm.DB) *DLQRepository {
	return &DLQRepository{db: db}
}

// InsertTx writes entry inside the publisher's claim transaction so the
// source row is closed atomically with the copy.
func (r *DLQRepository) InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error {
	if tx == nil {
		return errNoTx
	}
	if !entry.ErrorReason.IsValid() {
		return fmt.Errorf("dead letter %s: unknown reason %q", entry.EventID, entry.ErrorReason)
	}
	if entry.ErrorMessage != nil {
		clipped := clipUTF8(*entry.ErrorMessage, dlqErrorBytes)
		entry.ErrorMessage = &clipped
	}
	return tx.Create(&entry).Error
}

// FindByEventID returns nil, nil when the event was never parked.
func (r *DLQRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) (*models.OutboxDLQ, error) {
	var row models.OutboxDLQ
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("find dead letter %s: %w", eventID, err)
	}
	return &row, nil
}

// CountByReason feeds the publisher's startup log line.
func (r *DLQRepository) CountByReason(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ErrorReason string
		Total       int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.OutboxDLQ{}).
		Select("error_reason, COUNT(*) AS total").
		Group("error_reason").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count dead letters: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ErrorReason] = row.Total
	}
	return counts, nil
}

func clipUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
