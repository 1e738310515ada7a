package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/pagination"
)

// Base is embedded by repositories that only need a context-bound handle.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds ctx to the connection. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Paginate counts every row query matches and then loads the requested page.
// Sort keys are resolved through sortable; fallback orders unsorted requests.
// Scopes apply to the page load only, which keeps preloads out of the count.
func Paginate[T any](query *gorm.DB, params pagination.Params, sortable map[string]string, fallback string, scopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	params = params.Normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	var rows []T
	err := query.Session(&gorm.Session{}).
		Scopes(scopes...).
		Order(params.OrderClause(sortable, fallback)).
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&rows).Error
	return rows, total, err
}
