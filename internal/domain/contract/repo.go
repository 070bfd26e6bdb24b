package contract

import (
	"context"

	"github.com/diegoclair/pr-police/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	Holiday() HolidayRepo
}

// HolidayRepo reads the stored holiday rules. Rows are managed by migrations.
type HolidayRepo interface {
	List(ctx context.Context) ([]entity.HolidayRule, error)
}
