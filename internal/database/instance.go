package database

import (
	"github.com/diegoclair/pr-police/internal/domain/contract"
)

// instance implements DataManager interface
type instance struct {
	db          *DB
	holidayRepo contract.HolidayRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	return &instance{
		db:          db,
		holidayRepo: newHolidayRepo(db.conn),
	}
}

// Holiday returns the holiday repository
func (i *instance) Holiday() contract.HolidayRepo {
	return i.holidayRepo
}
