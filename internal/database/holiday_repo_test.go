package database

import (
	"context"
	"testing"
	"time"

	"github.com/diegoclair/pr-police/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayRepository_ListSeeded(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newHolidayRepo(db.conn)

	rules, err := repo.List(context.Background())
	require.NoError(t, err, "Failed to list seeded holidays")
	require.Len(t, rules, 11)

	first := rules[0]
	assert.Equal(t, entity.HolidayFixed, first.Kind)
	assert.Equal(t, time.January, first.Month)
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "New Year's Day", first.Description)
	assert.False(t, first.CreatedAt.IsZero())

	last := rules[len(rules)-1]
	assert.Equal(t, time.December, last.Month)
	assert.Equal(t, 25, last.Day)
}

func TestHolidayRepository_ListDecodesWeekdayRules(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	ctx := context.Background()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO holidays (kind, month, nth, weekday, description) VALUES (?, ?, ?, ?, ?)`,
		"from_start", 11, 4, int(time.Thursday), "Thanksgiving")
	require.NoError(t, err, "Failed to insert holiday")

	rules, err := newHolidayRepo(db.conn).List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 12)

	var found *entity.HolidayRule
	for i := range rules {
		if rules[i].Kind == entity.HolidayFromStart {
			found = &rules[i]
		}
	}
	require.NotNil(t, found, "Expected to find the inserted holiday")
	assert.NotZero(t, found.ID)
	assert.Equal(t, time.November, found.Month)
	assert.Equal(t, 4, found.Nth)
	assert.Equal(t, time.Thursday, found.Weekday)
	assert.Equal(t, "Thanksgiving", found.Description)
}

func TestHolidayRepository_ListRejectsInvalidRow(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	ctx := context.Background()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO holidays (kind, month, nth, weekday) VALUES (?, ?, ?, ?)`,
		"from_end", 5, 9, int(time.Monday))
	require.NoError(t, err)

	_, err = newHolidayRepo(db.conn).List(ctx)
	assert.ErrorIs(t, err, entity.ErrInvalidHolidayRule)
}

func TestNewInstance(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	dm := NewInstance(db)
	require.NotNil(t, dm.Holiday())

	rules, err := dm.Holiday().List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, rules)
}
