package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/diegoclair/pr-police/internal/domain/contract"
	"github.com/diegoclair/pr-police/internal/domain/entity"
)

type holidayRepo struct {
	db dbConn
}

func newHolidayRepo(db dbConn) contract.HolidayRepo {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) List(ctx context.Context) ([]entity.HolidayRule, error) {
	query := `
		SELECT id, kind, month, day, nth, weekday, description, created_at
		FROM holidays
		ORDER BY month, day, nth, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var rules []entity.HolidayRule
	for rows.Next() {
		var (
			rule        entity.HolidayRule
			kind        string
			month       int
			weekday     int
			description sql.NullString
		)
		err := rows.Scan(
			&rule.ID,
			&kind,
			&month,
			&rule.Day,
			&rule.Nth,
			&weekday,
			&description,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}

		rule.Kind = entity.HolidayKind(kind)
		rule.Month = time.Month(month)
		rule.Weekday = time.Weekday(weekday)
		rule.Description = description.String

		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("holiday %d: %w", rule.ID, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return rules, nil
}
