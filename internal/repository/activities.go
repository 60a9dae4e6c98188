package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
)

func (r *Repository) CreateActivity(a *domain.Activity) error {
	query := `
		INSERT INTO console_activities (username, action, target, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{a.Username, string(a.Action), a.Target, a.Detail}
	dst := []any{&a.ID, &a.CreatedAt}
	if err := r.dbpool.QueryRow(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// GetRecentActivities returns the newest rows first.
func (r *Repository) GetRecentActivities(limit int) ([]*domain.Activity, error) {
	query := `
		SELECT id, username, action, target, detail, created_at
		FROM console_activities
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		a := &domain.Activity{}
		var action string

		dst := []any{&a.ID, &a.Username, &action, &a.Target, &a.Detail, &a.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		a.Action = domain.ActivityAction(action)

		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *Repository) GetActivitiesByUsername(username string, limit int) ([]*domain.Activity, error) {
	query := `
		SELECT id, action, target, detail, created_at
		FROM console_activities
		WHERE username = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.Query(ctx, query, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		a := &domain.Activity{Username: username}
		var action string

		if err := rows.Scan(&a.ID, &action, &a.Target, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Action = domain.ActivityAction(action)

		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}
