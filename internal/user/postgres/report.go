package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Summary is one line of the user listing.
type Summary struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	Roles     []string  `db:"-"`
}

// ReportRepository serves read-only listings with plain SQL.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// List returns users ordered by id, optionally filtered by status, with their role names.
func (r *ReportRepository) List(ctx context.Context, status string, limit int) ([]Summary, error) {
	query := `SELECT id, name, email, status, created_at FROM users`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var users []Summary
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return users, nil
	}

	ids := make([]int64, len(users))
	byID := make(map[int64]int, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = i
		users[i].Roles = []string{}
	}

	roleQuery, roleArgs, err := sqlx.In(`
SELECT ur.user_id, r.name
FROM user_roles ur
JOIN roles r ON r.id = ur.role_id
WHERE ur.user_id IN (?)
ORDER BY r.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("build role query: %w", err)
	}

	var rows []struct {
		UserID int64  `db:"user_id"`
		Name   string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(roleQuery), roleArgs...); err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	for _, row := range rows {
		i := byID[row.UserID]
		users[i].Roles = append(users[i].Roles, row.Name)
	}

	return users, nil
}
