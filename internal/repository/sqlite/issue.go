package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

var _ repository.IssueRepository = (*DB)(nil)

const issueColumns = `id, title, description, type, priority, status, reporter_id, created_at, updated_at`

func (db *DB) CreateIssue(ctx context.Context, issue *model.Issue) error {
	issue.ID = xid.New().String()

	now := time.Now().UTC()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO issues (`+issueColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		issue.ID,
		issue.Title,
		issue.Description,
		issue.Type,
		issue.Priority,
		issue.Status,
		issue.ReporterID,
		issue.CreatedAt,
		issue.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating issue: %w", err)
	}

	return nil
}

func (db *DB) GetIssueByID(ctx context.Context, id string) (*model.Issue, error) {
	var i model.Issue

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = ?`, id,
	).Scan(
		&i.ID, &i.Title, &i.Description, &i.Type, &i.Priority, &i.Status,
		&i.ReporterID, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("issue", id)
		}
		return nil, fmt.Errorf("sqlite: getting issue %s: %w", id, err)
	}

	return &i, nil
}

// ListIssues returns issues newest-first, optionally filtered by equality
// on the enum fields. Filters AND together.
func (db *DB) ListIssues(ctx context.Context, filter repository.IssueFilter) ([]model.Issue, error) {
	limit := clampLimit(filter.Limit)

	var where []string
	var args []any
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}

	query := `SELECT ` + issueColumns + ` FROM issues`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing issues: %w", err)
	}
	defer rows.Close()

	issues := make([]model.Issue, 0, limit)
	for rows.Next() {
		var i model.Issue
		if err := rows.Scan(
			&i.ID, &i.Title, &i.Description, &i.Type, &i.Priority, &i.Status,
			&i.ReporterID, &i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning issue row: %w", err)
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating issues: %w", err)
	}

	return issues, nil
}

func (db *DB) UpdateIssue(ctx context.Context, issue *model.Issue) error {
	issue.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE issues
		 SET title = ?, description = ?, type = ?, priority = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		issue.Title,
		issue.Description,
		issue.Type,
		issue.Priority,
		issue.Status,
		issue.UpdatedAt,
		issue.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating issue %s: %w", issue.ID, err)
	}

	return checkAffected(result, "issue", issue.ID)
}

func (db *DB) DeleteIssue(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM issues WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting issue %s: %w", id, err)
	}

	return checkAffected(result, "issue", id)
}
