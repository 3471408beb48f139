package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campus-lostfound/internal/model"
)

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

const reportColumns = `id, student_id, campus, category, title, description,
	lost_time, lost_location, status, created_at, updated_at`

func scanReport(row pgx.Row) (model.LostReport, error) {
	var rep model.LostReport
	err := row.Scan(&rep.ID, &rep.StudentID, &rep.Campus, &rep.Category, &rep.Title,
		&rep.Description, &rep.LostTime, &rep.LostLocation, &rep.Status,
		&rep.CreatedAt, &rep.UpdatedAt)
	return rep, err
}

func (r *ReportRepository) Create(ctx context.Context, rep model.LostReport) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO lost_reports (`+reportColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rep.ID, rep.StudentID, rep.Campus, rep.Category, rep.Title, rep.Description,
		rep.LostTime, rep.LostLocation, rep.Status, rep.CreatedAt, rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create lost report: %w", err)
	}
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (model.LostReport, error) {
	rep, err := scanReport(r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM lost_reports WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.LostReport{}, model.ErrReportNotFound
	}
	if err != nil {
		return model.LostReport{}, fmt.Errorf("find lost report: %w", err)
	}
	return rep, nil
}

func (r *ReportRepository) List(ctx context.Context, filter model.LostReportFilter) ([]model.LostReport, model.Meta, error) {
	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if campus := strings.TrimSpace(filter.Campus); campus != "" {
		where = append(where, fmt.Sprintf("campus = $%d", argIdx))
		args = append(args, campus)
		argIdx++
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		where = append(where, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, category)
		argIdx++
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, status)
		argIdx++
	}
	if studentID := strings.TrimSpace(filter.StudentID); studentID != "" {
		where = append(where, fmt.Sprintf("student_id = $%d", argIdx))
		args = append(args, studentID)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	page, limit := normalizePage(filter.Page, filter.Limit)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM lost_reports %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count lost reports: %w", err)
	}

	dataQuery := fmt.Sprintf(
		`SELECT `+reportColumns+` FROM lost_reports %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list lost reports: %w", err)
	}
	defer rows.Close()

	reports := make([]model.LostReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan lost report: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, paginationMeta(page, limit, total), rows.Err()
}

// UpdateStatus moves a report between states. The current status is part of
// the WHERE clause so a concurrent reviewer cannot overwrite a decision.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, from model.LostReportStatus, to model.LostReportStatus, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE lost_reports SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, from, to, at)
	if err != nil {
		return fmt.Errorf("update lost report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReportNotFound
	}
	return nil
}
