package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campus-lostfound/internal/model"
)

type IntakeRepository struct {
	pool *pgxpool.Pool
}

func NewIntakeRepository(pool *pgxpool.Pool) *IntakeRepository {
	return &IntakeRepository{pool: pool}
}

func (r *IntakeRepository) Create(ctx context.Context, in model.SecurityIntake) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO security_intakes
		 (id, campus, category, description, found_time, found_location, status, recorded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		in.ID, in.Campus, in.Category, in.Description, in.FoundTime, in.FoundLocation,
		in.Status, in.RecordedBy, in.CreatedAt)
	if err != nil {
		return fmt.Errorf("create security intake: %w", err)
	}
	return nil
}

func (r *IntakeRepository) FindByID(ctx context.Context, id string) (model.SecurityIntake, error) {
	var in model.SecurityIntake
	err := r.pool.QueryRow(ctx,
		`SELECT id, campus, category, description, found_time, found_location, status, recorded_by, created_at
		 FROM security_intakes WHERE id = $1`, id).
		Scan(&in.ID, &in.Campus, &in.Category, &in.Description, &in.FoundTime,
			&in.FoundLocation, &in.Status, &in.RecordedBy, &in.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.SecurityIntake{}, model.ErrIntakeNotFound
	}
	if err != nil {
		return model.SecurityIntake{}, fmt.Errorf("find security intake: %w", err)
	}
	return in, nil
}

func (r *IntakeRepository) List(ctx context.Context, filter model.IntakeFilter) ([]model.SecurityIntake, model.Meta, error) {
	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if campus := strings.TrimSpace(filter.Campus); campus != "" {
		where = append(where, fmt.Sprintf("campus = $%d", argIdx))
		args = append(args, campus)
		argIdx++
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, status)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	page, limit := normalizePage(filter.Page, filter.Limit)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM security_intakes %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count security intakes: %w", err)
	}

	dataQuery := fmt.Sprintf(
		`SELECT id, campus, category, description, found_time, found_location, status, recorded_by, created_at
		 FROM security_intakes %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list security intakes: %w", err)
	}
	defer rows.Close()

	intakes := make([]model.SecurityIntake, 0)
	for rows.Next() {
		var in model.SecurityIntake
		if err := rows.Scan(&in.ID, &in.Campus, &in.Category, &in.Description, &in.FoundTime,
			&in.FoundLocation, &in.Status, &in.RecordedBy, &in.CreatedAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan security intake: %w", err)
		}
		intakes = append(intakes, in)
	}

	return intakes, paginationMeta(page, limit, total), rows.Err()
}

func normalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return page, limit
}

func paginationMeta(page int, limit int, total int) model.Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return model.Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
