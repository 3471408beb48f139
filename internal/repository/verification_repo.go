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

type VerificationRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationRepository(pool *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{pool: pool}
}

func (r *VerificationRepository) CreateRequest(ctx context.Context, v model.VerificationRequest) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO verification_requests (id, claim_id, requested_by_staff_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.ClaimID, v.RequestedByStaffID, v.Status, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create verification request: %w", err)
	}
	return nil
}

func (r *VerificationRepository) FindRequestByID(ctx context.Context, id string) (model.VerificationRequest, error) {
	var v model.VerificationRequest
	err := r.pool.QueryRow(ctx,
		`SELECT id, claim_id, requested_by_staff_id, status, created_at
		 FROM verification_requests WHERE id = $1`, id).
		Scan(&v.ID, &v.ClaimID, &v.RequestedByStaffID, &v.Status, &v.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.VerificationRequest{}, model.ErrVerificationNotFound
	}
	if err != nil {
		return model.VerificationRequest{}, fmt.Errorf("find verification request: %w", err)
	}

	d, err := r.findDecision(ctx, v.ID)
	if err != nil {
		return model.VerificationRequest{}, err
	}
	v.Decision = d
	return v, nil
}

func (r *VerificationRepository) findDecision(ctx context.Context, requestID string) (*model.VerificationDecision, error) {
	var d model.VerificationDecision
	err := r.pool.QueryRow(ctx,
		`SELECT id, verification_request_id, security_id, decision, comment, created_at
		 FROM verification_decisions WHERE verification_request_id = $1`, requestID).
		Scan(&d.ID, &d.VerificationRequestID, &d.SecurityID, &d.Decision, &d.Comment, &d.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find verification decision: %w", err)
	}
	return &d, nil
}

func (r *VerificationRepository) ListRequests(ctx context.Context, filter model.VerificationFilter) ([]model.VerificationRequest, model.Meta, error) {
	where := ""
	args := make([]any, 0)
	argIdx := 1

	if status := strings.TrimSpace(filter.Status); status != "" {
		where = fmt.Sprintf("WHERE status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	page, limit := normalizePage(filter.Page, filter.Limit)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM verification_requests %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count verification requests: %w", err)
	}

	dataQuery := fmt.Sprintf(
		`SELECT id, claim_id, requested_by_staff_id, status, created_at
		 FROM verification_requests %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list verification requests: %w", err)
	}
	defer rows.Close()

	requests := make([]model.VerificationRequest, 0)
	for rows.Next() {
		var v model.VerificationRequest
		if err := rows.Scan(&v.ID, &v.ClaimID, &v.RequestedByStaffID, &v.Status, &v.CreatedAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan verification request: %w", err)
		}
		requests = append(requests, v)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Meta{}, err
	}

	// Completed requests carry their decision inline.
	for i := range requests {
		if requests[i].Status != model.VerificationCompleted {
			continue
		}
		d, err := r.findDecision(ctx, requests[i].ID)
		if err != nil {
			return nil, model.Meta{}, err
		}
		requests[i].Decision = d
	}

	return requests, paginationMeta(page, limit, total), nil
}

// CompleteWithDecision records a security decision and closes the request in
// one transaction. The request update is conditional on the request still
// being pending, so a request decided twice fails with a typed error.
func (r *VerificationRepository) CompleteWithDecision(ctx context.Context, requestID string, d model.VerificationDecision) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin verification transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE verification_requests SET status = $2 WHERE id = $1 AND status = $3`,
		requestID, model.VerificationCompleted, model.VerificationPending)
	if err != nil {
		return fmt.Errorf("complete verification request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVerificationCompleted
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO verification_decisions (id, verification_request_id, security_id, decision, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.VerificationRequestID, d.SecurityID, d.Decision, d.Comment, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create verification decision: %w", err)
	}

	return tx.Commit(ctx)
}
