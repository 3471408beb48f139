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

type ClaimRepository struct {
	pool *pgxpool.Pool
}

func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

const claimColumns = `id, student_id, found_item_id, lost_report_id, description, evidence_url,
	status, decision_note, decided_by_staff_id, decided_at, created_at, updated_at`

func scanClaim(row pgx.Row) (model.Claim, error) {
	var c model.Claim
	err := row.Scan(&c.ID, &c.StudentID, &c.FoundItemID, &c.LostReportID, &c.Description,
		&c.EvidenceURL, &c.Status, &c.DecisionNote, &c.DecidedByStaffID, &c.DecidedAt,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *ClaimRepository) Create(ctx context.Context, c model.Claim) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO claims (`+claimColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.StudentID, c.FoundItemID, c.LostReportID, c.Description, c.EvidenceURL,
		c.Status, c.DecisionNote, c.DecidedByStaffID, c.DecidedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		// The partial unique index on active claims turns a create race
		// into a constraint violation.
		if strings.Contains(err.Error(), "idx_claims_one_active_per_item") {
			return model.ErrActiveClaimExists
		}
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

func (r *ClaimRepository) FindByID(ctx context.Context, id string) (model.Claim, error) {
	c, err := scanClaim(r.pool.QueryRow(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Claim{}, model.ErrClaimNotFound
	}
	if err != nil {
		return model.Claim{}, fmt.Errorf("find claim: %w", err)
	}
	return c, nil
}

func (r *ClaimRepository) List(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, model.Meta, error) {
	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if campus := strings.TrimSpace(filter.Campus); campus != "" {
		where = append(where, fmt.Sprintf("c.found_item_id IN (SELECT id FROM found_items WHERE campus = $%d)", argIdx))
		args = append(args, campus)
		argIdx++
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		where = append(where, fmt.Sprintf("c.status = $%d", argIdx))
		args = append(args, status)
		argIdx++
	}
	if studentID := strings.TrimSpace(filter.StudentID); studentID != "" {
		where = append(where, fmt.Sprintf("c.student_id = $%d", argIdx))
		args = append(args, studentID)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	page, limit := normalizePage(filter.Page, filter.Limit)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM claims c %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count claims: %w", err)
	}

	dataQuery := fmt.Sprintf(
		`SELECT c.id, c.student_id, c.found_item_id, c.lost_report_id, c.description, c.evidence_url,
		        c.status, c.decision_note, c.decided_by_staff_id, c.decided_at, c.created_at, c.updated_at
		 FROM claims c %s
		 ORDER BY c.created_at DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	claims := make([]model.Claim, 0)
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}

	return claims, paginationMeta(page, limit, total), rows.Err()
}

func (r *ClaimRepository) HasActiveForItem(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM claims WHERE found_item_id = $1 AND status IN ('pending', 'approved'))`,
		itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active claim: %w", err)
	}
	return exists, nil
}

// Decide applies a staff decision atomically: the claim row, the item row on
// approval, and the linked lost report. The claim update is conditional on
// the claim still being pending, so two racing decisions cannot both win.
func (r *ClaimRepository) Decide(ctx context.Context, d model.ClaimDecision) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin decision transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE claims
		 SET status = $2, decision_note = $3, decided_by_staff_id = $4, decided_at = $5, updated_at = $5
		 WHERE id = $1 AND status = $6`,
		d.ClaimID, d.Status, d.Note, d.StaffID, d.DecidedAt, model.ClaimPending)
	if err != nil {
		return fmt.Errorf("decide claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClaimAlreadyDecided
	}

	if d.ItemStatus != nil {
		tag, err = tx.Exec(ctx,
			`UPDATE found_items SET status = $2, updated_at = $3
			 WHERE id = $1 AND status IN ('pending', 'stored')`,
			d.ItemID, *d.ItemStatus, d.DecidedAt)
		if err != nil {
			return fmt.Errorf("mark item claimed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrItemNotClaimable
		}
	}

	if d.ReportID != nil && d.ReportStatus != nil {
		// Advisory link; a report already reviewed out of band is left as is.
		_, err = tx.Exec(ctx,
			`UPDATE lost_reports SET status = $2, updated_at = $3
			 WHERE id = $1 AND status IN ('pending', 'verified')`,
			*d.ReportID, *d.ReportStatus, d.DecidedAt)
		if err != nil {
			return fmt.Errorf("mark report matched: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Cancel lets the owning student withdraw a pending claim.
func (r *ClaimRepository) Cancel(ctx context.Context, claimID string, studentID string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE claims SET status = $3, updated_at = $4
		 WHERE id = $1 AND student_id = $2 AND status = $5`,
		claimID, studentID, model.ClaimCancelled, at, model.ClaimPending)
	if err != nil {
		return fmt.Errorf("cancel claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClaimAlreadyDecided
	}
	return nil
}
