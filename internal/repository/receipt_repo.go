package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campus-lostfound/internal/model"
)

type ReceiptRepository struct {
	pool *pgxpool.Pool
}

func NewReceiptRepository(pool *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{pool: pool}
}

const receiptColumns = `id, claim_id, found_item_id, staff_id, student_id,
	confirmed_full_name, document_number, phone_number, returned_at`

func scanReceipt(row pgx.Row) (model.ReturnReceipt, error) {
	var rc model.ReturnReceipt
	err := row.Scan(&rc.ID, &rc.ClaimID, &rc.FoundItemID, &rc.StaffID, &rc.StudentID,
		&rc.ConfirmedFullName, &rc.DocumentNumber, &rc.PhoneNumber, &rc.ReturnedAt)
	return rc, err
}

// CreateFinalize issues the receipt and closes out the item and linked report
// in one transaction. The item update is conditional on the item still being
// in claimed state, so a second receipt for the same item cannot slip through.
func (r *ReceiptRepository) CreateFinalize(ctx context.Context, f model.ReturnFinalize) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin return transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rc := f.Receipt
	_, err = tx.Exec(ctx,
		`INSERT INTO return_receipts (`+receiptColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rc.ID, rc.ClaimID, rc.FoundItemID, rc.StaffID, rc.StudentID,
		rc.ConfirmedFullName, rc.DocumentNumber, rc.PhoneNumber, rc.ReturnedAt)
	if err != nil {
		return fmt.Errorf("create return receipt: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE found_items SET status = $2, updated_at = $3
		 WHERE id = $1 AND status = $4`,
		rc.FoundItemID, model.ItemReturned, rc.ReturnedAt, model.ItemClaimed)
	if err != nil {
		return fmt.Errorf("mark item returned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotClaimable
	}

	if f.ReportID != nil && f.ReportStatus != nil {
		_, err = tx.Exec(ctx,
			`UPDATE lost_reports SET status = $2, updated_at = $3
			 WHERE id = $1 AND status IN ('pending', 'verified', 'matched')`,
			*f.ReportID, *f.ReportStatus, rc.ReturnedAt)
		if err != nil {
			return fmt.Errorf("mark report returned: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *ReceiptRepository) FindByID(ctx context.Context, id string) (model.ReturnReceipt, error) {
	rc, err := scanReceipt(r.pool.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM return_receipts WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ReturnReceipt{}, model.ErrReceiptNotFound
	}
	if err != nil {
		return model.ReturnReceipt{}, fmt.Errorf("find return receipt: %w", err)
	}
	return rc, nil
}

func (r *ReceiptRepository) FindByClaimID(ctx context.Context, claimID string) (model.ReturnReceipt, error) {
	rc, err := scanReceipt(r.pool.QueryRow(ctx,
		`SELECT `+receiptColumns+` FROM return_receipts WHERE claim_id = $1`, claimID))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ReturnReceipt{}, model.ErrReceiptNotFound
	}
	if err != nil {
		return model.ReturnReceipt{}, fmt.Errorf("find return receipt by claim: %w", err)
	}
	return rc, nil
}
