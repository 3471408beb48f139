package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campus-lostfound/internal/event"
	"campus-lostfound/internal/model"
	"campus-lostfound/pkg/apierror"
)

type receiptStore interface {
	CreateFinalize(ctx context.Context, f model.ReturnFinalize) error
	FindByID(ctx context.Context, id string) (model.ReturnReceipt, error)
	FindByClaimID(ctx context.Context, claimID string) (model.ReturnReceipt, error)
}

// ReturnService issues the terminal hand-back receipt. A receipt requires an
// approved claim on the item, and issuing one closes out the item and any
// linked lost report.
type ReturnService struct {
	receipts receiptStore
	claims   claimStore
	items    itemStore
	bus      event.Bus
}

func NewReturnService(receipts receiptStore, claims claimStore, items itemStore, bus event.Bus) *ReturnService {
	return &ReturnService{receipts: receipts, claims: claims, items: items, bus: bus}
}

func (s *ReturnService) Create(ctx context.Context, staffID string, req model.CreateReturnRequest) (model.ReturnReceipt, error) {
	claim, err := s.claims.FindByID(ctx, req.ClaimID)
	if err != nil {
		return model.ReturnReceipt{}, err
	}
	if claim.Status != model.ClaimApproved {
		return model.ReturnReceipt{}, apierror.Conflict("claim is not approved", claim.ID)
	}
	if claim.FoundItemID != req.FoundItemID {
		return model.ReturnReceipt{}, apierror.BadRequest("claim does not belong to this item", claim.ID)
	}

	item, err := s.items.FindByID(ctx, req.FoundItemID)
	if err != nil {
		return model.ReturnReceipt{}, err
	}
	if item.Status != model.ItemClaimed {
		return model.ReturnReceipt{}, apierror.Conflict("item is not awaiting hand-back", item.ID)
	}

	receipt := model.ReturnReceipt{
		ID:                uuid.NewString(),
		ClaimID:           claim.ID,
		FoundItemID:       item.ID,
		StaffID:           staffID,
		StudentID:         claim.StudentID,
		ConfirmedFullName: req.ConfirmedFullName,
		DocumentNumber:    req.DocumentNumber,
		PhoneNumber:       req.PhoneNumber,
		ReturnedAt:        time.Now().UTC(),
	}

	finalize := model.ReturnFinalize{Receipt: receipt}
	if claim.LostReportID != nil {
		returned := model.ReportReturned
		finalize.ReportID = claim.LostReportID
		finalize.ReportStatus = &returned
	}

	if err := s.receipts.CreateFinalize(ctx, finalize); err != nil {
		return model.ReturnReceipt{}, err
	}

	publish(s.bus, event.TypeReturnReceiptCreated, staffID, receipt)
	return receipt, nil
}

func (s *ReturnService) Get(ctx context.Context, id string) (model.ReturnReceipt, error) {
	return s.receipts.FindByID(ctx, id)
}

func (s *ReturnService) GetByClaim(ctx context.Context, claimID string) (model.ReturnReceipt, error) {
	return s.receipts.FindByClaimID(ctx, claimID)
}
