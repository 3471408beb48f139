package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campus-lostfound/internal/event"
	"campus-lostfound/internal/model"
	"campus-lostfound/internal/workflow"
)

type claimStore interface {
	Create(ctx context.Context, c model.Claim) error
	FindByID(ctx context.Context, id string) (model.Claim, error)
	List(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, model.Meta, error)
	HasActiveForItem(ctx context.Context, itemID string) (bool, error)
	Decide(ctx context.Context, d model.ClaimDecision) error
	Cancel(ctx context.Context, claimID string, studentID string, at time.Time) error
}

// ClaimService handles ownership claims on found items: students open them,
// staff approves or rejects them. An item carries at most one active claim.
type ClaimService struct {
	claims  claimStore
	items   itemStore
	reports reportStore
	bus     event.Bus
}

func NewClaimService(claims claimStore, items itemStore, reports reportStore, bus event.Bus) *ClaimService {
	return &ClaimService{claims: claims, items: items, reports: reports, bus: bus}
}

func (s *ClaimService) Create(ctx context.Context, studentID string, req model.CreateClaimRequest) (model.Claim, error) {
	item, err := s.items.FindByID(ctx, req.FoundItemID)
	if err != nil {
		return model.Claim{}, err
	}
	if !workflow.Claimable(item.Status) {
		return model.Claim{}, model.ErrItemNotClaimable
	}

	active, err := s.claims.HasActiveForItem(ctx, item.ID)
	if err != nil {
		return model.Claim{}, err
	}
	if active {
		return model.Claim{}, model.ErrActiveClaimExists
	}

	var reportID *string
	if req.LostReportID != "" {
		report, err := s.reports.FindByID(ctx, req.LostReportID)
		if err != nil {
			return model.Claim{}, err
		}
		if report.StudentID != studentID {
			return model.Claim{}, model.ErrForbidden
		}
		reportID = &report.ID
	}

	now := time.Now().UTC()
	claim := model.Claim{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		FoundItemID:  item.ID,
		LostReportID: reportID,
		Description:  req.Description,
		EvidenceURL:  req.EvidenceURL,
		Status:       model.ClaimPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.claims.Create(ctx, claim); err != nil {
		return model.Claim{}, err
	}

	publish(s.bus, event.TypeClaimCreated, studentID, claim)
	return claim, nil
}

func (s *ClaimService) Get(ctx context.Context, id string) (model.Claim, error) {
	return s.claims.FindByID(ctx, id)
}

// GetForStudent returns the claim only when it belongs to the caller.
func (s *ClaimService) GetForStudent(ctx context.Context, studentID string, id string) (model.Claim, error) {
	claim, err := s.claims.FindByID(ctx, id)
	if err != nil {
		return model.Claim{}, err
	}
	if claim.StudentID != studentID {
		return model.Claim{}, model.ErrForbidden
	}
	return claim, nil
}

func (s *ClaimService) List(ctx context.Context, filter model.ClaimFilter) ([]model.Claim, model.Meta, error) {
	return s.claims.List(ctx, filter)
}

func (s *ClaimService) ListForStudent(ctx context.Context, studentID string, filter model.ClaimFilter) ([]model.Claim, model.Meta, error) {
	filter.StudentID = studentID
	return s.claims.List(ctx, filter)
}

func (s *ClaimService) Approve(ctx context.Context, staffID string, claimID string, note string) error {
	return s.decide(ctx, staffID, claimID, model.ClaimApproved, note)
}

func (s *ClaimService) Reject(ctx context.Context, staffID string, claimID string, note string) error {
	return s.decide(ctx, staffID, claimID, model.ClaimRejected, note)
}

func (s *ClaimService) decide(ctx context.Context, staffID string, claimID string, target model.ClaimStatus, note string) error {
	claim, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		return err
	}

	if err := workflow.CheckClaim(claim.Status, target); err != nil {
		return err
	}

	decision := model.ClaimDecision{
		ClaimID:   claim.ID,
		Status:    target,
		StaffID:   staffID,
		Note:      note,
		DecidedAt: time.Now().UTC(),
		ItemID:    claim.FoundItemID,
	}

	if target == model.ClaimApproved {
		item, err := s.items.FindByID(ctx, claim.FoundItemID)
		if err != nil {
			return err
		}
		if !workflow.Claimable(item.Status) {
			return model.ErrItemNotClaimable
		}

		claimed := model.ItemClaimed
		decision.ItemStatus = &claimed

		if claim.LostReportID != nil {
			matched := model.ReportMatched
			decision.ReportID = claim.LostReportID
			decision.ReportStatus = &matched
		}
	}

	if err := s.claims.Decide(ctx, decision); err != nil {
		return err
	}

	typ := event.TypeClaimApproved
	if target == model.ClaimRejected {
		typ = event.TypeClaimRejected
	}
	publish(s.bus, typ, staffID, decision)
	return nil
}

// Cancel withdraws a pending claim. Only the student who opened the claim
// may cancel it.
func (s *ClaimService) Cancel(ctx context.Context, studentID string, claimID string) error {
	claim, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		return err
	}
	if claim.StudentID != studentID {
		return model.ErrForbidden
	}

	if err := workflow.CheckClaim(claim.Status, model.ClaimCancelled); err != nil {
		return err
	}

	if err := s.claims.Cancel(ctx, claim.ID, studentID, time.Now().UTC()); err != nil {
		return err
	}

	publish(s.bus, event.TypeClaimCancelled, studentID, map[string]string{"claim_id": claim.ID})
	return nil
}
