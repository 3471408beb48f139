package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campus-lostfound/internal/event"
	"campus-lostfound/internal/model"
)

type verificationStore interface {
	CreateRequest(ctx context.Context, v model.VerificationRequest) error
	FindRequestByID(ctx context.Context, id string) (model.VerificationRequest, error)
	ListRequests(ctx context.Context, filter model.VerificationFilter) ([]model.VerificationRequest, model.Meta, error)
	CompleteWithDecision(ctx context.Context, requestID string, d model.VerificationDecision) error
}

// VerificationService lets staff ask security to double-check a claimant's
// identity. The outcome is advisory input to the claim decision, it never
// moves the claim on its own.
type VerificationService struct {
	verifications verificationStore
	claims        claimStore
	bus           event.Bus
}

func NewVerificationService(verifications verificationStore, claims claimStore, bus event.Bus) *VerificationService {
	return &VerificationService{verifications: verifications, claims: claims, bus: bus}
}

func (s *VerificationService) Open(ctx context.Context, staffID string, req model.CreateVerificationRequest) (model.VerificationRequest, error) {
	claim, err := s.claims.FindByID(ctx, req.ClaimID)
	if err != nil {
		return model.VerificationRequest{}, err
	}
	// Identity checks make sense while the claim is open and still make
	// sense after approval, before the hand-back.
	if claim.Status != model.ClaimPending && claim.Status != model.ClaimApproved {
		return model.VerificationRequest{}, model.ErrClaimAlreadyDecided
	}

	request := model.VerificationRequest{
		ID:                 uuid.NewString(),
		ClaimID:            claim.ID,
		RequestedByStaffID: staffID,
		Status:             model.VerificationPending,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.verifications.CreateRequest(ctx, request); err != nil {
		return model.VerificationRequest{}, err
	}

	publish(s.bus, event.TypeVerificationOpened, staffID, request)
	return request, nil
}

func (s *VerificationService) Get(ctx context.Context, id string) (model.VerificationRequest, error) {
	return s.verifications.FindRequestByID(ctx, id)
}

func (s *VerificationService) List(ctx context.Context, filter model.VerificationFilter) ([]model.VerificationRequest, model.Meta, error) {
	return s.verifications.ListRequests(ctx, filter)
}

func (s *VerificationService) Decide(ctx context.Context, securityID string, requestID string, req model.VerificationDecisionRequest) (model.VerificationRequest, error) {
	request, err := s.verifications.FindRequestByID(ctx, requestID)
	if err != nil {
		return model.VerificationRequest{}, err
	}
	if request.Status != model.VerificationPending {
		return model.VerificationRequest{}, model.ErrVerificationCompleted
	}

	decision := model.VerificationDecision{
		ID:                    uuid.NewString(),
		VerificationRequestID: request.ID,
		SecurityID:            securityID,
		Decision:              req.Decision,
		Comment:               req.Comment,
		CreatedAt:             time.Now().UTC(),
	}

	if err := s.verifications.CompleteWithDecision(ctx, request.ID, decision); err != nil {
		return model.VerificationRequest{}, err
	}

	request.Status = model.VerificationCompleted
	request.Decision = &decision

	publish(s.bus, event.TypeVerificationDecided, securityID, request)
	return request, nil
}
