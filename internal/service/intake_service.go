package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campus-lostfound/internal/event"
	"campus-lostfound/internal/model"
)

type intakeStore interface {
	Create(ctx context.Context, in model.SecurityIntake) error
	FindByID(ctx context.Context, id string) (model.SecurityIntake, error)
	List(ctx context.Context, filter model.IntakeFilter) ([]model.SecurityIntake, model.Meta, error)
}

// IntakeService is the security-side entry point of the pipeline: guards log
// what they picked up, staff later converts the record into a tracked item.
type IntakeService struct {
	intakes intakeStore
	bus     event.Bus
}

func NewIntakeService(intakes intakeStore, bus event.Bus) *IntakeService {
	return &IntakeService{intakes: intakes, bus: bus}
}

func (s *IntakeService) Record(ctx context.Context, securityID string, req model.RecordIntakeRequest) (model.SecurityIntake, error) {
	intake := model.SecurityIntake{
		ID:            uuid.NewString(),
		Campus:        req.Campus,
		Category:      req.Category,
		Description:   req.Description,
		FoundTime:     req.FoundTime,
		FoundLocation: req.FoundLocation,
		Status:        model.IntakeRecorded,
		RecordedBy:    securityID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.intakes.Create(ctx, intake); err != nil {
		return model.SecurityIntake{}, err
	}

	publish(s.bus, event.TypeIntakeRecorded, securityID, intake)
	return intake, nil
}

func (s *IntakeService) Get(ctx context.Context, id string) (model.SecurityIntake, error) {
	return s.intakes.FindByID(ctx, id)
}

func (s *IntakeService) List(ctx context.Context, filter model.IntakeFilter) ([]model.SecurityIntake, model.Meta, error) {
	return s.intakes.List(ctx, filter)
}
