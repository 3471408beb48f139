package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"campus-lostfound/internal/event"
	"campus-lostfound/internal/imaging"
	"campus-lostfound/internal/model"
	"campus-lostfound/internal/workflow"
	"campus-lostfound/pkg/apierror"
)

type itemStore interface {
	CreateFromIntake(ctx context.Context, item model.FoundItem) error
	FindByID(ctx context.Context, id string) (model.FoundItem, error)
	List(ctx context.Context, filter model.FoundItemFilter) ([]model.FoundItem, model.Meta, error)
	Update(ctx context.Context, item model.FoundItem) error
	SetImageURL(ctx context.Context, id string, imageURL string) error
}

type imageSink interface {
	Save(name string, data []byte) error
}

type ItemService struct {
	items   itemStore
	intakes intakeStore
	images  imageSink
	bus     event.Bus
}

func NewItemService(items itemStore, intakes intakeStore, images imageSink, bus event.Bus) *ItemService {
	return &ItemService{items: items, intakes: intakes, images: images, bus: bus}
}

// ReceiveFromSecurity converts a security intake into a tracked item. The
// intake flips to transferred and the item is created in the same
// transaction, so an intake can only ever produce one item.
func (s *ItemService) ReceiveFromSecurity(ctx context.Context, staffID string, req model.ReceiveFromSecurityRequest) (model.FoundItem, error) {
	intake, err := s.intakes.FindByID(ctx, req.SecurityReceivedItemID)
	if err != nil {
		return model.FoundItem{}, err
	}
	if intake.Status != model.IntakeRecorded {
		return model.FoundItem{}, apierror.Conflict("intake has already been transferred", intake.ID)
	}

	now := time.Now().UTC()
	intakeID := intake.ID
	item := model.FoundItem{
		ID:              uuid.NewString(),
		Campus:          intake.Campus,
		Category:        intake.Category,
		Description:     intake.Description,
		FoundTime:       intake.FoundTime,
		FoundLocation:   intake.FoundLocation,
		StorageLocation: req.StorageLocation,
		Status:          model.ItemStored,
		IntakeID:        &intakeID,
		CreatedBy:       staffID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.items.CreateFromIntake(ctx, item); err != nil {
		return model.FoundItem{}, err
	}

	publish(s.bus, event.TypeItemReceived, staffID, item)
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (model.FoundItem, error) {
	return s.items.FindByID(ctx, id)
}

func (s *ItemService) List(ctx context.Context, filter model.FoundItemFilter) ([]model.FoundItem, model.Meta, error) {
	return s.items.List(ctx, filter)
}

func (s *ItemService) Update(ctx context.Context, staffID string, itemID string, req model.UpdateFoundItemRequest) (model.FoundItem, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return model.FoundItem{}, err
	}

	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.StorageLocation != nil {
		item.StorageLocation = *req.StorageLocation
	}
	if req.Status != nil {
		target := model.FoundItemStatus(*req.Status)
		if err := workflow.CheckItem(item.Status, target); err != nil {
			return model.FoundItem{}, err
		}
		item.Status = target
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.items.Update(ctx, item); err != nil {
		return model.FoundItem{}, err
	}

	publish(s.bus, event.TypeItemUpdated, staffID, item)
	return item, nil
}

// AttachImage processes an uploaded photo and stores it under a fresh name.
// An empty or undecodable upload fails before any state is touched.
func (s *ItemService) AttachImage(ctx context.Context, staffID string, itemID string, upload io.Reader) (string, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return "", err
	}

	data, err := imaging.Process(upload)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s.jpg", uuid.NewString())
	if err := s.images.Save(name, data); err != nil {
		return "", err
	}

	imageURL := "/api/images/" + name
	if err := s.items.SetImageURL(ctx, item.ID, imageURL); err != nil {
		return "", err
	}

	publish(s.bus, event.TypeItemImageAttached, staffID, map[string]string{
		"item_id":   item.ID,
		"image_url": imageURL,
	})
	return imageURL, nil
}
