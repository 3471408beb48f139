package model

import "time"

type FoundItemStatus string

const (
	ItemPending  FoundItemStatus = "pending"
	ItemStored   FoundItemStatus = "stored"
	ItemClaimed  FoundItemStatus = "claimed"
	ItemReturned FoundItemStatus = "returned"
	ItemDisposed FoundItemStatus = "disposed"
)

type FoundItem struct {
	ID              string          `json:"id"`
	Campus          string          `json:"campus"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	FoundTime       time.Time       `json:"found_time"`
	FoundLocation   string          `json:"found_location"`
	StorageLocation string          `json:"storage_location"`
	Status          FoundItemStatus `json:"status"`
	ImageURL        string          `json:"image_url,omitempty"`
	IntakeID        *string         `json:"intake_id,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ReceiveFromSecurityRequest struct {
	SecurityReceivedItemID string `json:"security_received_item_id" validate:"required,uuid4"`
	StorageLocation        string `json:"storage_location" validate:"required"`
}

// UpdateFoundItemRequest is a partial patch; nil fields are left untouched.
type UpdateFoundItemRequest struct {
	Category        *string `json:"category,omitempty"`
	Description     *string `json:"description,omitempty"`
	StorageLocation *string `json:"storage_location,omitempty"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=pending stored claimed returned disposed"`
}

type FoundItemFilter struct {
	Campus   string
	Category string
	Status   string
	Page     int
	Limit    int
}
