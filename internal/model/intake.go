package model

import "time"

type IntakeStatus string

const (
	IntakeRecorded    IntakeStatus = "recorded"
	IntakeTransferred IntakeStatus = "transferred"
)

// SecurityIntake is an item recorded by campus security before staff
// takes it over as a tracked FoundItem.
type SecurityIntake struct {
	ID            string       `json:"id"`
	Campus        string       `json:"campus"`
	Category      string       `json:"category"`
	Description   string       `json:"description"`
	FoundTime     time.Time    `json:"found_time"`
	FoundLocation string       `json:"found_location"`
	Status        IntakeStatus `json:"status"`
	RecordedBy    string       `json:"recorded_by"`
	CreatedAt     time.Time    `json:"created_at"`
}

type RecordIntakeRequest struct {
	Campus        string    `json:"campus" validate:"required"`
	Category      string    `json:"category" validate:"required"`
	Description   string    `json:"description" validate:"required"`
	FoundTime     time.Time `json:"found_time" validate:"required"`
	FoundLocation string    `json:"found_location" validate:"required"`
}

type IntakeFilter struct {
	Campus string
	Status string
	Page   int
	Limit  int
}
