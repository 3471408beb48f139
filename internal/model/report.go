package model

import "time"

type LostReportStatus string

const (
	ReportPending  LostReportStatus = "pending"
	ReportVerified LostReportStatus = "verified"
	ReportRejected LostReportStatus = "rejected"
	ReportMatched  LostReportStatus = "matched"
	ReportReturned LostReportStatus = "returned"
)

type LostReport struct {
	ID           string           `json:"id"`
	StudentID    string           `json:"student_id"`
	Campus       string           `json:"campus"`
	Category     string           `json:"category"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	LostTime     time.Time        `json:"lost_time"`
	LostLocation string           `json:"lost_location"`
	Status       LostReportStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type CreateLostReportRequest struct {
	Campus       string    `json:"campus" validate:"required"`
	Category     string    `json:"category" validate:"required"`
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description"`
	LostTime     time.Time `json:"lost_time" validate:"required"`
	LostLocation string    `json:"lost_location" validate:"required"`
}

type LostReportFilter struct {
	Campus    string
	Category  string
	Status    string
	StudentID string
	Page      int
	Limit     int
}
