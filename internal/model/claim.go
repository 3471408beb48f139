package model

import "time"

type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimApproved  ClaimStatus = "approved"
	ClaimRejected  ClaimStatus = "rejected"
	ClaimCancelled ClaimStatus = "cancelled"
)

type Claim struct {
	ID               string      `json:"id"`
	StudentID        string      `json:"student_id"`
	FoundItemID      string      `json:"found_item_id"`
	LostReportID     *string     `json:"lost_report_id,omitempty"`
	Description      string      `json:"description"`
	EvidenceURL      string      `json:"evidence_url,omitempty"`
	Status           ClaimStatus `json:"status"`
	DecisionNote     string      `json:"decision_note,omitempty"`
	DecidedByStaffID *string     `json:"decided_by_staff_id,omitempty"`
	DecidedAt        *time.Time  `json:"decided_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type CreateClaimRequest struct {
	FoundItemID  string `json:"found_item_id" validate:"required,uuid4"`
	LostReportID string `json:"lost_report_id" validate:"omitempty,uuid4"`
	Description  string `json:"description" validate:"required"`
	EvidenceURL  string `json:"evidence_url" validate:"omitempty,url"`
}

type ClaimDecisionRequest struct {
	Note string `json:"note"`
}

type ClaimFilter struct {
	Campus    string
	Status    string
	StudentID string
	Page      int
	Limit     int
}

// ClaimDecision describes the writes applied atomically when staff decides
// a claim: the claim row itself, the item row on approval, and the linked
// lost report when one exists.
type ClaimDecision struct {
	ClaimID      string
	Status       ClaimStatus
	StaffID      string
	Note         string
	DecidedAt    time.Time
	ItemID       string
	ItemStatus   *FoundItemStatus
	ReportID     *string
	ReportStatus *LostReportStatus
}
