package model

import "time"

type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationCompleted VerificationStatus = "completed"
)

const (
	VerificationApprove = "approve"
	VerificationReject  = "reject"
)

// VerificationRequest is an advisory security-side identity check opened by
// staff for a claim. Its outcome never transitions the claim by itself.
type VerificationRequest struct {
	ID                 string                `json:"id"`
	ClaimID            string                `json:"claim_id"`
	RequestedByStaffID string                `json:"requested_by_staff_id"`
	Status             VerificationStatus    `json:"status"`
	Decision           *VerificationDecision `json:"decision,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

type VerificationDecision struct {
	ID                    string    `json:"id"`
	VerificationRequestID string    `json:"verification_request_id"`
	SecurityID            string    `json:"security_id"`
	Decision              string    `json:"decision"`
	Comment               string    `json:"comment,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

type CreateVerificationRequest struct {
	ClaimID string `json:"claim_id" validate:"required,uuid4"`
}

type VerificationDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Comment  string `json:"comment"`
}

type VerificationFilter struct {
	Status string
	Page   int
	Limit  int
}
