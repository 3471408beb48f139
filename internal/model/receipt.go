package model

import "time"

// ReturnReceipt is the terminal record of a hand-back. Creating one is the
// only operation that completes a claim's lifecycle and it is not reversible.
type ReturnReceipt struct {
	ID                string    `json:"id"`
	ClaimID           string    `json:"claim_id"`
	FoundItemID       string    `json:"found_item_id"`
	StaffID           string    `json:"staff_id"`
	StudentID         string    `json:"student_id"`
	ConfirmedFullName string    `json:"confirmed_full_name"`
	DocumentNumber    string    `json:"document_number"`
	PhoneNumber       string    `json:"phone_number"`
	ReturnedAt        time.Time `json:"returned_at"`
}

type CreateReturnRequest struct {
	FoundItemID       string `json:"found_item_id" validate:"required,uuid4"`
	ClaimID           string `json:"claim_id" validate:"required,uuid4"`
	ConfirmedFullName string `json:"confirmed_full_name" validate:"required"`
	DocumentNumber    string `json:"document_number" validate:"required"`
	PhoneNumber       string `json:"phone_number" validate:"required"`
}

// ReturnFinalize describes the writes applied atomically when a receipt is
// issued: the receipt insert, the item moving to returned, and the linked
// lost report (if any) moving to returned.
type ReturnFinalize struct {
	Receipt      ReturnReceipt
	ReportID     *string
	ReportStatus *LostReportStatus
}
