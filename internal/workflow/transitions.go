// Package workflow holds the status transition tables for the claim and
// return lifecycle. Every mutation path that changes a status consults this
// package, so illegal transitions surface as a typed error instead of a
// silent overwrite.
package workflow

import (
	"fmt"

	"campus-lostfound/internal/model"
)

// TransitionError reports an attempt to move an entity between two states
// the lifecycle does not allow.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition: %s -> %s", e.Entity, e.From, e.To)
}

// Item statuses advance monotonically forward; there is no backward edge.
// Any claimable state may move straight to claimed, matching Claimable below
// and the conditional UPDATE guards in the repository layer.
var itemTransitions = map[model.FoundItemStatus][]model.FoundItemStatus{
	model.ItemPending:  {model.ItemStored, model.ItemClaimed, model.ItemDisposed},
	model.ItemStored:   {model.ItemClaimed, model.ItemDisposed},
	model.ItemClaimed:  {model.ItemReturned},
	model.ItemReturned: {},
	model.ItemDisposed: {},
}

// A claim is decided exactly once; approved, rejected and cancelled are all
// terminal.
var claimTransitions = map[model.ClaimStatus][]model.ClaimStatus{
	model.ClaimPending:   {model.ClaimApproved, model.ClaimRejected, model.ClaimCancelled},
	model.ClaimApproved:  {},
	model.ClaimRejected:  {},
	model.ClaimCancelled: {},
}

var reportTransitions = map[model.LostReportStatus][]model.LostReportStatus{
	model.ReportPending:  {model.ReportVerified, model.ReportRejected, model.ReportMatched},
	model.ReportVerified: {model.ReportMatched},
	model.ReportMatched:  {model.ReportReturned},
	model.ReportRejected: {},
	model.ReportReturned: {},
}

var verificationTransitions = map[model.VerificationStatus][]model.VerificationStatus{
	model.VerificationPending:   {model.VerificationCompleted},
	model.VerificationCompleted: {},
}

var intakeTransitions = map[model.IntakeStatus][]model.IntakeStatus{
	model.IntakeRecorded:    {model.IntakeTransferred},
	model.IntakeTransferred: {},
}

func CheckItem(from model.FoundItemStatus, to model.FoundItemStatus) error {
	return check("found item", string(from), string(to), itemTransitions[from], to)
}

func CheckClaim(from model.ClaimStatus, to model.ClaimStatus) error {
	return check("claim", string(from), string(to), claimTransitions[from], to)
}

func CheckReport(from model.LostReportStatus, to model.LostReportStatus) error {
	return check("lost report", string(from), string(to), reportTransitions[from], to)
}

func CheckVerification(from model.VerificationStatus, to model.VerificationStatus) error {
	return check("verification request", string(from), string(to), verificationTransitions[from], to)
}

func CheckIntake(from model.IntakeStatus, to model.IntakeStatus) error {
	return check("security intake", string(from), string(to), intakeTransitions[from], to)
}

// Claimable reports whether a new claim may be opened against an item in the
// given state. Returned and disposed items are out of circulation.
func Claimable(status model.FoundItemStatus) bool {
	return status == model.ItemPending || status == model.ItemStored
}

// Terminal reports whether a claim can no longer change.
func Terminal(status model.ClaimStatus) bool {
	return status != model.ClaimPending
}

func check[S ~string](entity string, from string, to string, allowed []S, target S) error {
	for _, next := range allowed {
		if next == target {
			return nil
		}
	}

	return &TransitionError{Entity: entity, From: from, To: to}
}
