package event

type Type string

const (
	TypeIntakeRecorded       Type = "intake.recorded"
	TypeItemReceived         Type = "item.received"
	TypeItemUpdated          Type = "item.updated"
	TypeItemImageAttached    Type = "item.image_attached"
	TypeReportCreated        Type = "report.created"
	TypeReportReviewed       Type = "report.reviewed"
	TypeClaimCreated         Type = "claim.created"
	TypeClaimApproved        Type = "claim.approved"
	TypeClaimRejected        Type = "claim.rejected"
	TypeClaimCancelled       Type = "claim.cancelled"
	TypeVerificationOpened   Type = "verification.opened"
	TypeVerificationDecided  Type = "verification.decided"
	TypeReturnReceiptCreated Type = "return.receipt_created"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
