//go:build integration

package integration

import (
	"context"
	"sync"
	"time"

	"campus-lostfound/internal/model"
)

// In-memory stores with the same conditional-update semantics as the
// Postgres repositories, so the full HTTP stack runs without a database.

type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]model.User{}}
}

func (m *memUsers) FindByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *memUsers) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

type memTokens struct {
	mu     sync.Mutex
	owners map[string]string
}

func newMemTokens() *memTokens {
	return &memTokens{owners: map[string]string{}}
}

func (m *memTokens) Store(_ context.Context, token string, userID string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[token] = userID
	return nil
}

func (m *memTokens) Validate(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[token]
	if !ok {
		return "", model.ErrTokenNotFound
	}
	return owner, nil
}

func (m *memTokens) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.owners, token)
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, owner := range m.owners {
		if owner == userID {
			delete(m.owners, token)
		}
	}
	return nil
}

type memIntakes struct {
	mu      sync.Mutex
	intakes map[string]model.SecurityIntake
}

func newMemIntakes() *memIntakes {
	return &memIntakes{intakes: map[string]model.SecurityIntake{}}
}

func (m *memIntakes) Create(_ context.Context, in model.SecurityIntake) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intakes[in.ID] = in
	return nil
}

func (m *memIntakes) FindByID(_ context.Context, id string) (model.SecurityIntake, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.intakes[id]
	if !ok {
		return model.SecurityIntake{}, model.ErrIntakeNotFound
	}
	return in, nil
}

func (m *memIntakes) List(_ context.Context, filter model.IntakeFilter) ([]model.SecurityIntake, model.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SecurityIntake, 0, len(m.intakes))
	for _, in := range m.intakes {
		if filter.Campus != "" && in.Campus != filter.Campus {
			continue
		}
		if filter.Status != "" && string(in.Status) != filter.Status {
			continue
		}
		out = append(out, in)
	}
	return out, meta(len(out)), nil
}

type memItems struct {
	mu      sync.Mutex
	items   map[string]model.FoundItem
	intakes *memIntakes
}

func newMemItems(intakes *memIntakes) *memItems {
	return &memItems{items: map[string]model.FoundItem{}, intakes: intakes}
}

func (m *memItems) CreateFromIntake(_ context.Context, item model.FoundItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.IntakeID != nil {
		m.intakes.mu.Lock()
		in, ok := m.intakes.intakes[*item.IntakeID]
		if !ok || in.Status != model.IntakeRecorded {
			m.intakes.mu.Unlock()
			return model.ErrIntakeNotFound
		}
		in.Status = model.IntakeTransferred
		m.intakes.intakes[in.ID] = in
		m.intakes.mu.Unlock()
	}

	m.items[item.ID] = item
	return nil
}

func (m *memItems) FindByID(_ context.Context, id string) (model.FoundItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return model.FoundItem{}, model.ErrItemNotFound
	}
	return item, nil
}

func (m *memItems) List(_ context.Context, filter model.FoundItemFilter) ([]model.FoundItem, model.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.FoundItem, 0, len(m.items))
	for _, item := range m.items {
		if filter.Campus != "" && item.Campus != filter.Campus {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Status != "" && string(item.Status) != filter.Status {
			continue
		}
		out = append(out, item)
	}
	return out, meta(len(out)), nil
}

func (m *memItems) Update(_ context.Context, item model.FoundItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return model.ErrItemNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *memItems) SetImageURL(_ context.Context, id string, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return model.ErrItemNotFound
	}
	item.ImageURL = imageURL
	m.items[id] = item
	return nil
}

type memReports struct {
	mu      sync.Mutex
	reports map[string]model.LostReport
}

func newMemReports() *memReports {
	return &memReports{reports: map[string]model.LostReport{}}
}

func (m *memReports) Create(_ context.Context, rep model.LostReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[rep.ID] = rep
	return nil
}

func (m *memReports) FindByID(_ context.Context, id string) (model.LostReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.reports[id]
	if !ok {
		return model.LostReport{}, model.ErrReportNotFound
	}
	return rep, nil
}

func (m *memReports) List(_ context.Context, filter model.LostReportFilter) ([]model.LostReport, model.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LostReport, 0, len(m.reports))
	for _, rep := range m.reports {
		if filter.StudentID != "" && rep.StudentID != filter.StudentID {
			continue
		}
		if filter.Campus != "" && rep.Campus != filter.Campus {
			continue
		}
		if filter.Category != "" && rep.Category != filter.Category {
			continue
		}
		if filter.Status != "" && string(rep.Status) != filter.Status {
			continue
		}
		out = append(out, rep)
	}
	return out, meta(len(out)), nil
}

func (m *memReports) UpdateStatus(_ context.Context, id string, from model.LostReportStatus, to model.LostReportStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rep, ok := m.reports[id]
	if !ok || rep.Status != from {
		return model.ErrReportNotFound
	}
	rep.Status = to
	rep.UpdatedAt = at
	m.reports[id] = rep
	return nil
}

type memClaims struct {
	mu      sync.Mutex
	claims  map[string]model.Claim
	items   *memItems
	reports *memReports
}

func newMemClaims(items *memItems, reports *memReports) *memClaims {
	return &memClaims{claims: map[string]model.Claim{}, items: items, reports: reports}
}

func (m *memClaims) Create(_ context.Context, c model.Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.claims {
		if existing.FoundItemID == c.FoundItemID &&
			(existing.Status == model.ClaimPending || existing.Status == model.ClaimApproved) {
			return model.ErrActiveClaimExists
		}
	}
	m.claims[c.ID] = c
	return nil
}

func (m *memClaims) FindByID(_ context.Context, id string) (model.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.claims[id]
	if !ok {
		return model.Claim{}, model.ErrClaimNotFound
	}
	return c, nil
}

func (m *memClaims) List(_ context.Context, filter model.ClaimFilter) ([]model.Claim, model.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Claim, 0, len(m.claims))
	for _, c := range m.claims {
		if filter.StudentID != "" && c.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, meta(len(out)), nil
}

func (m *memClaims) HasActiveForItem(_ context.Context, itemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.claims {
		if c.FoundItemID == itemID &&
			(c.Status == model.ClaimPending || c.Status == model.ClaimApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memClaims) Decide(_ context.Context, d model.ClaimDecision) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[d.ClaimID]
	if !ok || c.Status != model.ClaimPending {
		return model.ErrClaimAlreadyDecided
	}

	if d.ItemStatus != nil {
		m.items.mu.Lock()
		item, itemOK := m.items.items[d.ItemID]
		if !itemOK || (item.Status != model.ItemPending && item.Status != model.ItemStored) {
			m.items.mu.Unlock()
			return model.ErrItemNotClaimable
		}
		item.Status = *d.ItemStatus
		item.UpdatedAt = d.DecidedAt
		m.items.items[item.ID] = item
		m.items.mu.Unlock()
	}

	if d.ReportID != nil && d.ReportStatus != nil {
		m.reports.mu.Lock()
		if rep, repOK := m.reports.reports[*d.ReportID]; repOK {
			if rep.Status == model.ReportPending || rep.Status == model.ReportVerified {
				rep.Status = *d.ReportStatus
				rep.UpdatedAt = d.DecidedAt
				m.reports.reports[rep.ID] = rep
			}
		}
		m.reports.mu.Unlock()
	}

	staffID := d.StaffID
	decidedAt := d.DecidedAt
	c.Status = d.Status
	c.DecisionNote = d.Note
	c.DecidedByStaffID = &staffID
	c.DecidedAt = &decidedAt
	c.UpdatedAt = d.DecidedAt
	m.claims[c.ID] = c
	return nil
}

func (m *memClaims) Cancel(_ context.Context, claimID string, studentID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.claims[claimID]
	if !ok || c.StudentID != studentID || c.Status != model.ClaimPending {
		return model.ErrClaimAlreadyDecided
	}
	c.Status = model.ClaimCancelled
	c.UpdatedAt = at
	m.claims[claimID] = c
	return nil
}

type memReceipts struct {
	mu       sync.Mutex
	receipts map[string]model.ReturnReceipt
	items    *memItems
	reports  *memReports
}

func newMemReceipts(items *memItems, reports *memReports) *memReceipts {
	return &memReceipts{receipts: map[string]model.ReturnReceipt{}, items: items, reports: reports}
}

func (m *memReceipts) CreateFinalize(_ context.Context, fin model.ReturnFinalize) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rc := fin.Receipt

	m.items.mu.Lock()
	item, ok := m.items.items[rc.FoundItemID]
	if !ok || item.Status != model.ItemClaimed {
		m.items.mu.Unlock()
		return model.ErrItemNotClaimable
	}
	item.Status = model.ItemReturned
	item.UpdatedAt = rc.ReturnedAt
	m.items.items[item.ID] = item
	m.items.mu.Unlock()

	if fin.ReportID != nil && fin.ReportStatus != nil {
		m.reports.mu.Lock()
		if rep, repOK := m.reports.reports[*fin.ReportID]; repOK {
			rep.Status = *fin.ReportStatus
			rep.UpdatedAt = rc.ReturnedAt
			m.reports.reports[rep.ID] = rep
		}
		m.reports.mu.Unlock()
	}

	m.receipts[rc.ID] = rc
	return nil
}

func (m *memReceipts) FindByID(_ context.Context, id string) (model.ReturnReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rc, ok := m.receipts[id]
	if !ok {
		return model.ReturnReceipt{}, model.ErrReceiptNotFound
	}
	return rc, nil
}

func (m *memReceipts) FindByClaimID(_ context.Context, claimID string) (model.ReturnReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rc := range m.receipts {
		if rc.ClaimID == claimID {
			return rc, nil
		}
	}
	return model.ReturnReceipt{}, model.ErrReceiptNotFound
}

type memVerifications struct {
	mu       sync.Mutex
	requests map[string]model.VerificationRequest
}

func newMemVerifications() *memVerifications {
	return &memVerifications{requests: map[string]model.VerificationRequest{}}
}

func (m *memVerifications) CreateRequest(_ context.Context, v model.VerificationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[v.ID] = v
	return nil
}

func (m *memVerifications) FindRequestByID(_ context.Context, id string) (model.VerificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.requests[id]
	if !ok {
		return model.VerificationRequest{}, model.ErrVerificationNotFound
	}
	return v, nil
}

func (m *memVerifications) ListRequests(_ context.Context, filter model.VerificationFilter) ([]model.VerificationRequest, model.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.VerificationRequest, 0, len(m.requests))
	for _, v := range m.requests {
		if filter.Status != "" && string(v.Status) != filter.Status {
			continue
		}
		out = append(out, v)
	}
	return out, meta(len(out)), nil
}

func (m *memVerifications) CompleteWithDecision(_ context.Context, requestID string, d model.VerificationDecision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.requests[requestID]
	if !ok || v.Status != model.VerificationPending {
		return model.ErrVerificationCompleted
	}
	v.Status = model.VerificationCompleted
	v.Decision = &d
	m.requests[requestID] = v
	return nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

func newMemAudit() *memAudit {
	return &memAudit{}
}

func (m *memAudit) Log(_ context.Context, entry model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAudit) Query(_ context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AuditEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if query.Action != "" && e.Action != query.Action {
			continue
		}
		if query.ActorID != "" && e.Actor.UserID != query.ActorID {
			continue
		}
		if query.Status != "" && e.Status != query.Status {
			continue
		}
		out = append(out, e)
	}
	return out, meta(len(out)), nil
}

func meta(total int) model.Meta {
	pages := 0
	if total > 0 {
		pages = 1
	}
	return model.Meta{Page: 1, Limit: 50, Total: total, TotalPages: pages}
}
