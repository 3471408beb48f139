package service

import (
	"context"
	"sync"
	"time"

	"campus-lostfound/internal/model"
)

// In-memory stores mirroring the conditional-update semantics of the
// Postgres repositories.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (f *fakeUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.FindByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	owners map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{owners: map[string]string{}}
}

func (f *fakeTokenStore) Store(_ context.Context, token string, userID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners[token] = userID
	return nil
}

func (f *fakeTokenStore) Validate(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.owners[token]
	if !ok {
		return "", model.ErrTokenNotFound
	}
	return owner, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.owners, token)
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, owner := range f.owners {
		if owner == userID {
			delete(f.owners, token)
		}
	}
	return nil
}

type fakeIntakeStore struct {
	mu      sync.Mutex
	intakes map[string]model.SecurityIntake
}

func newFakeIntakeStore() *fakeIntakeStore {
	return &fakeIntakeStore{intakes: map[string]model.SecurityIntake{}}
}

func (f *fakeIntakeStore) Create(_ context.Context, in model.SecurityIntake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intakes[in.ID] = in
	return nil
}

func (f *fakeIntakeStore) FindByID(_ context.Context, id string) (model.SecurityIntake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.intakes[id]
	if !ok {
		return model.SecurityIntake{}, model.ErrIntakeNotFound
	}
	return in, nil
}

func (f *fakeIntakeStore) List(_ context.Context, filter model.IntakeFilter) ([]model.SecurityIntake, model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.SecurityIntake, 0, len(f.intakes))
	for _, in := range f.intakes {
		if filter.Campus != "" && in.Campus != filter.Campus {
			continue
		}
		if filter.Status != "" && string(in.Status) != filter.Status {
			continue
		}
		out = append(out, in)
	}
	return out, model.Meta{Page: 1, Limit: 50, Total: len(out), TotalPages: 1}, nil
}

type fakeItemStore struct {
	mu      sync.Mutex
	items   map[string]model.FoundItem
	intakes *fakeIntakeStore
}

func newFakeItemStore(intakes *fakeIntakeStore) *fakeItemStore {
	return &fakeItemStore{items: map[string]model.FoundItem{}, intakes: intakes}
}

func (f *fakeItemStore) CreateFromIntake(_ context.Context, item model.FoundItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if item.IntakeID != nil && f.intakes != nil {
		f.intakes.mu.Lock()
		in, ok := f.intakes.intakes[*item.IntakeID]
		if !ok || in.Status != model.IntakeRecorded {
			f.intakes.mu.Unlock()
			return model.ErrIntakeNotFound
		}
		in.Status = model.IntakeTransferred
		f.intakes.intakes[in.ID] = in
		f.intakes.mu.Unlock()
	}

	f.items[item.ID] = item
	return nil
}

func (f *fakeItemStore) FindByID(_ context.Context, id string) (model.FoundItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return model.FoundItem{}, model.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeItemStore) List(_ context.Context, filter model.FoundItemFilter) ([]model.FoundItem, model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.FoundItem, 0, len(f.items))
	for _, item := range f.items {
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
	return out, model.Meta{Page: 1, Limit: 50, Total: len(out), TotalPages: 1}, nil
}

func (f *fakeItemStore) Update(_ context.Context, item model.FoundItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[item.ID]; !ok {
		return model.ErrItemNotFound
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemStore) SetImageURL(_ context.Context, id string, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return model.ErrItemNotFound
	}
	item.ImageURL = imageURL
	f.items[id] = item
	return nil
}

type fakeReportStore struct {
	mu      sync.Mutex
	reports map[string]model.LostReport
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: map[string]model.LostReport{}}
}

func (f *fakeReportStore) Create(_ context.Context, rep model.LostReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports[rep.ID] = rep
	return nil
}

func (f *fakeReportStore) FindByID(_ context.Context, id string) (model.LostReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rep, ok := f.reports[id]
	if !ok {
		return model.LostReport{}, model.ErrReportNotFound
	}
	return rep, nil
}

func (f *fakeReportStore) List(_ context.Context, filter model.LostReportFilter) ([]model.LostReport, model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.LostReport, 0, len(f.reports))
	for _, rep := range f.reports {
		if filter.StudentID != "" && rep.StudentID != filter.StudentID {
			continue
		}
		if filter.Campus != "" && rep.Campus != filter.Campus {
			continue
		}
		if filter.Status != "" && string(rep.Status) != filter.Status {
			continue
		}
		out = append(out, rep)
	}
	return out, model.Meta{Page: 1, Limit: 50, Total: len(out), TotalPages: 1}, nil
}

func (f *fakeReportStore) UpdateStatus(_ context.Context, id string, from model.LostReportStatus, to model.LostReportStatus, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rep, ok := f.reports[id]
	if !ok || rep.Status != from {
		return model.ErrReportNotFound
	}
	rep.Status = to
	rep.UpdatedAt = at
	f.reports[id] = rep
	return nil
}

type fakeClaimStore struct {
	mu      sync.Mutex
	claims  map[string]model.Claim
	items   *fakeItemStore
	reports *fakeReportStore
}

func newFakeClaimStore(items *fakeItemStore, reports *fakeReportStore) *fakeClaimStore {
	return &fakeClaimStore{claims: map[string]model.Claim{}, items: items, reports: reports}
}

func (f *fakeClaimStore) Create(_ context.Context, c model.Claim) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.claims {
		if existing.FoundItemID == c.FoundItemID &&
			(existing.Status == model.ClaimPending || existing.Status == model.ClaimApproved) {
			return model.ErrActiveClaimExists
		}
	}
	f.claims[c.ID] = c
	return nil
}

func (f *fakeClaimStore) FindByID(_ context.Context, id string) (model.Claim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.claims[id]
	if !ok {
		return model.Claim{}, model.ErrClaimNotFound
	}
	return c, nil
}

func (f *fakeClaimStore) List(_ context.Context, filter model.ClaimFilter) ([]model.Claim, model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Claim, 0, len(f.claims))
	for _, c := range f.claims {
		if filter.StudentID != "" && c.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, model.Meta{Page: 1, Limit: 50, Total: len(out), TotalPages: 1}, nil
}

func (f *fakeClaimStore) HasActiveForItem(_ context.Context, itemID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.claims {
		if c.FoundItemID == itemID &&
			(c.Status == model.ClaimPending || c.Status == model.ClaimApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClaimStore) Decide(_ context.Context, d model.ClaimDecision) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.claims[d.ClaimID]
	if !ok || c.Status != model.ClaimPending {
		return model.ErrClaimAlreadyDecided
	}

	if d.ItemStatus != nil && f.items != nil {
		f.items.mu.Lock()
		item, itemOK := f.items.items[d.ItemID]
		if !itemOK || (item.Status != model.ItemPending && item.Status != model.ItemStored) {
			f.items.mu.Unlock()
			return model.ErrItemNotClaimable
		}
		item.Status = *d.ItemStatus
		item.UpdatedAt = d.DecidedAt
		f.items.items[item.ID] = item
		f.items.mu.Unlock()
	}

	if d.ReportID != nil && d.ReportStatus != nil && f.reports != nil {
		f.reports.mu.Lock()
		if rep, repOK := f.reports.reports[*d.ReportID]; repOK {
			if rep.Status == model.ReportPending || rep.Status == model.ReportVerified {
				rep.Status = *d.ReportStatus
				rep.UpdatedAt = d.DecidedAt
				f.reports.reports[rep.ID] = rep
			}
		}
		f.reports.mu.Unlock()
	}

	staffID := d.StaffID
	c.Status = d.Status
	c.DecisionNote = d.Note
	c.DecidedByStaffID = &staffID
	decidedAt := d.DecidedAt
	c.DecidedAt = &decidedAt
	c.UpdatedAt = d.DecidedAt
	f.claims[c.ID] = c
	return nil
}

func (f *fakeClaimStore) Cancel(_ context.Context, claimID string, studentID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.claims[claimID]
	if !ok || c.StudentID != studentID || c.Status != model.ClaimPending {
		return model.ErrClaimAlreadyDecided
	}
	c.Status = model.ClaimCancelled
	c.UpdatedAt = at
	f.claims[claimID] = c
	return nil
}

type fakeReceiptStore struct {
	mu       sync.Mutex
	receipts map[string]model.ReturnReceipt
	items    *fakeItemStore
	reports  *fakeReportStore
}

func newFakeReceiptStore(items *fakeItemStore, reports *fakeReportStore) *fakeReceiptStore {
	return &fakeReceiptStore{receipts: map[string]model.ReturnReceipt{}, items: items, reports: reports}
}

func (f *fakeReceiptStore) CreateFinalize(_ context.Context, fin model.ReturnFinalize) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rc := fin.Receipt
	if f.items != nil {
		f.items.mu.Lock()
		item, ok := f.items.items[rc.FoundItemID]
		if !ok || item.Status != model.ItemClaimed {
			f.items.mu.Unlock()
			return model.ErrItemNotClaimable
		}
		item.Status = model.ItemReturned
		item.UpdatedAt = rc.ReturnedAt
		f.items.items[item.ID] = item
		f.items.mu.Unlock()
	}

	if fin.ReportID != nil && fin.ReportStatus != nil && f.reports != nil {
		f.reports.mu.Lock()
		if rep, ok := f.reports.reports[*fin.ReportID]; ok {
			rep.Status = *fin.ReportStatus
			rep.UpdatedAt = rc.ReturnedAt
			f.reports.reports[rep.ID] = rep
		}
		f.reports.mu.Unlock()
	}

	f.receipts[rc.ID] = rc
	return nil
}

func (f *fakeReceiptStore) FindByID(_ context.Context, id string) (model.ReturnReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rc, ok := f.receipts[id]
	if !ok {
		return model.ReturnReceipt{}, model.ErrReceiptNotFound
	}
	return rc, nil
}

func (f *fakeReceiptStore) FindByClaimID(_ context.Context, claimID string) (model.ReturnReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rc := range f.receipts {
		if rc.ClaimID == claimID {
			return rc, nil
		}
	}
	return model.ReturnReceipt{}, model.ErrReceiptNotFound
}

type fakeVerificationStore struct {
	mu       sync.Mutex
	requests map[string]model.VerificationRequest
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{requests: map[string]model.VerificationRequest{}}
}

func (f *fakeVerificationStore) CreateRequest(_ context.Context, v model.VerificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[v.ID] = v
	return nil
}

func (f *fakeVerificationStore) FindRequestByID(_ context.Context, id string) (model.VerificationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.requests[id]
	if !ok {
		return model.VerificationRequest{}, model.ErrVerificationNotFound
	}
	return v, nil
}

func (f *fakeVerificationStore) ListRequests(_ context.Context, filter model.VerificationFilter) ([]model.VerificationRequest, model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.VerificationRequest, 0, len(f.requests))
	for _, v := range f.requests {
		if filter.Status != "" && string(v.Status) != filter.Status {
			continue
		}
		out = append(out, v)
	}
	return out, model.Meta{Page: 1, Limit: 50, Total: len(out), TotalPages: 1}, nil
}

func (f *fakeVerificationStore) CompleteWithDecision(_ context.Context, requestID string, d model.VerificationDecision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.requests[requestID]
	if !ok || v.Status != model.VerificationPending {
		return model.ErrVerificationCompleted
	}
	v.Status = model.VerificationCompleted
	v.Decision = &d
	f.requests[requestID] = v
	return nil
}

type fakeImageSink struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func newFakeImageSink() *fakeImageSink {
	return &fakeImageSink{saved: map[string][]byte{}}
}

func (f *fakeImageSink) Save(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[name] = data
	return nil
}
