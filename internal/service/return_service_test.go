package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/model"
	"campus-lostfound/pkg/apierror"
)

func TestReturnServiceCreate(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*ReturnService, *ClaimService, *fakeItemStore, *fakeReportStore, model.Claim) {
		t.Helper()
		items := newFakeItemStore(nil)
		reports := newFakeReportStore()
		claims := newFakeClaimStore(items, reports)
		receipts := newFakeReceiptStore(items, reports)

		claimSvc := NewClaimService(claims, items, reports, nil)
		returnSvc := NewReturnService(receipts, claims, items, nil)

		item := seedStoredItem(items)
		claim, err := claimSvc.Create(context.Background(), "student-1", model.CreateClaimRequest{
			FoundItemID: item.ID,
			Description: "engraved with my name",
		})
		require.NoError(t, err)
		return returnSvc, claimSvc, items, reports, claim
	}

	t.Run("issues a receipt for an approved claim and closes the item", func(t *testing.T) {
		returnSvc, claimSvc, items, _, claim := setup(t)

		require.NoError(t, claimSvc.Approve(context.Background(), "staff-1", claim.ID, ""))

		receipt, err := returnSvc.Create(context.Background(), "staff-1", model.CreateReturnRequest{
			FoundItemID:       claim.FoundItemID,
			ClaimID:           claim.ID,
			ConfirmedFullName: "Ana Torres",
			DocumentNumber:    "CC-1001",
			PhoneNumber:       "555-0101",
		})
		require.NoError(t, err)
		require.Equal(t, claim.ID, receipt.ClaimID)
		require.Equal(t, "student-1", receipt.StudentID)
		require.Equal(t, "staff-1", receipt.StaffID)

		item, err := items.FindByID(context.Background(), claim.FoundItemID)
		require.NoError(t, err)
		require.Equal(t, model.ItemReturned, item.Status)

		found, err := returnSvc.GetByClaim(context.Background(), claim.ID)
		require.NoError(t, err)
		require.Equal(t, receipt.ID, found.ID)
	})

	t.Run("refuses a receipt while the claim is still pending", func(t *testing.T) {
		returnSvc, _, _, _, claim := setup(t)

		_, err := returnSvc.Create(context.Background(), "staff-1", model.CreateReturnRequest{
			FoundItemID:       claim.FoundItemID,
			ClaimID:           claim.ID,
			ConfirmedFullName: "Ana Torres",
			DocumentNumber:    "CC-1001",
			PhoneNumber:       "555-0101",
		})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 409, apiErr.HTTPStatus)
	})

	t.Run("refuses a receipt for a mismatched item", func(t *testing.T) {
		returnSvc, claimSvc, items, _, claim := setup(t)

		require.NoError(t, claimSvc.Approve(context.Background(), "staff-1", claim.ID, ""))
		other := seedStoredItem(items)

		_, err := returnSvc.Create(context.Background(), "staff-1", model.CreateReturnRequest{
			FoundItemID:       other.ID,
			ClaimID:           claim.ID,
			ConfirmedFullName: "Ana Torres",
			DocumentNumber:    "CC-1001",
			PhoneNumber:       "555-0101",
		})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, 400, apiErr.HTTPStatus)
	})

	t.Run("second receipt for the same claim fails", func(t *testing.T) {
		returnSvc, claimSvc, _, _, claim := setup(t)

		require.NoError(t, claimSvc.Approve(context.Background(), "staff-1", claim.ID, ""))

		req := model.CreateReturnRequest{
			FoundItemID:       claim.FoundItemID,
			ClaimID:           claim.ID,
			ConfirmedFullName: "Ana Torres",
			DocumentNumber:    "CC-1001",
			PhoneNumber:       "555-0101",
		}
		_, err := returnSvc.Create(context.Background(), "staff-1", req)
		require.NoError(t, err)

		_, err = returnSvc.Create(context.Background(), "staff-1", req)
		require.Error(t, err)
	})

	t.Run("linked report moves to returned", func(t *testing.T) {
		items := newFakeItemStore(nil)
		reports := newFakeReportStore()
		claims := newFakeClaimStore(items, reports)
		receipts := newFakeReceiptStore(items, reports)

		claimSvc := NewClaimService(claims, items, reports, nil)
		returnSvc := NewReturnService(receipts, claims, items, nil)
		reportSvc := NewReportService(reports, nil)

		item := seedStoredItem(items)
		report, err := reportSvc.Create(context.Background(), "student-1", model.CreateLostReportRequest{
			Campus:       "north",
			Category:     "electronics",
			Title:        "lost my headphones",
			LostTime:     item.FoundTime,
			LostLocation: "library",
		})
		require.NoError(t, err)

		claim, err := claimSvc.Create(context.Background(), "student-1", model.CreateClaimRequest{
			FoundItemID:  item.ID,
			LostReportID: report.ID,
			Description:  "match",
		})
		require.NoError(t, err)
		require.NoError(t, claimSvc.Approve(context.Background(), "staff-1", claim.ID, ""))

		_, err = returnSvc.Create(context.Background(), "staff-1", model.CreateReturnRequest{
			FoundItemID:       item.ID,
			ClaimID:           claim.ID,
			ConfirmedFullName: "Ana Torres",
			DocumentNumber:    "CC-1001",
			PhoneNumber:       "555-0101",
		})
		require.NoError(t, err)

		rep, err := reports.FindByID(context.Background(), report.ID)
		require.NoError(t, err)
		require.Equal(t, model.ReportReturned, rep.Status)
	})
}
