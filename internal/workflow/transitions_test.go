package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/model"
)

func TestItemTransitions(t *testing.T) {
	t.Parallel()

	t.Run("forward path is allowed", func(t *testing.T) {
		require.NoError(t, CheckItem(model.ItemPending, model.ItemStored))
		require.NoError(t, CheckItem(model.ItemStored, model.ItemClaimed))
		require.NoError(t, CheckItem(model.ItemClaimed, model.ItemReturned))
		require.NoError(t, CheckItem(model.ItemStored, model.ItemDisposed))
	})

	t.Run("every claimable state can move to claimed", func(t *testing.T) {
		require.NoError(t, CheckItem(model.ItemPending, model.ItemClaimed))
		require.NoError(t, CheckItem(model.ItemStored, model.ItemClaimed))
	})

	t.Run("no backward edges", func(t *testing.T) {
		require.Error(t, CheckItem(model.ItemStored, model.ItemPending))
		require.Error(t, CheckItem(model.ItemReturned, model.ItemClaimed))
		require.Error(t, CheckItem(model.ItemDisposed, model.ItemStored))
	})

	t.Run("returned and disposed are terminal", func(t *testing.T) {
		require.Error(t, CheckItem(model.ItemReturned, model.ItemDisposed))
		require.Error(t, CheckItem(model.ItemDisposed, model.ItemReturned))
	})
}

func TestClaimTransitions(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckClaim(model.ClaimPending, model.ClaimApproved))
	require.NoError(t, CheckClaim(model.ClaimPending, model.ClaimRejected))
	require.NoError(t, CheckClaim(model.ClaimPending, model.ClaimCancelled))

	// A decided claim never changes again.
	require.Error(t, CheckClaim(model.ClaimApproved, model.ClaimApproved))
	require.Error(t, CheckClaim(model.ClaimApproved, model.ClaimRejected))
	require.Error(t, CheckClaim(model.ClaimRejected, model.ClaimApproved))
	require.Error(t, CheckClaim(model.ClaimCancelled, model.ClaimPending))
}

func TestClaimTransitionErrorMessage(t *testing.T) {
	t.Parallel()

	err := CheckClaim(model.ClaimApproved, model.ClaimRejected)
	require.Error(t, err)
	require.Equal(t, "illegal claim transition: approved -> rejected", err.Error())
}

func TestReportTransitions(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckReport(model.ReportPending, model.ReportVerified))
	require.NoError(t, CheckReport(model.ReportPending, model.ReportMatched))
	require.NoError(t, CheckReport(model.ReportVerified, model.ReportMatched))
	require.NoError(t, CheckReport(model.ReportMatched, model.ReportReturned))

	require.Error(t, CheckReport(model.ReportRejected, model.ReportVerified))
	require.Error(t, CheckReport(model.ReportReturned, model.ReportMatched))
}

func TestVerificationAndIntakeTransitions(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckVerification(model.VerificationPending, model.VerificationCompleted))
	require.Error(t, CheckVerification(model.VerificationCompleted, model.VerificationPending))

	require.NoError(t, CheckIntake(model.IntakeRecorded, model.IntakeTransferred))
	require.Error(t, CheckIntake(model.IntakeTransferred, model.IntakeRecorded))
}

func TestClaimable(t *testing.T) {
	t.Parallel()

	require.True(t, Claimable(model.ItemPending))
	require.True(t, Claimable(model.ItemStored))
	require.False(t, Claimable(model.ItemClaimed))
	require.False(t, Claimable(model.ItemReturned))
	require.False(t, Claimable(model.ItemDisposed))
}
