//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/model"
)

func TestClaimApprovalFlow(t *testing.T) {
	srv := newTestServer(t)

	security := seedUser(t, srv, model.RoleSecurity)
	staff := seedUser(t, srv, model.RoleStaff)
	student := seedUser(t, srv, model.RoleStudent)

	item := seedStoredItem(t, srv, security.AccessToken, staff.AccessToken)
	report := createReport(t, srv, student.AccessToken)

	claim := createClaim(t, srv, student.AccessToken, model.CreateClaimRequest{
		FoundItemID:  item.ID,
		LostReportID: report.ID,
		Description:  "they are mine, serial number ends in 42",
	})
	require.Equal(t, model.ClaimPending, claim.Status)

	t.Run("claiming an unknown item is not found", func(t *testing.T) {
		req := newAuthRequest(t, http.MethodPost, srv.URL+"/api/student/claims", model.CreateClaimRequest{
			FoundItemID: "0b6a5a52-9b55-4f06-a1d8-3c86de7a9a10",
			Description: "nothing to claim",
		}, student.AccessToken)

		status, env := doRequest(t, req)
		require.Equal(t, http.StatusNotFound, status)
		require.False(t, env.Success)
	})

	t.Run("second active claim on the same item conflicts", func(t *testing.T) {
		other := seedUser(t, srv, model.RoleStudent)
		req := newAuthRequest(t, http.MethodPost, srv.URL+"/api/student/claims", model.CreateClaimRequest{
			FoundItemID: item.ID,
			Description: "no, mine",
		}, other.AccessToken)

		status, env := doRequest(t, req)
		require.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.Error)
	})

	t.Run("approval closes the decision and links the records", func(t *testing.T) {
		status, _ := doRequest(t, newAuthRequest(t, http.MethodPost,
			srv.URL+"/api/staff/claims/"+claim.ID+"/approve",
			model.ClaimDecisionRequest{Note: "serial number matched"}, staff.AccessToken))
		require.Equal(t, http.StatusNoContent, status)

		status, env := doRequest(t, newAuthRequest(t, http.MethodGet, srv.URL+"/api/staff/claims/"+claim.ID, nil, staff.AccessToken))
		require.Equal(t, http.StatusOK, status)

		var decided model.Claim
		decodeData(t, env, &decided)
		require.Equal(t, model.ClaimApproved, decided.Status)
		require.Equal(t, "serial number matched", decided.DecisionNote)
		require.NotNil(t, decided.DecidedAt)

		status, env = doRequest(t, newAuthRequest(t, http.MethodGet, srv.URL+"/api/staff/found-items/"+item.ID, nil, staff.AccessToken))
		require.Equal(t, http.StatusOK, status)

		var got model.FoundItem
		decodeData(t, env, &got)
		require.Equal(t, model.ItemClaimed, got.Status)

		status, env = doRequest(t, newAuthRequest(t, http.MethodGet, srv.URL+"/api/staff/lost-reports/"+report.ID, nil, staff.AccessToken))
		require.Equal(t, http.StatusOK, status)

		var rep model.LostReport
		decodeData(t, env, &rep)
		require.Equal(t, model.ReportMatched, rep.Status)
	})

	t.Run("a decided claim cannot be decided again", func(t *testing.T) {
		status, env := doRequest(t, newAuthRequest(t, http.MethodPost,
			srv.URL+"/api/staff/claims/"+claim.ID+"/reject", nil, staff.AccessToken))
		require.Equal(t, http.StatusConflict, status)
		require.NotNil(t, env.Error)

		status, _ = doRequest(t, newAuthRequest(t, http.MethodPost,
			srv.URL+"/api/staff/claims/"+claim.ID+"/approve", nil, staff.AccessToken))
		require.Equal(t, http.StatusConflict, status)
	})
}

func TestClaimRejectionLeavesItemAvailable(t *testing.T) {
	srv := newTestServer(t)

	security := seedUser(t, srv, model.RoleSecurity)
	staff := seedUser(t, srv, model.RoleStaff)
	student := seedUser(t, srv, model.RoleStudent)

	item := seedStoredItem(t, srv, security.AccessToken, staff.AccessToken)
	claim := createClaim(t, srv, student.AccessToken, model.CreateClaimRequest{
		FoundItemID: item.ID,
		Description: "looks like mine",
	})

	status, _ := doRequest(t, newAuthRequest(t, http.MethodPost,
		srv.URL+"/api/staff/claims/"+claim.ID+"/reject",
		model.ClaimDecisionRequest{Note: "could not describe the case"}, staff.AccessToken))
	require.Equal(t, http.StatusNoContent, status)

	status, env := doRequest(t, newAuthRequest(t, http.MethodGet, srv.URL+"/api/staff/found-items/"+item.ID, nil, staff.AccessToken))
	require.Equal(t, http.StatusOK, status)

	var got model.FoundItem
	decodeData(t, env, &got)
	require.Equal(t, model.ItemStored, got.Status)

	// The item is claimable again once the first claim is rejected.
	second := createClaim(t, srv, student.AccessToken, model.CreateClaimRequest{
		FoundItemID: item.ID,
		Description: "second attempt with the receipt this time",
	})
	require.Equal(t, model.ClaimPending, second.Status)
}

func TestClaimCancellation(t *testing.T) {
	srv := newTestServer(t)

	security := seedUser(t, srv, model.RoleSecurity)
	staff := seedUser(t, srv, model.RoleStaff)
	student := seedUser(t, srv, model.RoleStudent)

	item := seedStoredItem(t, srv, security.AccessToken, staff.AccessToken)
	claim := createClaim(t, srv, student.AccessToken, model.CreateClaimRequest{
		FoundItemID: item.ID,
		Description: "might be mine",
	})

	t.Run("another student cannot cancel it", func(t *testing.T) {
		other := seedUser(t, srv, model.RoleStudent)
		status, _ := doRequest(t, newAuthRequest(t, http.MethodPost,
			srv.URL+"/api/student/claims/"+claim.ID+"/cancel", nil, other.AccessToken))
		require.Equal(t, http.StatusForbidden, status)
	})

	t.Run("owner cancels a pending claim", func(t *testing.T) {
		status, _ := doRequest(t, newAuthRequest(t, http.MethodPost,
			srv.URL+"/api/student/claims/"+claim.ID+"/cancel", nil, student.AccessToken))
		require.Equal(t, http.StatusNoContent, status)

		status, env := doRequest(t, newAuthRequest(t, http.MethodGet,
			srv.URL+"/api/student/claims/"+claim.ID, nil, student.AccessToken))
		require.Equal(t, http.StatusOK, status)

		var got model.Claim
		decodeData(t, env, &got)
		require.Equal(t, model.ClaimCancelled, got.Status)
	})

	t.Run("a cancelled claim cannot be approved", func(t *testing.T) {
		status, _ := doRequest(t, newAuthRequest(t, http.MethodPost,
			srv.URL+"/api/staff/claims/"+claim.ID+"/approve", nil, staff.AccessToken))
		require.Equal(t, http.StatusConflict, status)
	})
}

func TestClaimAgainstForeignReportForbidden(t *testing.T) {
	srv := newTestServer(t)

	security := seedUser(t, srv, model.RoleSecurity)
	staff := seedUser(t, srv, model.RoleStaff)
	owner := seedUser(t, srv, model.RoleStudent)
	intruder := seedUser(t, srv, model.RoleStudent)

	item := seedStoredItem(t, srv, security.AccessToken, staff.AccessToken)
	report := createReport(t, srv, owner.AccessToken)

	status, _ := doRequest(t, newAuthRequest(t, http.MethodPost, srv.URL+"/api/student/claims", model.CreateClaimRequest{
		FoundItemID:  item.ID,
		LostReportID: report.ID,
		Description:  "claiming against someone else's report",
	}, intruder.AccessToken))
	require.Equal(t, http.StatusForbidden, status)
}
