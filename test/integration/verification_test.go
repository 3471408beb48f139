//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/model"
)

func TestSecurityVerificationFlow(t *testing.T) {
	srv := newTestServer(t)

	security := seedUser(t, srv, model.RoleSecurity)
	staff := seedUser(t, srv, model.RoleStaff)
	student := seedUser(t, srv, model.RoleStudent)

	item := seedStoredItem(t, srv, security.AccessToken, staff.AccessToken)
	claim := createClaim(t, srv, student.AccessToken, model.CreateClaimRequest{
		FoundItemID: item.ID,
		Description: "has a sticker of a cat on the lid",
	})

	status, env := doRequest(t, newAuthRequest(t, http.MethodPost,
		srv.URL+"/api/staff/security-requests",
		model.CreateVerificationRequest{ClaimID: claim.ID}, staff.AccessToken))
	require.Equal(t, http.StatusOK, status, "open request: %+v", env.Error)

	var request model.VerificationRequest
	decodeData(t, env, &request)
	require.Equal(t, claim.ID, request.ClaimID)
	require.Equal(t, model.VerificationPending, request.Status)
	require.Equal(t, staff.User.ID, request.RequestedByStaffID)

	t.Run("security sees the pending request", func(t *testing.T) {
		status, env := doRequest(t, newAuthRequest(t, http.MethodGet,
			srv.URL+"/api/security/verification-requests", nil, security.AccessToken))
		require.Equal(t, http.StatusOK, status)

		var requests []model.VerificationRequest
		decodeData(t, env, &requests)
		require.Len(t, requests, 1)
		require.Equal(t, request.ID, requests[0].ID)
	})

	t.Run("security records a decision", func(t *testing.T) {
		status, env := doRequest(t, newAuthRequest(t, http.MethodPost,
			srv.URL+"/api/security/verification-requests/"+request.ID+"/decision",
			model.VerificationDecisionRequest{
				Decision: model.VerificationApprove,
				Comment:  "student described the sticker without prompting",
			}, security.AccessToken))
		require.Equal(t, http.StatusOK, status, "decide: %+v", env.Error)

		var decided model.VerificationRequest
		decodeData(t, env, &decided)
		require.Equal(t, model.VerificationCompleted, decided.Status)
		require.NotNil(t, decided.Decision)
		require.Equal(t, model.VerificationApprove, decided.Decision.Decision)
		require.Equal(t, security.User.ID, decided.Decision.SecurityID)
	})

	t.Run("the outcome is advisory and does not move the claim", func(t *testing.T) {
		status, env := doRequest(t, newAuthRequest(t, http.MethodGet,
			srv.URL+"/api/staff/claims/"+claim.ID, nil, staff.AccessToken))
		require.Equal(t, http.StatusOK, status)

		var got model.Claim
		decodeData(t, env, &got)
		require.Equal(t, model.ClaimPending, got.Status)
	})

	t.Run("a completed request cannot be decided again", func(t *testing.T) {
		status, _ := doRequest(t, newAuthRequest(t, http.MethodPost,
			srv.URL+"/api/security/verification-requests/"+request.ID+"/decision",
			model.VerificationDecisionRequest{Decision: model.VerificationReject}, security.AccessToken))
		require.Equal(t, http.StatusConflict, status)
	})
}

func TestVerificationRequiresOpenClaim(t *testing.T) {
	srv := newTestServer(t)

	security := seedUser(t, srv, model.RoleSecurity)
	staff := seedUser(t, srv, model.RoleStaff)
	student := seedUser(t, srv, model.RoleStudent)

	item := seedStoredItem(t, srv, security.AccessToken, staff.AccessToken)
	claim := createClaim(t, srv, student.AccessToken, model.CreateClaimRequest{
		FoundItemID: item.ID,
		Description: "short lived claim",
	})

	status, _ := doRequest(t, newAuthRequest(t, http.MethodPost,
		srv.URL+"/api/staff/claims/"+claim.ID+"/reject", nil, staff.AccessToken))
	require.Equal(t, http.StatusNoContent, status)

	status, _ = doRequest(t, newAuthRequest(t, http.MethodPost,
		srv.URL+"/api/staff/security-requests",
		model.CreateVerificationRequest{ClaimID: claim.ID}, staff.AccessToken))
	require.Equal(t, http.StatusConflict, status)
}
