//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/model"
)

func TestRoleBoundaries(t *testing.T) {
	srv := newTestServer(t)

	student := seedUser(t, srv, model.RoleStudent)
	staff := seedUser(t, srv, model.RoleStaff)
	security := seedUser(t, srv, model.RoleSecurity)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"student cannot list staff claims", http.MethodGet, "/api/staff/claims", student.AccessToken, http.StatusForbidden},
		{"student cannot reach audit log", http.MethodGet, "/api/staff/audit", student.AccessToken, http.StatusForbidden},
		{"staff cannot reach audit log", http.MethodGet, "/api/staff/audit", staff.AccessToken, http.StatusForbidden},
		{"staff cannot record intakes", http.MethodPost, "/api/security/intakes", staff.AccessToken, http.StatusForbidden},
		{"security cannot browse student claims", http.MethodGet, "/api/student/claims", security.AccessToken, http.StatusForbidden},
		{"security cannot issue returns", http.MethodPost, "/api/staff/return", security.AccessToken, http.StatusForbidden},
		{"anonymous gets unauthorized", http.MethodGet, "/api/staff/claims", "", http.StatusUnauthorized},
		{"anonymous cannot browse items", http.MethodGet, "/api/student/found-items", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := doRequest(t, newAuthRequest(t, tc.method, srv.URL+tc.path, nil, tc.token))
			require.Equal(t, tc.want, status)
			require.False(t, env.Success)
		})
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doRequest(t, newAuthRequest(t, http.MethodGet, srv.URL+"/api/auth/me", nil, "not.a.jwt"))
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestRefreshTokenCannotActAsAccessToken(t *testing.T) {
	srv := newTestServer(t)

	pair := login(t, srv, adminUsername, adminPassword)

	status, _ := doRequest(t, newAuthRequest(t, http.MethodGet, srv.URL+"/api/auth/me", nil, pair.RefreshToken))
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestImageNameTraversalRejected(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doRequest(t, newAuthRequest(t, http.MethodGet, srv.URL+"/api/images/..%2Fsecrets.txt", nil, ""))
	require.True(t, status == http.StatusBadRequest || status == http.StatusNotFound, "got %d", status)
}
