//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/event"
	"campus-lostfound/internal/handler"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/model"
	"campus-lostfound/internal/router"
	"campus-lostfound/internal/service"
	"campus-lostfound/internal/storage"
	"campus-lostfound/internal/websocket"
)

const (
	adminUsername = "admin"
	adminPassword = "admin123"
	testPassword  = "s3cret-pass"
)

// envelope mirrors model.APIResponse with raw data so each test can decode
// into its own type.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *model.APIError `json:"error,omitempty"`
	Meta    *model.Meta     `json:"meta,omitempty"`
}

// newTestServer boots the full HTTP stack on in-memory stores: real router,
// middleware, handlers and services, with images written to a temp dir.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "0",
		RequestTimeout:   10 * time.Second,
		JWTSecret:        "integration-test-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    24 * time.Hour,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     100000,
		AuthRateLimitRPM: 100000,
		MaxUploadSize:    10 * 1024 * 1024,
		ImageRoot:        t.TempDir(),
	}

	imageStore, err := storage.NewImageStore(cfg.ImageRoot)
	require.NoError(t, err)

	users := newMemUsers()
	tokens := newMemTokens()
	intakes := newMemIntakes()
	items := newMemItems(intakes)
	reports := newMemReports()
	claims := newMemClaims(items, reports)
	receipts := newMemReceipts(items, reports)
	verifications := newMemVerifications()
	auditEntries := newMemAudit()

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	hubCtx, stopHub := context.WithCancel(context.Background())
	t.Cleanup(stopHub)
	go hub.Run(hubCtx)

	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, users, tokens)
	require.NoError(t, authService.EnsureDefaultAdmin(t.Context()))

	auditService := service.NewAuditService(auditEntries)
	intakeService := service.NewIntakeService(intakes, bus)
	itemService := service.NewItemService(items, intakes, imageStore, bus)
	reportService := service.NewReportService(reports, bus)
	claimService := service.NewClaimService(claims, items, reports, bus)
	verificationService := service.NewVerificationService(verifications, claims, bus)
	returnService := service.NewReturnService(receipts, claims, items, bus)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	srv := httptest.NewServer(router.New(
		cfg,
		authMiddleware,
		handler.NewAuthHandler(authService, auditService),
		handler.NewIntakeHandler(intakeService, auditService),
		handler.NewItemHandler(itemService, auditService, cfg.MaxUploadSize),
		handler.NewReportHandler(reportService, auditService),
		handler.NewClaimHandler(claimService, auditService),
		handler.NewVerificationHandler(verificationService, auditService),
		handler.NewReturnHandler(returnService, auditService),
		handler.NewAuditHandler(auditService),
		handler.NewImageHandler(imageStore),
		hub,
	))
	t.Cleanup(srv.Close)

	return srv
}

func newAuthRequest(t *testing.T, method string, url string, body any, accessToken string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return req
}

// doRequest executes the request and decodes the response envelope. Callers
// that need the payload decode env.Data themselves.
func doRequest(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}

	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NotNil(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func login(t *testing.T, srv *httptest.Server, username string, password string) model.TokenPair {
	t.Helper()

	req := newAuthRequest(t, http.MethodPost, srv.URL+"/api/auth/login", model.LoginRequest{
		Username: username,
		Password: password,
	}, "")

	status, env := doRequest(t, req)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)

	var pair model.TokenPair
	decodeData(t, env, &pair)
	return pair
}

// seedUser registers a user of the given role through the admin account and
// logs them in.
func seedUser(t *testing.T, srv *httptest.Server, role string) model.TokenPair {
	t.Helper()

	admin := login(t, srv, adminUsername, adminPassword)
	username := fmt.Sprintf("%s-%d", role, time.Now().UnixNano())

	req := newAuthRequest(t, http.MethodPost, srv.URL+"/api/auth/register", model.RegisterRequest{
		Username: username,
		Password: testPassword,
		FullName: "Test " + role,
		Role:     role,
		Campus:   "north",
	}, admin.AccessToken)

	status, env := doRequest(t, req)
	require.Equal(t, http.StatusCreated, status, "register %s: %+v", role, env.Error)

	return login(t, srv, username, testPassword)
}

// recordIntake files a security intake and returns it.
func recordIntake(t *testing.T, srv *httptest.Server, securityToken string) model.SecurityIntake {
	t.Helper()

	req := newAuthRequest(t, http.MethodPost, srv.URL+"/api/security/intakes", model.RecordIntakeRequest{
		Campus:        "north",
		Category:      "electronics",
		Description:   "black wireless earbuds",
		FoundTime:     time.Now().Add(-2 * time.Hour).UTC(),
		FoundLocation: "library 2F",
	}, securityToken)

	status, env := doRequest(t, req)
	require.Equal(t, http.StatusCreated, status, "record intake: %+v", env.Error)

	var intake model.SecurityIntake
	decodeData(t, env, &intake)
	return intake
}

// receiveItem converts an intake into a tracked found item as staff.
func receiveItem(t *testing.T, srv *httptest.Server, staffToken string, intakeID string) model.FoundItem {
	t.Helper()

	req := newAuthRequest(t, http.MethodPost, srv.URL+"/api/staff/found-items/receive-from-security", model.ReceiveFromSecurityRequest{
		SecurityReceivedItemID: intakeID,
		StorageLocation:        "front desk locker 3",
	}, staffToken)

	status, env := doRequest(t, req)
	require.Equal(t, http.StatusCreated, status, "receive item: %+v", env.Error)

	var item model.FoundItem
	decodeData(t, env, &item)
	return item
}

// seedStoredItem runs the security->staff pipeline and returns a stored item.
func seedStoredItem(t *testing.T, srv *httptest.Server, securityToken string, staffToken string) model.FoundItem {
	t.Helper()
	intake := recordIntake(t, srv, securityToken)
	return receiveItem(t, srv, staffToken, intake.ID)
}

func createClaim(t *testing.T, srv *httptest.Server, studentToken string, req model.CreateClaimRequest) model.Claim {
	t.Helper()

	httpReq := newAuthRequest(t, http.MethodPost, srv.URL+"/api/student/claims", req, studentToken)
	status, env := doRequest(t, httpReq)
	require.Equal(t, http.StatusCreated, status, "create claim: %+v", env.Error)

	var claim model.Claim
	decodeData(t, env, &claim)
	return claim
}

func createReport(t *testing.T, srv *httptest.Server, studentToken string) model.LostReport {
	t.Helper()

	req := newAuthRequest(t, http.MethodPost, srv.URL+"/api/student/lost-reports", model.CreateLostReportRequest{
		Campus:       "north",
		Category:     "electronics",
		Title:        "lost my earbuds",
		Description:  "black wireless earbuds in a grey case",
		LostTime:     time.Now().Add(-3 * time.Hour).UTC(),
		LostLocation: "library 2F",
	}, studentToken)

	status, env := doRequest(t, req)
	require.Equal(t, http.StatusCreated, status, "create report: %+v", env.Error)

	var report model.LostReport
	decodeData(t, env, &report)
	return report
}
