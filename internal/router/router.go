package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/handler"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/model"
	"campus-lostfound/internal/websocket"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	intakeHandler *handler.IntakeHandler,
	itemHandler *handler.ItemHandler,
	reportHandler *handler.ReportHandler,
	claimHandler *handler.ClaimHandler,
	verificationHandler *handler.VerificationHandler,
	returnHandler *handler.ReturnHandler,
	auditHandler *handler.AuditHandler,
	imageHandler *handler.ImageHandler,
	hub *websocket.Hub,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// The event stream lives outside /api: upgraded connections are long
	// lived and cannot sit behind the request timeout wrapper.
	r.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).
		Get("/ws/events", hub.ServeWS)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Get("/images/{name}", imageHandler.Serve)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Post("/register", authHandler.Register)
			auth.Post("/refresh", authHandler.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.Route("/student", func(student chi.Router) {
			student.Use(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleStudent))

			student.Post("/lost-reports", reportHandler.Create)
			student.Get("/lost-reports", reportHandler.ListMine)
			student.Get("/lost-reports/{id}", reportHandler.Get)
			student.Get("/found-items", itemHandler.BrowseList)
			student.Get("/found-items/{id}", itemHandler.Get)
			student.Post("/claims", claimHandler.Create)
			student.Get("/claims", claimHandler.ListMine)
			student.Get("/claims/{id}", claimHandler.Get)
			student.Post("/claims/{id}/cancel", claimHandler.Cancel)
		})

		api.Route("/staff", func(staff chi.Router) {
			staff.Use(authMiddleware.RequireAuth)

			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/claims", claimHandler.List)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/claims/{id}", claimHandler.Get)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Post("/claims/{id}/approve", claimHandler.Approve)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Post("/claims/{id}/reject", claimHandler.Reject)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/found-items", itemHandler.List)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/found-items/{id}", itemHandler.Get)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Post("/found-items/receive-from-security", itemHandler.ReceiveFromSecurity)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Put("/found-items/{id}", itemHandler.Update)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Post("/found-items/{id}/image", itemHandler.UploadImage)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/lost-reports", reportHandler.List)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/lost-reports/{id}", reportHandler.Get)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Post("/lost-reports/{id}/verify", reportHandler.Verify)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Post("/lost-reports/{id}/reject", reportHandler.Reject)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Post("/return", returnHandler.Create)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/return/{id}", returnHandler.Get)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/return/by-claim/{claimID}", returnHandler.GetByClaim)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Post("/security-requests", verificationHandler.Open)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/security-requests", verificationHandler.List)
			staff.With(authMiddleware.RequireRoles(model.RoleStaff, model.RoleAdmin)).Get("/security-requests/{id}", verificationHandler.Get)
			staff.With(authMiddleware.RequireRoles(model.RoleAdmin)).Get("/audit", auditHandler.List)
		})

		api.Route("/security", func(security chi.Router) {
			security.Use(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleSecurity, model.RoleAdmin))

			security.Post("/intakes", intakeHandler.Record)
			security.Get("/intakes", intakeHandler.List)
			security.Get("/intakes/{id}", intakeHandler.Get)
			security.Get("/verification-requests", verificationHandler.List)
			security.Get("/verification-requests/{id}", verificationHandler.Get)
			security.Post("/verification-requests/{id}/decision", verificationHandler.Decide)
		})
	})

	return r
}
