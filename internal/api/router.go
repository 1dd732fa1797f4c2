/**
 * @description
 * HTTP router setup for the dashboard service using go-chi/chi.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the dashboard routes.
func NewRouter(h *Handler, sessions SessionProvider, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Bank dashboard service is healthy"))
	})

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(sessions))

		// Long-lived stream, kept out of the request timeout.
		r.Get("/transfer/events", h.handleTransferEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/me", h.handleMe)
			r.Get("/dashboard", h.handleDashboard)
			r.Get("/transactions", h.handleListTransactions)
			r.Get("/transactions/export", h.handleExportTransactions)

			r.Get("/transfer", h.handleGetTransfer)
			r.Post("/transfer", h.handleSubmitTransfer)
			r.Delete("/transfer", h.handleAbandonTransfer)
			r.Post("/transfer/verify", h.handleVerifyTransfer)
			r.Post("/transfer/new", h.handleNewTransfer)

			r.Get("/notifications", h.handleDrainNotifications)

			r.Get("/settings/profile", h.handleGetProfile)
			r.Put("/settings/profile", h.handleUpdateProfile)

			r.Get("/security", h.handleGetSecurity)
			r.Put("/security/{setting}", h.handleSetSecuritySetting)

			r.Post("/session/signout", h.handleSignOut)
		})
	})

	return r
}
