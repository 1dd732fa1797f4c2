/**
 * @description
 * HTTP handlers for the dashboard service. The browser client renders everything;
 * these handlers expose the transfer flow, the demo account data and the settings
 * pages as JSON.
 */
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sufyan123ayaz/Bank-Clone/internal/app"
	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// NotificationInbox hands out undelivered notifications.
type NotificationInbox interface {
	Drain(userID string) []domain.Notification
}

// Handler holds the application services that handlers interact with.
type Handler struct {
	flows     *app.FlowRegistry
	dashboard *app.DashboardService
	accounts  *app.AccountService
	inbox     NotificationInbox
	logger    *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(flows *app.FlowRegistry, dashboard *app.DashboardService, accounts *app.AccountService, inbox NotificationInbox, logger *slog.Logger) *Handler {
	return &Handler{
		flows:     flows,
		dashboard: dashboard,
		accounts:  accounts,
		inbox:     inbox,
		logger:    logger,
	}
}

type flowErrorResponse struct {
	Error    string              `json:"error"`
	Snapshot domain.FlowSnapshot `json:"snapshot"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

type securityToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	overview, err := h.dashboard.Overview(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to load dashboard", "user_id", user.ID, "error", err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, overview)
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	history, err := h.dashboard.History(r.Context(), historyFilterFromQuery(r))
	if err != nil {
		h.logger.Error("failed to list transactions", "error", err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}

func (h *Handler) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	if err := h.dashboard.ExportCSV(r.Context(), historyFilterFromQuery(r), w); err != nil {
		h.logger.Error("failed to export transactions", "error", err)
		http.Error(w, "Failed to export transactions", http.StatusInternalServerError)
		return
	}
}

func (h *Handler) handleGetTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondWithJSON(w, http.StatusOK, h.flows.Flow(user.ID).Snapshot())
}

func (h *Handler) handleSubmitTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var form domain.TransferForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	form.RecipientAccount = domain.NormalizeAccountNumber(form.RecipientAccount)

	snap, err := h.flows.Flow(user.ID).Submit(r.Context(), form)
	if err != nil {
		h.respondWithFlowError(w, snap, err)
		return
	}

	respondWithJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleVerifyTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.flows.Flow(user.ID).Verify(r.Context(), strings.TrimSpace(req.Code))
	if err != nil {
		h.respondWithFlowError(w, snap, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, snap)
}

func (h *Handler) handleNewTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := h.flows.Flow(user.ID).NewTransfer(r.Context())
	if err != nil {
		h.respondWithFlowError(w, snap, err)
		return
	}

	respondWithJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleAbandonTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := h.flows.Flow(user.ID).Abandon()
	if err != nil {
		h.respondWithFlowError(w, snap, err)
		return
	}

	respondWithJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleDrainNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondWithJSON(w, http.StatusOK, h.inbox.Drain(user.ID))
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.accounts.Profile(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to load profile", "user_id", user.ID, "error", err)
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input app.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.accounts.UpdateProfile(r.Context(), user, input)
	if err != nil {
		h.logger.Error("failed to save profile", "user_id", user.ID, "error", err)
		http.Error(w, "Failed to save profile", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleGetSecurity(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	overview, err := h.accounts.SecurityOverview(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to load security settings", "user_id", user.ID, "error", err)
		http.Error(w, "Failed to load security settings", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, overview)
}

func (h *Handler) handleSetSecuritySetting(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req securityToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		http.Error(w, "Request body must contain \"enabled\"", http.StatusBadRequest)
		return
	}

	setting := domain.SecuritySetting(chi.URLParam(r, "setting"))
	settings, err := h.accounts.SetSecuritySetting(r.Context(), user, setting, *req.Enabled)
	if errors.Is(err, app.ErrUnknownSetting) {
		http.Error(w, "Unknown security setting", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update security setting", "user_id", user.ID, "setting", setting, "error", err)
		http.Error(w, "Failed to update security setting", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, settings)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	h.accounts.SignOut(r.Context(), user)
	w.WriteHeader(http.StatusNoContent)
}

// respondWithFlowError maps transfer flow errors to status codes.
func (h *Handler) respondWithFlowError(w http.ResponseWriter, snap domain.FlowSnapshot, err error) {
	var fieldErrs domain.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		respondWithJSON(w, http.StatusUnprocessableEntity, flowErrorResponse{Error: "Validation failed", Snapshot: snap})
	case errors.Is(err, app.ErrMalformedCode):
		respondWithJSON(w, http.StatusBadRequest, flowErrorResponse{Error: err.Error(), Snapshot: snap})
	case errors.Is(err, app.ErrCodeMismatch):
		respondWithJSON(w, http.StatusUnauthorized, flowErrorResponse{Error: "Invalid OTP. Please try again.", Snapshot: snap})
	case errors.Is(err, app.ErrProcessing), errors.Is(err, app.ErrInvalidTransition):
		respondWithJSON(w, http.StatusConflict, flowErrorResponse{Error: err.Error(), Snapshot: snap})
	case errors.Is(err, app.ErrFlowClosed):
		http.Error(w, "Transfer flow is no longer available", http.StatusGone)
	default:
		h.logger.Error("transfer flow failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func historyFilterFromQuery(r *http.Request) domain.HistoryFilter {
	q := r.URL.Query()
	return domain.HistoryFilter{
		Search:    strings.TrimSpace(q.Get("search")),
		Direction: q.Get("type"),
		Status:    q.Get("status"),
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
