package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/punchamoorthee/walletops/internal/domain"
	"github.com/punchamoorthee/walletops/internal/service"
	"github.com/punchamoorthee/walletops/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// requesterHeader carries the identity of the user the transport is relaying
// for. Admin-gated endpoints authorize against it.
const requesterHeader = "X-Requester-ID"

type Handler struct {
	store     *store.Store
	transfers *service.TransferService
	auth      *service.AuthService
	sessions  *service.SessionEngine
	log       *logrus.Logger
}

func NewHandler(s *store.Store, transfers *service.TransferService, auth *service.AuthService, sessions *service.SessionEngine, log *logrus.Logger) *Handler {
	return &Handler{store: s, transfers: transfers, auth: auth, sessions: sessions, log: log}
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EnsureAccountHandler registers an account on first contact. Idempotent, so
// the transport can call it on every inbound message.
func (h *Handler) EnsureAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.EnsureAccount(r.Context(), id); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusNoContent)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	balance, err := h.store.GetBalance(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusOK)
	respondWithJSON(w, http.StatusOK, map[string]any{"account_id": id, "balance": balance})
}

func (h *Handler) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	txns, err := h.store.GetTransactions(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	h.count(r, http.StatusOK)
	respondWithJSON(w, http.StatusOK, txns)
}

func (h *Handler) CreateTransferHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transfers"))
	defer timer.ObserveDuration()

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.count(r, http.StatusBadRequest)
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	txn, err := h.transfers.Transfer(r.Context(), req.FromUserID, req.ToAddress, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			h.count(r, http.StatusUnprocessableEntity)
			respondWithError(w, http.StatusUnprocessableEntity, "Positive amount required")
		case errors.Is(err, domain.ErrInsufficientFunds):
			h.count(r, http.StatusUnprocessableEntity)
			respondWithError(w, http.StatusUnprocessableEntity, "Insufficient funds")
		default:
			h.serverError(w, r, err)
		}
		return
	}

	h.count(r, http.StatusCreated)
	respondWithJSON(w, http.StatusCreated, txn)
}

// GetAccountHandler is the admin inspection read: a 404 here is a distinct
// outcome from a zero balance on the public balance endpoint.
func (h *Handler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	account, err := h.store.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.count(r, http.StatusNotFound)
			respondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusOK)
	respondWithJSON(w, http.StatusOK, account)
}

func (h *Handler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteAccount(r.Context(), id); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusNoContent)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	ids, err := h.store.ListAccountIDs(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	h.count(r, http.StatusOK)
	respondWithJSON(w, http.StatusOK, map[string]any{"account_ids": ids})
}

func (h *Handler) TotalBalanceHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	total, err := h.store.TotalBalance(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusOK)
	respondWithJSON(w, http.StatusOK, map[string]any{"total_balance": total})
}

// CreditAccountHandler is the administrative top-up path; it exists because
// transfers only ever debit.
func (h *Handler) CreditAccountHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.count(r, http.StatusBadRequest)
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if err := h.store.Credit(r.Context(), id, req.Amount); err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			h.count(r, http.StatusUnprocessableEntity)
			respondWithError(w, http.StatusUnprocessableEntity, "Positive amount required")
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusNoContent)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) IsAdminHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	isAdmin, err := h.auth.IsAdmin(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusOK)
	respondWithJSON(w, http.StatusOK, map[string]any{"user_id": id, "is_admin": isAdmin})
}

func (h *Handler) BeginLookupHandler(w http.ResponseWriter, r *http.Request) {
	h.beginPrompt(w, r, h.sessions.BeginLookup, "Enter the user ID:")
}

func (h *Handler) BeginDeleteHandler(w http.ResponseWriter, r *http.Request) {
	h.beginPrompt(w, r, h.sessions.BeginDelete, "Enter the user ID to delete:")
}

func (h *Handler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.count(r, http.StatusBadRequest)
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	outcome, err := h.sessions.Resume(r.Context(), id, req.Text)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusOK)
	respondWithJSON(w, http.StatusOK, outcome)
}

func (h *Handler) beginPrompt(w http.ResponseWriter, r *http.Request, begin func(ctx context.Context, adminID int64) error, prompt string) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := begin(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotAdmin) {
			h.count(r, http.StatusForbidden)
			respondWithError(w, http.StatusForbidden, "Admin privilege required")
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.count(r, http.StatusOK)
	respondWithJSON(w, http.StatusOK, map[string]string{"prompt": prompt})
}

// requireAdmin authorizes the requester named in the X-Requester-ID header.
// Centralizing the check keeps every admin-gated handler on the same path.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	raw := r.Header.Get(requesterHeader)
	requester, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.count(r, http.StatusBadRequest)
		respondWithError(w, http.StatusBadRequest, "Missing or invalid "+requesterHeader+" header")
		return false
	}
	isAdmin, err := h.auth.IsAdmin(r.Context(), requester)
	if err != nil {
		h.serverError(w, r, err)
		return false
	}
	if !isAdmin {
		h.count(r, http.StatusForbidden)
		respondWithError(w, http.StatusForbidden, "Admin privilege required")
		return false
	}
	return true
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("request failed")
	h.count(r, http.StatusInternalServerError)
	respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
}

func (h *Handler) count(r *http.Request, status int) {
	endpoint := r.URL.Path
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			endpoint = tpl
		}
	}
	httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
