package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every core operation the transport layer calls. The command
// strings and button labels the transport renders are its own business; this
// is the callable surface behind them.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(h.log))

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.HealthCheckHandler).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()

	// Ledger store surface.
	apiV1.HandleFunc("/accounts/{id}", h.EnsureAccountHandler).Methods("PUT")
	apiV1.HandleFunc("/accounts/{id}/balance", h.GetBalanceHandler).Methods("GET")
	apiV1.HandleFunc("/accounts/{id}/transactions", h.GetTransactionsHandler).Methods("GET")

	// Admin-gated ledger surface.
	apiV1.HandleFunc("/accounts", h.ListAccountsHandler).Methods("GET")
	apiV1.HandleFunc("/accounts/{id}", h.GetAccountHandler).Methods("GET")
	apiV1.HandleFunc("/accounts/{id}", h.DeleteAccountHandler).Methods("DELETE")
	apiV1.HandleFunc("/accounts/{id}/credit", h.CreditAccountHandler).Methods("POST")
	apiV1.HandleFunc("/ledger/total", h.TotalBalanceHandler).Methods("GET")

	// Transaction service surface.
	apiV1.HandleFunc("/transfers", h.CreateTransferHandler).Methods("POST")

	// Authorization service surface.
	apiV1.HandleFunc("/admins/{id}", h.IsAdminHandler).Methods("GET")

	// Conversation state machine surface.
	apiV1.HandleFunc("/sessions/{id}/lookup", h.BeginLookupHandler).Methods("POST")
	apiV1.HandleFunc("/sessions/{id}/delete", h.BeginDeleteHandler).Methods("POST")
	apiV1.HandleFunc("/sessions/{id}/resume", h.ResumeHandler).Methods("POST")

	return r
}
