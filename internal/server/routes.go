package server

import (
	"net/http"
)

func SetupRoutes(h *ReconciliationHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /reconciliations", h.CreateReconciliation)
	mux.HandleFunc("GET /reconciliations/{id}", h.GetReconciliation)
	mux.HandleFunc("POST /reconciliations/{id}/bank-statement", h.ImportBankStatement)
	mux.HandleFunc("POST /reconciliations/{id}/system-transactions", h.RecordSystemTransactions)
	mux.HandleFunc("PUT /reconciliations/{id}/balances", h.SetBalances)
	mux.HandleFunc("POST /reconciliations/{id}/match", h.RunMatching)
	mux.HandleFunc("GET /reconciliations/{id}/pairs", h.ListMatchPairs)
	mux.HandleFunc("GET /reconciliations/{id}/divergences", h.ListDivergences)
	mux.HandleFunc("GET /reconciliations/{id}/balance", h.VerifyBalance)
	mux.HandleFunc("POST /reconciliations/{id}/complete", h.Complete)
	mux.HandleFunc("POST /divergences/{id}/resolve", h.ResolveDivergence)

	return mux
}
