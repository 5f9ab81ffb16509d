// Package httpapi serves the read-only HTTP/JSON surface from spec.md §6:
// peer discovery, signed messages, and relayed transactions.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dplane-collective/solana-tx-p2p/internal/query"
)

// Handler wires query.PeerService into gorilla/mux routes.
type Handler struct {
	service query.PeerService
}

// NewRouter builds the mux.Router for spec.md §6's four routes.
func NewRouter(service query.PeerService) *mux.Router {
	h := &Handler{service: service}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/peer/discovery", h.discovery).Methods("GET")
	r.HandleFunc("/api/v1/peer/signed-message", h.signedMessages).Methods("GET")
	r.HandleFunc("/api/v1/peer/relayed-transaction", h.relayedTransactions).Methods("GET")
	r.HandleFunc("/api/v1/peer/relayed-transaction/{signature}", h.transactionDetail).Methods("GET")
	return r
}

func (h *Handler) discovery(w http.ResponseWriter, r *http.Request) {
	peers, err := h.service.ListPeers(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, peers)
}

func (h *Handler) signedMessages(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.ListSignedMessages(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

func (h *Handler) relayedTransactions(w http.ResponseWriter, r *http.Request) {
	sigs, err := h.service.ListRelayedTransactions(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sigs)
}

func (h *Handler) transactionDetail(w http.ResponseWriter, r *http.Request) {
	signature := mux.Vars(r)["signature"]

	detail, err := h.service.GetTransaction(r.Context(), signature)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// errorResponse mirrors original_source's web error shape: a bare
// {"message": "..."} body, per spec.md §7.
type errorResponse struct {
	Message string `json:"message"`
}

func respondErr(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
