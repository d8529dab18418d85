package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"kudi/internal/core"
	"kudi/internal/storage"
)

type transactionView struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	CategoryID  string  `json:"categoryId,omitempty"`
	Category    string  `json:"category,omitempty"`
	OccurredAt  string  `json:"occurredAt"`
	CreatedAt   string  `json:"createdAt"`
}

type createTransactionRequest struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Description  string `json:"description"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"category"`
	OccurredAt   string `json:"occurredAt"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	from, err := parseOptionalDate(r, "from")
	if err != nil {
		respondError(w, r, err)
		return
	}
	to, err := parseOptionalDate(r, "to")
	if err != nil {
		respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := storage.TransactionFilter{
		OwnerID:      owner,
		From:         from,
		To:           to,
		CategoryID:   strings.TrimSpace(q.Get("categoryId")),
		CategoryName: strings.TrimSpace(q.Get("category")),
		Term:         q.Get("q"),
		Limit:        parseIntParam(r, "limit"),
		Page:         parseIntParam(r, "page"),
	}
	// normalize here so the echoed page and limit are the applied ones
	if err := filter.Normalize(); err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := s.transactions.ListTransactions(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]transactionView, 0, len(rows))
	for _, tx := range rows {
		views = append(views, toTransactionView(tx))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": views,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, core.NewValidationError("request body is not valid JSON"))
		return
	}

	cents, err := core.ParseAmountToCents(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	occurredAt, err := parseDate(req.OccurredAt)
	if err != nil {
		respondError(w, r, err)
		return
	}

	tx := core.Transaction{
		OwnerID:      owner,
		Amount:       core.Money{Cents: cents},
		Currency:     core.Currency(strings.ToUpper(strings.TrimSpace(req.Currency))),
		Description:  strings.TrimSpace(req.Description),
		CategoryID:   strings.TrimSpace(req.CategoryID),
		CategoryName: strings.TrimSpace(req.CategoryName),
		OccurredAt:   occurredAt,
	}

	created, err := s.transactions.CreateTransaction(r.Context(), tx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionView(created))
}

// handleTransactionByID serves DELETE /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}

	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.transactions.DeleteTransaction(r.Context(), owner, id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	owner, err := ownerID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	pr, err := parseDateRange(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	doc, err := s.exporter.Export(r.Context(), owner, pr)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Content)
}

func toTransactionView(tx core.Transaction) transactionView {
	return transactionView{
		ID:          tx.ID,
		Amount:      core.AmountOf(tx.Amount.Cents),
		Currency:    string(tx.Currency),
		Description: tx.Description,
		CategoryID:  tx.CategoryID,
		Category:    tx.CategoryName,
		OccurredAt:  tx.OccurredAt.UTC().Format(time.RFC3339),
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}
