package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tripsplit/internal/core"
	"tripsplit/internal/services"
	"tripsplit/internal/storage"
)

type tripPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toTripPayload(t *storage.Trip) tripPayload {
	return tripPayload{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

type memberPayload struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
}

type splitPayload struct {
	MemberID    string `json:"member_id"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

type expensePayload struct {
	ID          string         `json:"id"`
	PayerID     string         `json:"payer_id"`
	AmountCents int64          `json:"amount_cents"`
	Amount      string         `json:"amount"`
	Category    string         `json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
	Splits      []splitPayload `json:"splits"`
}

func toExpensePayload(rec *core.ExpenseRecord) expensePayload {
	splits := make([]splitPayload, len(rec.Splits))
	for i, sp := range rec.Splits {
		splits[i] = splitPayload{
			MemberID:    sp.MemberID,
			AmountCents: sp.Amount.Cents,
			Amount:      sp.Amount.String(),
		}
	}
	return expensePayload{
		ID:          rec.ID,
		PayerID:     rec.PayerID,
		AmountCents: rec.Amount.Cents,
		Amount:      rec.Amount.String(),
		Category:    rec.Category,
		CreatedAt:   rec.CreatedAt,
		Splits:      splits,
	}
}

type balancePayload struct {
	MemberID       string `json:"member_id"`
	TotalPaidCents int64  `json:"total_paid_cents"`
	TotalOwedCents int64  `json:"total_owed_cents"`
	NetCents       int64  `json:"net_cents"`
	Net            string `json:"net"`
}

type transferPayload struct {
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	AmountCents  int64  `json:"amount_cents"`
	Amount       string `json:"amount"`
}

type categoryPayload struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

type sheetPayload struct {
	TotalSpentCents int64             `json:"total_spent_cents"`
	TotalSpent      string            `json:"total_spent"`
	Balances        []balancePayload  `json:"balances"`
	Settlement      []transferPayload `json:"settlement"`
	Categories      []categoryPayload `json:"categories"`
}

type activityPayload struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

type createTripRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	DisplayName string `json:"display_name"`
}

type splitRequest struct {
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
}

type createExpenseRequest struct {
	PayerID      string         `json:"payer_id"`
	Amount       string         `json:"amount"`
	Category     string         `json:"category"`
	Participants []string       `json:"participants,omitempty"`
	Splits       []splitRequest `json:"splits,omitempty"`
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trip, err := s.trips.CreateTrip(r.Context(), req.Name)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTripPayload(trip))
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListTrips(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]tripPayload, len(trips))
	for i := range trips {
		out[i] = toTripPayload(&trips[i])
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetTrip(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTripPayload(trip))
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := s.trips.AddMember(r.Context(), chi.URLParam(r, "tripID"), req.DisplayName)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, memberPayload{
		ID:          member.ID,
		DisplayName: member.DisplayName,
		Active:      member.Active,
	})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.trips.ListMembers(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]memberPayload, len(members))
	for i, m := range members {
		out[i] = memberPayload{ID: m.ID, DisplayName: m.DisplayName, Active: m.Active}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeactivateMember(w http.ResponseWriter, r *http.Request) {
	err := s.trips.DeactivateMember(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "memberID"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	input := services.CreateExpenseInput{
		PayerID:      req.PayerID,
		Amount:       amount,
		Category:     req.Category,
		Participants: req.Participants,
	}
	for _, sp := range req.Splits {
		spAmount, err := core.ParseMoney(sp.Amount)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		input.Splits = append(input.Splits, core.Split{MemberID: sp.MemberID, Amount: spAmount})
	}

	rec, err := s.expenses.CreateExpense(r.Context(), chi.URLParam(r, "tripID"), input)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.metrics.expensesTotal.Inc()
	respondJSON(w, http.StatusCreated, toExpensePayload(rec))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ledger, err := s.expenses.ListExpenses(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]expensePayload, len(ledger))
	for i := range ledger {
		out[i] = toExpensePayload(&ledger[i])
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.expenses.BalanceSheet(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := sheetPayload{
		TotalSpentCents: sheet.TotalSpent.Cents,
		TotalSpent:      sheet.TotalSpent.String(),
		Balances:        make([]balancePayload, len(sheet.Balances)),
		Settlement:      make([]transferPayload, len(sheet.Settlement)),
		Categories:      make([]categoryPayload, len(sheet.Categories)),
	}
	for i, b := range sheet.Balances {
		out.Balances[i] = balancePayload{
			MemberID:       b.MemberID,
			TotalPaidCents: b.TotalPaid.Cents,
			TotalOwedCents: b.TotalOwed.Cents,
			NetCents:       b.Net.Cents,
			Net:            b.Net.String(),
		}
	}
	for i, tr := range sheet.Settlement {
		out.Settlement[i] = transferPayload{
			FromMemberID: tr.FromMemberID,
			ToMemberID:   tr.ToMemberID,
			AmountCents:  tr.Amount.Cents,
			Amount:       tr.Amount.String(),
		}
	}
	for i, c := range sheet.Categories {
		out.Categories[i] = categoryPayload{
			Category:    c.Category,
			AmountCents: c.Amount.Cents,
			Amount:      c.Amount.String(),
		}
	}

	s.metrics.sheetsComputed.Inc()
	respondJSON(w, http.StatusOK, out)
}

// maxActivityLimit bounds the feed page size so the limit parameter
// cannot be turned into an unbounded SQL LIMIT.
const maxActivityLimit = 500

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxActivityLimit {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	entries, err := s.trips.Activity(r.Context(), chi.URLParam(r, "tripID"), limit)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]activityPayload, len(entries))
	for i, e := range entries {
		out[i] = activityPayload{ID: e.ID, Kind: e.Kind, Message: e.Message, OccurredAt: e.OccurredAt}
	}
	respondJSON(w, http.StatusOK, out)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
