package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"expensedash/internal/attach"
	"expensedash/internal/core"
	"expensedash/internal/export"
	"expensedash/internal/remote"
	"expensedash/internal/stats"
	"expensedash/internal/theme"
)

type (
	expensesResponse struct {
		Expenses []core.Expense `json:"expenses"`
		Loading  bool           `json:"loading"`
		Error    string         `json:"error,omitempty"`
	}

	summaryResponse struct {
		Overview   core.Overview          `json:"overview"`
		Categories []core.CategorySummary `json:"categories"`
	}

	periodResponse struct {
		Period core.TimePeriod `json:"period"`
	}

	themeResponse struct {
		Theme theme.Mode `json:"theme"`
	}

	receiptResponse struct {
		ExpenseID string      `json:"expense_id"`
		Payload   string      `json:"payload"`
		Kind      attach.Kind `json:"kind"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	expenses := snap.Expenses
	if period, ok, err := periodFromQuery(r); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	} else if ok {
		expenses = stats.FilterByPeriod(expenses, period, s.now())
	}

	resp := expensesResponse{Expenses: expenses, Loading: snap.Loading}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.FetchByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var draft core.ExpenseDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	draft.Description = sanitizeInput(draft.Description)
	draft.Category = sanitizeInput(draft.Category)

	created, err := s.store.Create(r.Context(), draft)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.InvalidateViews()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeBody(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// The path owns the identity; the body cannot redirect the update.
	e.ID = r.PathValue("id")
	e.Description = sanitizeInput(e.Description)
	e.Category = sanitizeInput(e.Category)

	updated, err := s.store.Update(r.Context(), e)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.InvalidateViews()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.InvalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	period, err := s.effectivePeriod(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	key := string(period)
	if resp, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "period", period)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	expenses := stats.FilterByPeriod(s.store.Snapshot().Expenses, period, s.now())
	resp := summaryResponse{
		Overview:   stats.Overview(expenses),
		Categories: s.agg.Summarize(expenses),
	}
	s.summaryCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	period, err := s.effectivePeriod(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	key := string(period)
	if rows, found := s.distribCache.Get(key); found {
		slog.DebugContext(r.Context(), "Distribution cache hit", "period", period)
		writeJSON(w, http.StatusOK, rows)
		return
	}

	expenses := stats.FilterByPeriod(s.store.Snapshot().Expenses, period, s.now())
	rows := stats.Distribution(s.agg.Summarize(expenses))
	s.distribCache.Set(key, rows)
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, periodResponse{Period: s.store.Snapshot().Period})
}

func (s *Server) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var req periodResponse
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SetPeriod(req.Period); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, periodResponse{Period: req.Period})
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.themes.Mode()})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeResponse
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Theme != theme.Light && req.Theme != theme.Dark {
		writeError(w, http.StatusUnprocessableEntity, "theme must be light or dark")
		return
	}
	s.themes.Set(req.Theme)
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.themes.Mode()})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.themes.Toggle()})
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	payload, ok := s.attachments.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no receipt for expense")
		return
	}
	writeJSON(w, http.StatusOK, receiptResponse{
		ExpenseID: id,
		Payload:   payload,
		Kind:      attach.KindOf(payload),
	})
}

func (s *Server) handlePutReceipt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Payload string `json:"payload"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Payload) == "" {
		writeError(w, http.StatusUnprocessableEntity, "empty receipt payload")
		return
	}
	s.attachments.Put(r.PathValue("id"), req.Payload)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	s.attachments.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	period, err := s.effectivePeriod(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	expenses := stats.FilterByPeriod(s.store.Snapshot().Expenses, period, s.now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(s.now())+`"`)
	if err := export.WriteCSV(w, expenses); err != nil {
		if errors.Is(err, export.ErrNoExpenses) {
			w.Header().Del("Content-Disposition")
			w.Header().Set("Content-Type", "application/json")
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

// effectivePeriod resolves the window for a read: an explicit ?period=
// override when present, otherwise the store's active window.
func (s *Server) effectivePeriod(r *http.Request) (core.TimePeriod, error) {
	if period, ok, err := periodFromQuery(r); err != nil {
		return "", err
	} else if ok {
		return period, nil
	}
	return s.store.Snapshot().Period, nil
}

func periodFromQuery(r *http.Request) (core.TimePeriod, bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get("period"))
	if v == "" {
		return "", false, nil
	}
	period, err := core.ParsePeriod(v)
	if err != nil {
		return "", false, err
	}
	return period, true, nil
}

// writeStoreError maps store failures onto the response: validation blocks
// as 422, remote rejections pass through their status and message, and
// transport failures read as a bad gateway.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *remote.APIError
	switch {
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &apiErr):
		writeError(w, apiErr.StatusCode, apiErr.Message)
	default:
		slog.ErrorContext(r.Context(), "Remote collection unreachable", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusBadGateway, "remote collection unreachable")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrMissingDate)
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 10<<20))
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
