// Package http serves the admin API: balances, meal records, and
// monthly statement export.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lunchledger/internal/auth"
	"lunchledger/internal/ledger/application"
	ledger "lunchledger/internal/ledger/domain"
	"lunchledger/internal/observability/metrics"
)

// LedgerReader is the read surface the admin API exposes.
type LedgerReader interface {
	Balances() []ledger.Balance
	MealFor(date ledger.Date) *ledger.Meal
	StatementFor(year int, month time.Month) application.Statement
}

// Handler provides admin HTTP endpoints.
type Handler struct {
	reader LedgerReader
}

// NewHandler constructs a handler.
func NewHandler(reader LedgerReader) (*Handler, error) {
	if reader == nil {
		return nil, errors.New("admin handler: nil reader")
	}
	return &Handler{reader: reader}, nil
}

// Router builds the admin API router with auth applied to /api/v1.
func (h *Handler) Router(authMW *auth.Middleware) http.Handler {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		if authMW != nil {
			r.Use(authMW.Wrap)
		}
		r.Get("/api/v1/balances", h.handleBalances)
		r.Get("/api/v1/meals/{date}", h.handleMeal)
		r.Get("/api/v1/statements/{month}", h.handleStatement)
	})
	return r
}

type balanceResponse struct {
	Person ledger.PersonID `json:"person"`
	Amount string          `json:"amount"`
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances := h.reader.Balances()
	resp := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, balanceResponse{Person: b.Person, Amount: b.Amount.StringFixed(2)})
	}
	writeJSON(w, resp)
}

type mealPersonResponse struct {
	Bought     string `json:"bought,omitempty"`
	Cost       string `json:"cost,omitempty"`
	Attendance string `json:"attendance,omitempty"`
	Order      string `json:"order,omitempty"`
}

type mealResponse struct {
	Date       string                                 `json:"date"`
	Restaurant ledger.RestaurantName                  `json:"restaurant,omitempty"`
	People     map[ledger.PersonID]mealPersonResponse `json:"people"`
}

func (h *Handler) handleMeal(w http.ResponseWriter, r *http.Request) {
	date, err := ledger.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		http.Error(w, "date must be 2006-01-02", http.StatusBadRequest)
		return
	}
	meal := h.reader.MealFor(date)
	if meal == nil {
		http.Error(w, "no meal recorded", http.StatusNotFound)
		return
	}
	resp := mealResponse{Date: date.String(), People: make(map[ledger.PersonID]mealPersonResponse, len(meal.People))}
	if meal.Chosen != nil {
		resp.Restaurant = meal.Chosen.Name
	}
	for person, mp := range meal.People {
		pr := mealPersonResponse{Attendance: string(mp.Attendance), Order: mp.Order}
		if mp.Bought != nil {
			pr.Bought = mp.Bought.StringFixed(2)
		}
		if mp.Cost != nil {
			pr.Cost = mp.Cost.StringFixed(2)
		}
		resp.People[person] = pr
	}
	writeJSON(w, resp)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	month, err := time.Parse("2006-01", chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "month must be 2006-01", http.StatusBadRequest)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	stmt := h.reader.StatementFor(month.Year(), month.Month())

	var (
		data        []byte
		contentType string
		filename    string
	)
	switch format {
	case "pdf":
		data, err = BuildStatementPDF(stmt)
		contentType = "application/pdf"
		filename = "statement-" + month.Format("2006-01") + ".pdf"
	case "xlsx":
		data, err = BuildStatementXLSX(stmt)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "statement-" + month.Format("2006-01") + ".xlsx"
	default:
		http.Error(w, "format must be pdf or xlsx", http.StatusBadRequest)
		return
	}
	if err != nil {
		metrics.IncExport(format, "error")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.IncExport(format, "success")

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}
