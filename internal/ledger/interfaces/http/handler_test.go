package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"lunchledger/internal/auth"
	"lunchledger/internal/ledger/application"
	ledger "lunchledger/internal/ledger/domain"
)

var handlerDate = ledger.Date{Year: 2024, Month: time.January, Day: 10}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type stubReader struct {
	balances  []ledger.Balance
	meal      *ledger.Meal
	statement application.Statement
}

func (s stubReader) Balances() []ledger.Balance { return s.balances }

func (s stubReader) MealFor(date ledger.Date) *ledger.Meal {
	if s.meal != nil && s.meal.Date == date {
		return s.meal
	}
	return nil
}

func (s stubReader) StatementFor(int, time.Month) application.Statement { return s.statement }

func newTestRouter(t *testing.T, reader LedgerReader, mw *auth.Middleware) http.Handler {
	t.Helper()
	handler, err := NewHandler(reader)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return handler.Router(mw)
}

func TestBalancesEndpoint(t *testing.T) {
	router := newTestRouter(t, stubReader{balances: []ledger.Balance{
		{Person: "alice", Amount: dec("15.00")},
		{Person: "bob", Amount: dec("-6.00")},
	}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var resp []struct {
		Person string `json:"person"`
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 2 || resp[0].Person != "alice" || resp[0].Amount != "15.00" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestMealEndpoint(t *testing.T) {
	bought := dec("20.00")
	meal := &ledger.Meal{
		Date:   handlerDate,
		Chosen: &ledger.Restaurant{Name: "taqueria"},
		People: map[ledger.PersonID]*ledger.MealPerson{
			"alice": {Bought: &bought, Attendance: ledger.AttendanceIn, Order: "tacos"},
		},
	}
	router := newTestRouter(t, stubReader{meal: meal}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meals/2024-01-10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp struct {
		Date       string `json:"date"`
		Restaurant string `json:"restaurant"`
		People     map[string]struct {
			Bought string `json:"bought"`
			Order  string `json:"order"`
		} `json:"people"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Date != "2024-01-10" || resp.Restaurant != "taqueria" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.People["alice"].Bought != "20.00" || resp.People["alice"].Order != "tacos" {
		t.Fatalf("unexpected person: %+v", resp.People["alice"])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meals/2024-01-11", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing meal: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meals/january", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: status %d", rec.Code)
	}
}

func TestStatementEndpointFormats(t *testing.T) {
	stmt := application.Statement{
		Year:  2024,
		Month: time.January,
		Items: []application.StatementItem{
			{Date: handlerDate, Restaurant: "taqueria", Bought: dec("20.00"), Cost: dec("20.00")},
		},
		TotalBought: dec("20.00"),
		TotalCost:   dec("20.00"),
	}
	router := newTestRouter(t, stubReader{statement: stmt}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/statements/2024-01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("pdf content type %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body is not a PDF")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/statements/2024-01?format=xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx status %d", rec.Code)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatal("body is not an XLSX archive")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/statements/2024-01?format=csv", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown format: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/statements/january", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad month: status %d", rec.Code)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	secret := []byte("test-secret")
	router := newTestRouter(t, stubReader{}, auth.NewMiddleware(secret, auth.RoleMember))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", rec.Code)
	}

	claims := auth.Claims{
		Person: "alice",
		Role:   "member",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: status %d", rec.Code)
	}
}
