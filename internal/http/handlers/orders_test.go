package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"standards-backend/internal/domain"
	"standards-backend/internal/http/middleware"
	"standards-backend/internal/notify"
	"standards-backend/internal/repositories"
	"standards-backend/internal/sequence"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	mu   sync.Mutex
	sent int
}

func (s *recordingSender) Send(*gomail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func orderHandlerFor(db *sql.DB, notifier *notify.Dispatcher) OrderHandler {
	productRepo := repositories.ProductRepo{DB: db}
	return OrderHandler{
		Repo:        repositories.OrderRepo{DB: db, Products: productRepo},
		Dealerships: repositories.DealershipRepo{DB: db},
		Providers:   repositories.ProviderRepo{DB: db},
		Refs:        RefResolver{DB: db},
		Numbers:     sequence.Generator{Counters: sequence.SQLCounters{DB: db}},
		Notifier:    notifier,
	}
}

func orderRouter(db *sql.DB, notifier *notify.Dispatcher, principal *middleware.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := orderHandlerFor(db, notifier)
	r := gin.New()
	if principal != nil {
		r.Use(func(c *gin.Context) { c.Set("principal", *principal) })
	}
	r.POST("/orders", h.Create)
	r.POST("/orders/all", h.List)
	r.PUT("/orders/:id", h.Update)
	return r
}

const (
	dealID = "11a1f0c2e8b4d6a3f1c0e9b7"
	provID = "22a1f0c2e8b4d6a3f1c0e9b7"
	prodID = "33a1f0c2e8b4d6a3f1c0e9b7"
)

var orderCols = []string{
	"id", "number", "dealership_id", "d.name", "provider_id", "pr.name",
	"lines", "address", "state", "created_at", "updated_at",
}

func orderRow(id, number, state string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderCols).AddRow(
		id, number, dealID, "Motor Norte", provID, "Rotulación SA",
		[]byte(`[{"product":"`+prodID+`","units":3}]`), "Calle Mayor 1", state, now, now)
}

func TestCreateOrderMintsSequentialNumber(t *testing.T) {
	db, mock := newMockDB(t)
	r := orderRouter(db, nil, nil)

	mock.ExpectQuery("SELECT 1 FROM dealerships").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM providers").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM products").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("INSERT INTO counters").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT o.id, o.number").
		WillReturnRows(orderRow("44a1f0c2e8b4d6a3f1c0e9b7", "PED-000042", domain.OrderStatePending))
	mock.ExpectQuery("SELECT id, name FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(prodID, "Vinilo fachada"))

	w := postJSON(r, "/orders", gin.H{
		"dealership": dealID,
		"provider":   provID,
		"lines":      []gin.H{{"product": prodID, "units": 3}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var body struct {
		Data domain.Order `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.Number != "PED-000042" {
		t.Fatalf("number = %q, want PED-000042", body.Data.Number)
	}
	if body.Data.State != domain.OrderStatePending {
		t.Fatalf("state = %q, want default %q", body.Data.State, domain.OrderStatePending)
	}
	if len(body.Data.Lines) != 1 || body.Data.Lines[0].Product.Name != "Vinilo fachada" {
		t.Fatalf("lines not expanded: %+v", body.Data.Lines)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListOrdersScopedPrincipalOverridesDealershipFilter(t *testing.T) {
	db, mock := newMockDB(t)
	principal := &middleware.Principal{
		ID:         "55a1f0c2e8b4d6a3f1c0e9b7",
		Role:       domain.RoleDealership,
		Dealership: dealID,
	}
	r := orderRouter(db, nil, principal)

	// The supplied foreign dealership filter must be replaced by the
	// principal's own dealership.
	mock.ExpectQuery("SELECT COUNT").WithArgs(dealID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT o.id, o.number").WithArgs(dealID).
		WillReturnRows(orderRow("44a1f0c2e8b4d6a3f1c0e9b7", "PED-000001", domain.OrderStatePending))
	mock.ExpectQuery("SELECT id, name FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(prodID, "Vinilo fachada"))

	w := postJSON(r, "/orders/all", gin.H{"dealership": "99a1f0c2e8b4d6a3f1c0e9b7"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func expectCancelUpdate(mock sqlmock.Sqlmock, prevState string) {
	orderID := "44a1f0c2e8b4d6a3f1c0e9b7"
	mock.ExpectQuery("SELECT o.id, o.number").
		WillReturnRows(orderRow(orderID, "PED-000042", prevState))
	mock.ExpectQuery("SELECT id, name FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(prodID, "Vinilo fachada"))
	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT o.id, o.number").
		WillReturnRows(orderRow(orderID, "PED-000042", domain.OrderStateCancelled))
	mock.ExpectQuery("SELECT id, name FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(prodID, "Vinilo fachada"))
}

func putJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCancelOrderNotifiesOnce(t *testing.T) {
	db, mock := newMockDB(t)
	sender := &recordingSender{}
	notifier := &notify.Dispatcher{Sender: sender, From: "no-reply@test", OpsMailbox: "ops@test"}
	r := orderRouter(db, notifier, nil)

	expectCancelUpdate(mock, domain.OrderStatePending)
	// Recipient lookups; both may miss without failing the request.
	mock.ExpectQuery("SELECT .+ FROM dealerships").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT .+ FROM providers").WillReturnError(sql.ErrNoRows)

	w := putJSON(r, "/orders/44a1f0c2e8b4d6a3f1c0e9b7", gin.H{"state": domain.OrderStateCancelled})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	notifier.Wait()
	if sender.count() != 1 {
		t.Fatalf("expected 1 cancellation mail, got %d", sender.count())
	}
}

func TestCancelAlreadyCancelledOrderDoesNotReNotify(t *testing.T) {
	db, mock := newMockDB(t)
	sender := &recordingSender{}
	notifier := &notify.Dispatcher{Sender: sender, From: "no-reply@test", OpsMailbox: "ops@test"}
	r := orderRouter(db, notifier, nil)

	expectCancelUpdate(mock, domain.OrderStateCancelled)

	w := putJSON(r, "/orders/44a1f0c2e8b4d6a3f1c0e9b7", gin.H{"state": domain.OrderStateCancelled})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	notifier.Wait()
	if sender.count() != 0 {
		t.Fatalf("no-op cancellation must not re-notify, got %d mails", sender.count())
	}
}
