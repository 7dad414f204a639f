package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"standards-backend/internal/repositories"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func providerRouter(db *sql.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := ProviderHandler{Repo: repositories.ProviderRepo{DB: db}}
	r := gin.New()
	r.POST("/providers", h.Create)
	r.GET("/providers/:id", h.Get)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorsBody struct {
	Errors []struct {
		Code   int    `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) errorsBody {
	t.Helper()
	var body errorsBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %s: %v", w.Body.String(), err)
	}
	return body
}

func TestCreateProviderRejectsBadEmailNamingField(t *testing.T) {
	db, mock := newMockDB(t)
	r := providerRouter(db)

	mock.ExpectQuery("SELECT id FROM providers").WillReturnError(sql.ErrNoRows)

	w := postJSON(r, "/providers", gin.H{"name": "Rotulación SA", "emailP1": "not-an-email"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
	}
	body := decodeErrors(t, w)
	if len(body.Errors) != 1 {
		t.Fatalf("expected 1 error entry, got %+v", body.Errors)
	}
	if !strings.Contains(body.Errors[0].Detail, "emailP1") {
		t.Fatalf("error does not name the failing field: %+v", body.Errors[0])
	}
}

func TestCreateProviderBatchesIndependentFailures(t *testing.T) {
	db, _ := newMockDB(t)
	r := providerRouter(db)

	// Both required fields absent; no uniqueness query runs without a name.
	w := postJSON(r, "/providers", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
	}
	body := decodeErrors(t, w)
	if len(body.Errors) != 2 {
		t.Fatalf("expected both failures in one response, got %+v", body.Errors)
	}
}

func TestCreateProviderRejectsDuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	r := providerRouter(db)

	mock.ExpectQuery("SELECT id FROM providers").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("64a1f0c2e8b4d6a3f1c0e9b7"))

	w := postJSON(r, "/providers", gin.H{"name": "Rotulación SA", "emailP1": "ventas@rotulacion.es"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
	}
	body := decodeErrors(t, w)
	if len(body.Errors) != 1 || !strings.Contains(body.Errors[0].Detail, "already in use") {
		t.Fatalf("expected duplicate-name error, got %+v", body.Errors)
	}
}

func TestGetProviderMalformedIDFailsFast(t *testing.T) {
	db, _ := newMockDB(t)
	r := providerRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/providers/not-an-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
	}
	body := decodeErrors(t, w)
	if len(body.Errors) != 1 || !strings.Contains(body.Errors[0].Detail, "malformed id") {
		t.Fatalf("expected malformed-id error, got %+v", body.Errors)
	}
}

func TestGetProviderMissingAnswersInnerNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := providerRouter(db)

	mock.ExpectQuery("SELECT .+ FROM providers").WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/providers/64a1f0c2e8b4d6a3f1c0e9b7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var body struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != 204 || body.Msg != "not found" || string(body.Data) != "null" {
		t.Fatalf("unexpected not-found envelope %s", w.Body.String())
	}
}
