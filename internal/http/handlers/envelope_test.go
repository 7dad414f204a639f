package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"standards-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

func errorRouter(err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) { Error(c, err) })
	return r
}

func getErrorEnvelope(t *testing.T, err error) (*httptest.ResponseRecorder, errorsBody) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	errorRouter(err).ServeHTTP(w, req)
	return w, decodeErrors(t, w)
}

func TestErrorMalformedIDAnswersBadRequest(t *testing.T) {
	w, body := getErrorEnvelope(t, domain.MalformedIDError{Field: "role", Value: "xx"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(body.Errors) != 1 || body.Errors[0].Detail != "malformed role id: xx" {
		t.Fatalf("unexpected errors: %+v", body.Errors)
	}
}

func TestErrorAuthAnswersUnauthorized(t *testing.T) {
	w, body := getErrorEnvelope(t, domain.AuthError{Detail: "invalid token"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if len(body.Errors) != 1 || body.Errors[0].Detail != "invalid token" {
		t.Fatalf("unexpected errors: %+v", body.Errors)
	}
}

func TestErrorWrapsPlainFailuresAsInternal(t *testing.T) {
	w, body := getErrorEnvelope(t, errors.New("dial tcp: connection refused"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if len(body.Errors) != 1 || !strings.Contains(body.Errors[0].Detail, "connection refused") {
		t.Fatalf("unexpected errors: %+v", body.Errors)
	}
}

func TestErrorKeepsWrappedInternalCause(t *testing.T) {
	cause := errors.New("lost connection")
	w, _ := getErrorEnvelope(t, domain.InternalError{Msg: "listing orders", Err: cause})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
