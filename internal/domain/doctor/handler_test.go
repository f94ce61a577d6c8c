package doctor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/matricare/api/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID, role string) echo.Context {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestHandler_UpsertProfile(t *testing.T) {
	h, e := newTestHandler()
	body := `{"full_name":"Dr. Sara","license_number":"LIC-1","graduation_year":2010,"experience_years":5,"active":true}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.UpsertProfile(authedContext(e, req, rec, uuid.New().String(), "doctor")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_UpsertProfile_DuplicateLicense(t *testing.T) {
	h, e := newTestHandler()
	h.svc.UpsertProfile(context.Background(), uuid.New(), validProfile())

	body := `{"full_name":"Dr. Omar","license_number":"LIC-1001","graduation_year":2012,"experience_years":4}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	err := h.UpsertProfile(authedContext(e, req, rec, uuid.New().String(), "doctor"))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_ListPatients_ForbiddenForOtherDoctor(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New().String(), "doctor")
	c.SetParamNames("doctorID")
	c.SetParamValues(uuid.New().String())
	err := h.ListPatients(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestHandler_ListPatients_AdminMayReadAny(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New().String(), "admin")
	c.SetParamNames("doctorID")
	c.SetParamValues(uuid.New().String())
	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}
}

func TestHandler_RemovePatient(t *testing.T) {
	h, e := newTestHandler()
	docID, patID := uuid.New(), uuid.New()
	h.svc.AddPatient(context.Background(), docID, patID)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, docID.String(), "doctor")
	c.SetParamNames("doctorID", "patientID")
	c.SetParamValues(docID.String(), patID.String())
	if err := h.RemovePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_Rate(t *testing.T) {
	h, e := newTestHandler()
	docID := uuid.New()
	h.svc.UpsertProfile(context.Background(), docID, validProfile())

	body := `{"rating":5}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New().String(), "mother")
	c.SetParamNames("doctorID")
	c.SetParamValues(docID.String())
	if err := h.Rate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Rating      float64 `json:"rating"`
		RatingCount int     `json:"rating_count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Rating != 5 || resp.RatingCount != 1 {
		t.Errorf("unexpected rating response %+v", resp)
	}
}

func TestHandler_ListDoctors(t *testing.T) {
	h, e := newTestHandler()
	h.svc.UpsertProfile(context.Background(), uuid.New(), validProfile())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := h.ListDoctors(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
