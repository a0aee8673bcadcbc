package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReportClientError(t *testing.T) {
	mon := &recordingMonitor{}
	h := NewClientErrorHandler(mon)

	req := httptest.NewRequest(http.MethodPost, "/client-errors",
		strings.NewReader(`{"message":"map failed to load","component":"AdMap","url":"https://adboard.example.com/map"}`))
	req.Header.Set("User-Agent", "test-browser")
	w := httptest.NewRecorder()
	h.Report(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 got %d (%s)", w.Code, w.Body.String())
	}
	if len(mon.clientErrors) != 1 {
		t.Fatalf("expected one reported error, got %d", len(mon.clientErrors))
	}
	got := mon.clientErrors[0]
	if got.Component != "AdMap" || got.UserAgent != "test-browser" || got.Timestamp.IsZero() {
		t.Fatalf("unexpected report %+v", got)
	}
}

func TestReportClientErrorRejectsBadBodies(t *testing.T) {
	mon := &recordingMonitor{}
	h := NewClientErrorHandler(mon)

	for _, body := range []string{`{`, `{"component":"AdMap"}`, `{"message":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/client-errors", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.Report(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", body, w.Code)
		}
	}
	if len(mon.clientErrors) != 0 {
		t.Fatalf("expected nothing reported, got %d", len(mon.clientErrors))
	}
}
