package nav

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleMenuShowsAdminLinksOnlyWhenAuthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nav/menu", nil)
	recorder := httptest.NewRecorder()

	HandleMenu(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}

	body := recorder.Body.String()
	if !strings.Contains(body, "/standings") {
		t.Fatalf("expected public links in menu, got: %s", body)
	}
	// Unauthenticated requests get the login link, not the manage links.
	if strings.Contains(body, "/admin/matches") {
		t.Fatalf("expected no admin manage links for anonymous user, got: %s", body)
	}
	if !strings.Contains(body, "/admin/login") {
		t.Fatalf("expected admin login link, got: %s", body)
	}
}

func TestHandleMenuClose(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nav/menu/close", nil)
	recorder := httptest.NewRecorder()

	HandleMenuClose(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if body := strings.TrimSpace(recorder.Body.String()); body != "" {
		t.Fatalf("expected empty body, got: %s", body)
	}
}
