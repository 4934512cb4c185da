package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/collegecounter/ccweb/internal/config"
)

func withTestConfig(t *testing.T, secret string) {
	t.Helper()
	prevConfig := appConfig
	appConfig = &config.Config{}
	appConfig.App.SecretKey = secret
	appConfig.App.Environment = "development"
	appConfig.Admin.SessionTTL = time.Hour
	t.Cleanup(func() {
		appConfig = prevConfig
	})
}

func requestWithSessionCookie(t *testing.T, value string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/admin/matches", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: value})
	return r
}

func TestCreateSessionRoundTrip(t *testing.T) {
	withTestConfig(t, "test-secret")

	w := httptest.NewRecorder()
	if err := CreateSession(w); err != nil {
		t.Fatalf("create session: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != sessionCookieName {
		t.Errorf("expected cookie %q, got %q", sessionCookieName, cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	r := requestWithSessionCookie(t, cookie.Value)
	if !IsAuthenticated(r) {
		t.Error("expected fresh session cookie to authenticate")
	}
}

func TestIsAuthenticatedWithoutCookie(t *testing.T) {
	withTestConfig(t, "test-secret")

	r := httptest.NewRequest(http.MethodGet, "/admin/matches", nil)
	if IsAuthenticated(r) {
		t.Error("expected request without cookie to be unauthenticated")
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	withTestConfig(t, "test-secret")

	w := httptest.NewRecorder()
	if err := CreateSession(w); err != nil {
		t.Fatalf("create session: %v", err)
	}
	value := w.Result().Cookies()[0].Value

	// Replace the payload, keep the signature.
	parts := strings.SplitN(value, ".", 2)
	forged, _ := json.Marshal(adminSession{ExpiresAt: time.Now().Add(24 * time.Hour).Unix()})
	tampered := base64.RawURLEncoding.EncodeToString(forged) + "." + parts[1]

	if IsAuthenticated(requestWithSessionCookie(t, tampered)) {
		t.Error("expected tampered cookie to be rejected")
	}
}

func TestCookieSignedWithOtherSecretRejected(t *testing.T) {
	withTestConfig(t, "secret-one")
	w := httptest.NewRecorder()
	if err := CreateSession(w); err != nil {
		t.Fatalf("create session: %v", err)
	}
	value := w.Result().Cookies()[0].Value

	withTestConfig(t, "secret-two")
	if IsAuthenticated(requestWithSessionCookie(t, value)) {
		t.Error("expected cookie signed with a different secret to be rejected")
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	withTestConfig(t, "test-secret")

	payload, _ := json.Marshal(adminSession{ExpiresAt: time.Now().Add(-time.Minute).Unix()})
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encoded)
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}

	if IsAuthenticated(requestWithSessionCookie(t, encoded+"."+signature)) {
		t.Error("expected expired session to be rejected")
	}
}

func TestMalformedCookieRejected(t *testing.T) {
	withTestConfig(t, "test-secret")

	for _, value := range []string{"", "garbage", "only-one-part", "a.b.c"} {
		if IsAuthenticated(requestWithSessionCookie(t, value)) {
			t.Errorf("expected malformed cookie %q to be rejected", value)
		}
	}
}

func TestClearSessionExpiresCookie(t *testing.T) {
	withTestConfig(t, "test-secret")

	w := httptest.NewRecorder()
	ClearSession(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("expected MaxAge -1, got %d", cookies[0].MaxAge)
	}
}
