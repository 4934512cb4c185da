package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/collegecounter/ccweb/internal/ratelimit"
)

func setupLoginTest(t *testing.T, password string) {
	t.Helper()
	withTestConfig(t, "test-secret")

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	appConfig.Admin.PasswordHash = hash

	prevLimiter := limiter
	InitHandlers(&ratelimit.Config{
		MaxAttempts:  3,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 30,
	})
	t.Cleanup(func() {
		limiter.Close()
		limiter = prevLimiter
	})
}

func postLogin(t *testing.T, password, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	HandleLogin(w, r)
	return w
}

func TestHandleLoginSuccess(t *testing.T) {
	setupLoginTest(t, "correct horse")

	w := postLogin(t, "correct horse", "198.51.100.1:1234")

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/matches" {
		t.Errorf("expected redirect to /admin/matches, got %q", loc)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName {
		t.Fatal("expected a session cookie on successful login")
	}
}

func TestHandleLoginWrongPassword(t *testing.T) {
	setupLoginTest(t, "correct horse")

	w := postLogin(t, "wrong", "198.51.100.2:1234")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("expected no session cookie on failed login")
	}
	if !strings.Contains(w.Body.String(), "Wrong password") {
		t.Error("expected the wrong-password message in the response")
	}
}

func TestHandleLoginRateLimited(t *testing.T) {
	setupLoginTest(t, "correct horse")
	addr := "198.51.100.3:1234"

	for i := 0; i < 3; i++ {
		if w := postLogin(t, "wrong", addr); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}

	// Locked out now; even the right password is refused.
	w := postLogin(t, "correct horse", addr)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after lockout, got %d", w.Code)
	}
}

func TestHandleLoginPageRedirectsWhenAuthenticated(t *testing.T) {
	setupLoginTest(t, "correct horse")

	sw := httptest.NewRecorder()
	if err := CreateSession(sw); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookie := sw.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	HandleLoginPage(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
}

func TestHandleLogoutClearsSession(t *testing.T) {
	setupLoginTest(t, "correct horse")

	r := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	w := httptest.NewRecorder()
	HandleLogout(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Error("expected an expired session cookie")
	}
}
