package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/collegecounter/ccweb/internal/ratelimit"
	authtempl "github.com/collegecounter/ccweb/internal/templates/components/auth"
)

var limiter *ratelimit.Limiter

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(cfg *ratelimit.Config) {
	limiter = ratelimit.New(cfg)
}

// GET /admin/login
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if IsAuthenticated(r) {
		http.Redirect(w, r, "/admin/matches", http.StatusSeeOther)
		return
	}
	component := authtempl.LoginPage("")
	component.Render(r.Context(), w)
}

// POST /admin/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if limiter == nil || appConfig == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	ip := ratelimit.ClientIP(r)
	if result := limiter.CheckLogin(ip); !result.Allowed {
		logger.Warn().Str("reason", result.Reason).Msg("Login attempt rate limited")
		w.WriteHeader(http.StatusTooManyRequests)
		component := authtempl.LoginPage(retryMessage(result.RetryAfter))
		component.Render(r.Context(), w)
		return
	}

	password := r.PostFormValue("password")
	if !VerifyPassword(appConfig.Admin.PasswordHash, password) {
		lockedOut := limiter.RecordFailure(ip)
		logger.Warn().Bool("locked_out", lockedOut).Msg("Failed admin login")
		w.WriteHeader(http.StatusUnauthorized)
		component := authtempl.LoginPage("Wrong password")
		component.Render(r.Context(), w)
		return
	}

	limiter.ResetAttempts(ip)
	if err := CreateSession(w); err != nil {
		logger.Error().Err(err).Msg("Failed to create admin session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Msg("Admin logged in")
	http.Redirect(w, r, "/admin/matches", http.StatusSeeOther)
}

// POST /admin/logout
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func retryMessage(retryAfter time.Duration) string {
	wait := retryAfter.Round(time.Second)
	if wait < time.Second {
		wait = time.Second
	}
	return fmt.Sprintf("Too many attempts, try again in %s", wait)
}
