package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/collegecounter/ccweb/internal/config"
)

const (
	sessionCookieName = "ccweb_admin"
	defaultSessionTTL = 8 * time.Hour
)

var errAuthConfigMissing = errors.New("auth configuration missing")

var appConfig *config.Config

// Init wires the loaded configuration into the auth package. Must be called
// during server startup before handling requests.
func Init(cfg *config.Config) {
	appConfig = cfg
}

// adminSession is the signed cookie payload. There is a single admin
// principal, so the session carries only its expiry.
type adminSession struct {
	ExpiresAt int64 `json:"exp"`
}

func sessionTTL() time.Duration {
	if appConfig != nil && appConfig.Admin.SessionTTL > 0 {
		return appConfig.Admin.SessionTTL
	}
	return defaultSessionTTL
}

func isSecureCookie() bool {
	return appConfig == nil || appConfig.App.Environment != "development"
}

// CreateSession issues a signed admin session cookie.
func CreateSession(w http.ResponseWriter) error {
	if w == nil {
		return errors.New("session requires response writer")
	}
	if appConfig == nil || appConfig.App.SecretKey == "" {
		return errAuthConfigMissing
	}

	expiresAt := time.Now().Add(sessionTTL())
	payload, err := json.Marshal(adminSession{ExpiresAt: expiresAt.Unix()})
	if err != nil {
		return err
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encodedPayload)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encodedPayload + "." + signature,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(sessionTTL().Seconds()),
	})

	return nil
}

// ClearSession expires the admin session cookie.
func ClearSession(w http.ResponseWriter) {
	if w == nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// IsAuthenticated reports whether the request carries a valid, unexpired
// admin session cookie.
func IsAuthenticated(r *http.Request) bool {
	session, err := parseSessionCookie(r)
	return err == nil && session != nil
}

func parseSessionCookie(r *http.Request) (*adminSession, error) {
	if r == nil {
		return nil, nil
	}

	if appConfig == nil || appConfig.App.SecretKey == "" {
		return nil, errAuthConfigMissing
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	parts := strings.SplitN(cookie.Value, ".", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid session cookie")
	}

	encodedPayload := parts[0]
	signature := parts[1]
	expectedSignature, err := signPayload(encodedPayload)
	if err != nil {
		return nil, err
	}

	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return nil, errors.New("invalid session cookie signature")
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, err
	}

	var session adminSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}

	if session.ExpiresAt <= time.Now().Unix() {
		return nil, errors.New("session expired")
	}

	return &session, nil
}

func signPayload(payload string) (string, error) {
	if appConfig == nil || appConfig.App.SecretKey == "" {
		return "", errAuthConfigMissing
	}

	mac := hmac.New(sha256.New, []byte(appConfig.App.SecretKey))
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
