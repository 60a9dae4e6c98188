package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/auth"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/backend"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/metrics"
	"go.uber.org/zap"
)

// SessionClaims only carries the session id (jti). The session itself stays
// in the store.
type SessionClaims struct {
	jwt.RegisteredClaims
}

func (h *Handler) sessionExpiration() time.Duration {
	return time.Duration(h.config.Session.Expiration) * time.Second
}

func (h *Handler) signSessionCookie(sid string) (string, time.Time, error) {
	now := time.Now()
	expiration := now.Add(h.sessionExpiration())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})
	ss, err := token.SignedString(h.cookieKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return ss, expiration, nil
}

func (h *Handler) parseSessionCookie(value string) (string, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return h.cookieKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("session cookie without id")
	}
	return claims.ID, nil
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     h.config.Session.CookieName,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}

	if h.config.IsProduction() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "ok", nil)
}

// LoginPage describes the login form. Users who already have a session are
// sent to the landing page instead.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if currentSession(r.Context()) != nil {
		http.Redirect(w, r, landingPath, http.StatusSeeOther)
		return
	}

	h.successResponse(w, r, "login required", map[string]any{
		"roles": domain.Roles(),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,max=100"`
		Password string `json:"password" validate:"required,max=200"`
		Role     string `json:"role" validate:"omitempty,max=20"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// a successful login always gets a new id; the inbound one is dropped below
	sid := uuid.NewString()

	sess, err := h.auth.Login(r.Context(), sid, auth.Credentials{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		metrics.Logins.WithLabelValues(metrics.ResultFailed).Inc()
		h.recordActivity(req.Username, domain.ActionLoginFailed, "", err.Error())

		switch {
		case backend.IsUnauthorized(err):
			h.errorResponse(w, r, "invalid username or password")
		case errors.Is(err, domain.ErrUnknownRole):
			h.errorResponse(w, r, "unknown role")
		case errors.Is(err, auth.ErrMissingCredentials), errors.Is(err, auth.ErrEmptyToken):
			h.errorResponse(w, r, err.Error())
		default:
			h.backendError(w, r, err)
		}
		return
	}

	ss, expiration, err := h.signSessionCookie(sid)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	h.setSessionCookie(w, ss, expiration)

	if prev := currentSessionID(r.Context()); prev != "" {
		if err := h.auth.Logout(r.Context(), prev); err != nil {
			h.log.Warn("could not clear previous session", zap.Error(err))
		}
	}

	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	h.recordActivity(sess.User.Username, domain.ActionLogin, "", string(sess.User.Role))

	h.successResponse(w, r, "logged in", sess.User)
}

// Logout forgets the session locally. The backend token is not revoked.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := currentSessionID(r.Context()); sid != "" {
		if err := h.auth.Logout(r.Context(), sid); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	if sess := currentSession(r.Context()); sess != nil {
		h.recordActivity(sess.User.Username, domain.ActionLogout, "", "")
	}

	h.setSessionCookie(w, "", time.Now().Add(-time.Hour))
	h.successResponse(w, r, "logged out", nil)
}

// recordActivity appends to the audit trail. Failures are logged only.
func (h *Handler) recordActivity(username string, action domain.ActivityAction, target, detail string) {
	a := &domain.Activity{
		Username: username,
		Action:   action,
		Target:   target,
		Detail:   detail,
	}
	if err := h.repository.CreateActivity(a); err != nil {
		h.log.Warn("could not record activity", zap.String("action", string(action)), zap.Error(err))
	}
}
