package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/auth"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/metrics"
	"go.uber.org/zap"
)

const (
	loginPath   = "/login"
	landingPath = "/dashboard"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rw.StatusCode)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method).Observe(duration.Seconds())
		h.log.Info("request handled",
			zap.Int("status", rw.StatusCode),
			zap.String("ip", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", duration))
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// session hydrates the request context from the session cookie before any
// handler runs. Every failure leaves the request anonymous.
func (h *Handler) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.config.Session.CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sid, err := h.parseSessionCookie(cookie.Value)
		if err != nil {
			h.log.Debug("ignoring invalid session cookie", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDCtxKey, sid)

		sess, err := h.auth.Current(r.Context(), sid)
		if err != nil {
			h.log.Warn("session store unavailable", zap.Error(err))
		} else if sess != nil {
			ctx = context.WithValue(ctx, SessionCtxKey, sess)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSession sends anonymous requests to the login page. 303 makes the
// browser follow with a GET and keeps the protected URL out of history.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentSession(r.Context()) == nil {
			metrics.GuardDecisions.WithLabelValues("", metrics.GuardToLogin).Inc()
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequiredRole sends users below role back to the landing page. Insufficient
// privilege is never reported as an error.
func (h *Handler) RequiredRole(role domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := currentSession(r.Context())
			switch {
			case sess == nil:
				metrics.GuardDecisions.WithLabelValues(string(role), metrics.GuardToLogin).Inc()
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			case !auth.HasRole(sess, role):
				metrics.GuardDecisions.WithLabelValues(string(role), metrics.GuardToDashboard).Inc()
				h.log.Debug("insufficient role",
					zap.String("username", sess.User.Username),
					zap.String("role", string(sess.User.Role)),
					zap.String("required", string(role)),
					zap.String("path", r.URL.Path))
				http.Redirect(w, r, landingPath, http.StatusSeeOther)
				return
			}

			metrics.GuardDecisions.WithLabelValues(string(role), metrics.GuardAllowed).Inc()
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) transferID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			h.errorResponse(w, r, "invalid transfer id")
			return
		}

		ctx := context.WithValue(r.Context(), TransferIDCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
