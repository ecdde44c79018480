package handler

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog/log"

	"restaurant-ordering-server/internal/auth"
)

type ctxKey int

const identityKey ctxKey = 0

// identityFrom returns the authenticated identity, if any.
func identityFrom(r *http.Request) *auth.Identity {
	id, _ := r.Context().Value(identityKey).(*auth.Identity)
	return id
}

func withIdentity(r *http.Request, id *auth.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Recoverer turns panics into 500 responses.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("handler panicked")
				respondWithError(w, http.StatusInternalServerError, "服务器错误")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid bearer token and injects
// the identity into the request context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "未提供认证令牌")
			return
		}
		id, err := h.tokens.Parse(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "无效或过期的令牌")
			return
		}
		next.ServeHTTP(w, withIdentity(r, id))
	})
}

// OptionalAuth injects the identity when a valid token is present and
// passes the request through otherwise.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if id, err := h.tokens.Parse(token); err == nil {
				r = withIdentity(r, id)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin identities. Must run after RequireAuth.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identityFrom(r)
		if id == nil || !id.IsAdmin {
			respondWithError(w, http.StatusForbidden, "需要管理员权限")
			return
		}
		next.ServeHTTP(w, r)
	})
}
