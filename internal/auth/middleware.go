package auth

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/mikelabs-llc/schoolgate-pass/internal/httputil"
)

type contextKey string

const (
	roleKey      contextKey = "role"
	subjectKey   contextKey = "subject"
	profileIDKey contextKey = "profile_id"
	studentIDKey contextKey = "student_id"
)

// Middleware validates the access token (cookie or bearer header) and
// requires the given role. Claims are bound to the request context.
func Middleware(tokens *TokenManager, role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				logger.Warn("no auth token found", "path", r.URL.Path)
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				logger.Warn("invalid token", "error", err)
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if claims.Role != role {
				logger.Warn("wrong session role", "path", r.URL.Path, "role", claims.Role)
				httputil.RespondWithError(w, http.StatusForbidden, "forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), roleKey, claims.Role)
			ctx = context.WithValue(ctx, subjectKey, claims.Subject)
			if claims.ProfileID != "" {
				ctx = context.WithValue(ctx, profileIDKey, claims.ProfileID)
			}
			if claims.StudentID != 0 {
				ctx = context.WithValue(ctx, studentIDKey, claims.StudentID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// SubjectFromContext extracts the session subject (staff display identity or
// parent child UID).
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// ProfileIDFromContext extracts the staff profile id.
func ProfileIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(profileIDKey).(string)
	return id, ok
}

// StudentIDFromContext extracts the student id a parent session is scoped to.
func StudentIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(studentIDKey).(int)
	return id, ok
}

// ContextWithParentSession binds a parent session to a context directly.
// Tests use it to call parent handlers without a live token.
func ContextWithParentSession(ctx context.Context, studentID int, childUID string) context.Context {
	ctx = context.WithValue(ctx, roleKey, RoleParent)
	ctx = context.WithValue(ctx, subjectKey, childUID)
	return context.WithValue(ctx, studentIDKey, studentID)
}

// ContextWithStaffSession binds a staff session to a context directly.
func ContextWithStaffSession(ctx context.Context, profileID, subject string) context.Context {
	ctx = context.WithValue(ctx, roleKey, RoleStaff)
	ctx = context.WithValue(ctx, subjectKey, subject)
	return context.WithValue(ctx, profileIDKey, profileID)
}

// SetAuthCookie sets the access token in a secure HttpOnly cookie.
func SetAuthCookie(w http.ResponseWriter, token string) {
	sameSite := http.SameSiteStrictMode
	env := os.Getenv("ENV")
	if env == "development" || env == "local" {
		sameSite = http.SameSiteLaxMode // allow testing from Postman
	}

	secure := env == "prod" || env == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Path:     "/",
		MaxAge:   900, // 15 minutes
	})
}

// ClearAuthCookie removes the auth cookie.
func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		HttpOnly: true,
		Secure:   os.Getenv("ENV") != "local",
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
