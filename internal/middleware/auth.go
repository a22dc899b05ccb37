package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"themepark-ticketing-platform/internal/models"
)

type contextKey string

// UserContextKey is the context key for the authenticated user
const UserContextKey contextKey = "user"

// SessionName is the cookie name for the session
const SessionName = "session"

// UserLoader resolves a user id from the session into a full user.
type UserLoader interface {
	GetByID(id int) (*models.User, error)
}

// AuthMiddleware resolves the current user from the session cookie
type AuthMiddleware struct {
	store sessions.Store
	users UserLoader
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(store sessions.Store, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{
		store: store,
		users: users,
	}
}

// LoadUser puts the authenticated user (if any) into the request context.
// Requests without a valid session pass through anonymously.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := session.Values["user_id"].(int)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetByID(userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without an authenticated user
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext retrieves the user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetUserInContext adds a user to the context (used by tests)
func SetUserInContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}
