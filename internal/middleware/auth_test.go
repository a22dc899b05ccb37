package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"themepark-ticketing-platform/internal/models"
)

type fakeUserLoader struct {
	users map[int]*models.User
}

func (f *fakeUserLoader) GetByID(id int) (*models.User, error) {
	user, exists := f.users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func newTestAuthMiddleware() (*AuthMiddleware, sessions.Store) {
	store := sessions.NewCookieStore([]byte("test-secret"))
	loader := &fakeUserLoader{users: map[int]*models.User{
		1: {ID: 1, Email: "guest@example.com", Name: "Jordan Park"},
	}}
	return NewAuthMiddleware(store, loader), store
}

// sessionCookie mints a session cookie carrying the given user id.
func sessionCookie(t *testing.T, store sessions.Store, userID int) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	session, err := store.Get(req, SessionName)
	require.NoError(t, err)
	session.Values["user_id"] = userID
	require.NoError(t, session.Save(req, rec))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestLoadUser_WithValidSession(t *testing.T) {
	mw, store := newTestAuthMiddleware()

	var got *models.User
	handler := mw.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, store, 1))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID)
}

func TestLoadUser_NoSessionPassesThroughAnonymously(t *testing.T) {
	mw, _ := newTestAuthMiddleware()

	called := false
	handler := mw.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, GetUserFromContext(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestLoadUser_UnknownUserPassesThroughAnonymously(t *testing.T) {
	mw, store := newTestAuthMiddleware()

	called := false
	handler := mw.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, GetUserFromContext(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, store, 99))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetUserInContext(req.Context(), &models.User{ID: 1}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUserFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUserFromContext(req.Context()))
}
