package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookdesk-service/internal/apiclient"
	"bookdesk-service/internal/domain/auth"
	xerrors "bookdesk-service/internal/pkg/errors"
	"bookdesk-service/internal/pkg/session"
	"bookdesk-service/internal/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, handler http.HandlerFunc) (*AuthService, *session.Manager, *storage.Memory) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := storage.NewMemory()
	mgr, err := session.NewManager(context.Background(), store, zap.NewNop())
	require.NoError(t, err)

	api := apiclient.New(apiclient.Config{BaseURL: srv.URL}, mgr, zap.NewNop())
	return NewAuthService(api, mgr, zap.NewNop()), mgr, store
}

func TestLoginStoresTokenAndUser(t *testing.T) {
	svc, mgr, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"token":"tok-1","user":{"id":5,"email":"a@b.c","avatar":"a.png"}}}`))
	})

	view, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.True(t, view.IsAuthenticated)
	assert.Equal(t, "a.png", view.UserAvatar)
	assert.Equal(t, "tok-1", mgr.Token())
	v, ok, _ := store.Get(context.Background(), storage.KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)
}

func TestLoginRejected(t *testing.T) {
	svc, mgr, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	})

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "a@b.c", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Login failed: HTTP 401: invalid credentials", err.Error())
	assert.False(t, mgr.IsAuthenticated())
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	svc, mgr, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, mgr.SetToken(context.Background(), "tok"))

	res := svc.Logout(context.Background())

	assert.True(t, res.Success)
	assert.False(t, mgr.IsAuthenticated())
	assert.Equal(t, 0, store.Len())
}

func TestLoadProfileRequiresSession(t *testing.T) {
	svc, _, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called")
	})

	_, err := svc.LoadProfile(context.Background())
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestLoadProfileSetsUser(t *testing.T) {
	svc, mgr, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"id":9,"full_name":"Grace"}}`))
	})
	require.NoError(t, mgr.SetToken(context.Background(), "tok"))

	user, err := svc.LoadProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.FullName)
	assert.Equal(t, "Grace", mgr.User().FullName)
}
