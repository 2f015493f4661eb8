package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/server/identity"
	"github.com/dmitrijs2005/mailpasswd/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorder() *httptest.ResponseRecorder { return httptest.NewRecorder() }

func TestDashboard_IdentityRejections(t *testing.T) {
	store := newFakeStore()
	store.addUser("vsh", false)
	s := newTestServer(store)

	noCert := http.Header{}
	noCert.Set(common.VerifyHeaderName, common.VerifyNone)
	revoked := http.Header{}
	revoked.Set(common.VerifyHeaderName, "FAILED:certificate revoked")
	noUID := http.Header{}
	noUID.Set(common.VerifyHeaderName, common.VerifySuccess)
	noUID.Set(common.ClientDNHeaderName, "O = X, CN = Y")

	tests := []struct {
		name string
		h    http.Header
		want int
	}{
		{name: "no certificate", h: noCert, want: http.StatusUnauthorized},
		{name: "revoked", h: revoked, want: http.StatusForbidden},
		{name: "no uid", h: noUID, want: http.StatusBadRequest},
		{name: "unknown user", h: asUID("eve"), want: http.StatusUnauthorized},
	}
	if !identity.DevBypass {
		tests = append(tests, struct {
			name string
			h    http.Header
			want int
		}{name: "proxy misconfigured", h: http.Header{}, want: http.StatusInternalServerError})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, "/", tt.h, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestDashboard_ProxyMisconfiguredBody(t *testing.T) {
	if identity.DevBypass {
		t.Skip("bypass substitutes an identity")
	}
	s := newTestServer(newFakeStore())

	w := do(t, s, http.MethodGet, "/", http.Header{}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, identity.ProxyMisconfiguredMessage, w.Body.String())
}

func TestDashboard_StorageFailure(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("db down")
	s := newTestServer(store)

	w := do(t, s, http.MethodGet, "/", asUID("vsh"), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestDashboard_ListsOwnPasswords(t *testing.T) {
	store := newFakeStore()
	u := store.addUser("vsh", false)
	other := store.addUser("eve", false)
	_, _ = store.NewPassword(context.Background(), u.ID, "phone", nil)
	_, _ = store.NewPassword(context.Background(), other.ID, "laptop", nil)
	s := newTestServer(store)

	w := do(t, s, http.MethodGet, "/", asUID("vsh"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[dashboardResponse](t, w)
	assert.Equal(t, "vsh", got.User.Username)
	require.Len(t, got.Passwords, 1)
	assert.Equal(t, "phone", got.Passwords[0].Label)
}

func TestDashboard_NonHumanForbidden(t *testing.T) {
	store := newFakeStore()
	store.addUser("bot", true)
	s := newTestServer(store, "bot")

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodPost, "/create_password"},
		{http.MethodPost, "/delete_password"},
	} {
		w := do(t, s, route.method, route.path, asUID("bot"), map[string]string{"label": "x"})
		assert.Equal(t, http.StatusForbidden, w.Code, route.path)
		assert.Equal(t, nonHumanDashboardMessage, w.Body.String())
	}
	assert.Empty(t, store.created)
}

func TestCreatePassword(t *testing.T) {
	store := newFakeStore()
	u := store.addUser("vsh", false)
	s := newTestServer(store)

	w := do(t, s, http.MethodPost, "/create_password", asUID("vsh"), map[string]string{"label": "phone", "expires_in": "month"})
	require.Equal(t, http.StatusCreated, w.Code)

	got := decode[newPasswordResponse](t, w)
	assert.Equal(t, "generated-secret", got.Password)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, timex.Days(testNow, 30).Equal(*got.ExpiresAt))
	assert.Equal(t, u.ID, store.created[0].UserID)

	w = do(t, s, http.MethodPost, "/create_password", asUID("vsh"), map[string]string{"label": "phone"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreatePassword_BadInput(t *testing.T) {
	store := newFakeStore()
	store.addUser("vsh", false)
	s := newTestServer(store)

	w := do(t, s, http.MethodPost, "/create_password", asUID("vsh"), map[string]string{"label": "phone", "expires_in": "decade"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/create_password", asUID("vsh"), map[string]string{"expires_in": "week"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.created)
}

func TestDeletePassword_Idempotent(t *testing.T) {
	store := newFakeStore()
	u := store.addUser("vsh", false)
	_, _ = store.NewPassword(context.Background(), u.ID, "phone", nil)
	s := newTestServer(store)

	for i := 0; i < 2; i++ {
		w := do(t, s, http.MethodPost, "/delete_password", asUID("vsh"), map[string]string{"label": "phone"})
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Empty(t, store.passwords[u.ID])
}

func TestParseExpiresIn(t *testing.T) {
	for in, days := range map[string]int{"week": 7, "month": 30, "sixmonths": 180, "year": 365} {
		got, err := parseExpiresIn(in, testNow)
		require.NoError(t, err)
		assert.Equal(t, timex.Days(testNow, days), *got, in)
	}
	for _, in := range []string{"", "noexpiry"} {
		got, err := parseExpiresIn(in, testNow)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	_, err := parseExpiresIn("forever", testNow)
	assert.Error(t, err)
}

func TestParseExpiresAt(t *testing.T) {
	got, err := parseExpiresAt("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseExpiresAt("2026-01-02T03:04:05+02:00")
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())

	_, err = parseExpiresAt("next tuesday")
	assert.Error(t, err)
}
