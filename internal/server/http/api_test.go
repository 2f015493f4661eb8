package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		result models.AuthenticationResult
		err    error
		want   int
	}{
		{name: "ok", result: models.AuthOk, want: http.StatusOK},
		{name: "no such user", result: models.AuthNoSuchUser, want: http.StatusBadRequest},
		{name: "login disabled", result: models.AuthLoginDisabled, want: http.StatusForbidden},
		{name: "incorrect password", result: models.AuthIncorrectPassword, want: http.StatusUnauthorized},
		{name: "internal error", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.verifyResult, store.verifyErr = tt.result, tt.err
			s := newTestServer(store)

			w := do(t, s, http.MethodPost, "/api/authenticate", nil, map[string]string{"user": "alice", "password": "pw"})
			assert.Equal(t, tt.want, w.Code)
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}

func TestAuthenticate_UsesUsernameVerbatim(t *testing.T) {
	store := newFakeStore()
	store.addUser("bob", false)
	store.addUser("bob@corp", false)
	s := newTestServer(store)

	w := do(t, s, http.MethodPost, "/api/authenticate", nil, map[string]string{"user": "bob@corp", "password": "pw"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob@corp", store.verifiedAs)
}

func TestAuthenticate_EmptyUserIsUnknownUser(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	w := do(t, s, http.MethodPost, "/api/authenticate", nil, map[string]string{"user": "", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.verifiedAs)
}

func TestAuthenticate_FormEncoded(t *testing.T) {
	store := newFakeStore()
	store.verifyResult = models.AuthIncorrectPassword
	s := newTestServer(store)

	form := url.Values{"user": {"bob"}, "password": {"nope"}}
	req, _ := http.NewRequest(http.MethodPost, "/api/authenticate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := newRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "bob", store.verifiedAs)
}

func TestAuthenticate_MalformedBody(t *testing.T) {
	s := newTestServer(newFakeStore())

	req, _ := http.NewRequest(http.MethodPost, "/api/authenticate", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := newRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserLookup(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", false)
	s := newTestServer(store)

	w := do(t, s, http.MethodPost, "/api/user_lookup", nil, map[string]string{"user": "alice"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.User](t, w)
	assert.Equal(t, alice.ID, got.ID)
	assert.NotContains(t, w.Body.String(), "hash")

	w = do(t, s, http.MethodPost, "/api/user_lookup", nil, map[string]string{"user": "nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	store.failWith = errors.New("db down")
	w = do(t, s, http.MethodPost, "/api/user_lookup", nil, map[string]string{"user": "alice"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUserLookup_AtSignIsPartOfTheName(t *testing.T) {
	store := newFakeStore()
	store.addUser("bob", false)
	corp := store.addUser("bob@corp", false)
	s := newTestServer(store)

	w := do(t, s, http.MethodPost, "/api/user_lookup", nil, map[string]string{"user": "bob@corp"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, corp.ID, decode[models.User](t, w).ID)

	w = do(t, s, http.MethodPost, "/api/user_lookup", nil, map[string]string{"user": "carol@corp"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
