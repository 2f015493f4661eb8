package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/cryptox"
	"github.com/dmitrijs2005/mailpasswd/internal/dbx"
	"github.com/dmitrijs2005/mailpasswd/internal/logging"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	aliasesrepo "github.com/dmitrijs2005/mailpasswd/internal/server/repositories/aliases"
	passwordsrepo "github.com/dmitrijs2005/mailpasswd/internal/server/repositories/passwords"
	usersrepo "github.com/dmitrijs2005/mailpasswd/internal/server/repositories/users"
	"github.com/google/uuid"
)

// memState backs the fake repositories. Every repository records the DBTX
// it was bound to in bindings; data lives in memory either way.
type memState struct {
	mu        sync.Mutex
	bindings  []binding
	users     []models.User
	passwords []memPassword
	aliases   []models.Alias

	migrateErr error
	migrations int
	failWith   error
}

type memPassword struct {
	models.Password
	hash string
}

type binding struct {
	repo string
	db   dbx.DBTX
}

func (st *memState) bind(repo string, db dbx.DBTX) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.bindings = append(st.bindings, binding{repo: repo, db: db})
}

// takeBindings returns the recorded bindings and forgets them.
func (st *memState) takeBindings() []binding {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := st.bindings
	st.bindings = nil
	return out
}

type fakeRepoManager struct{ st *memState }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	m.st.migrations++
	return m.st.migrateErr
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	m.st.bind("users", db)
	return &fakeUsers{m.st}
}

func (m *fakeRepoManager) Passwords(db dbx.DBTX) passwordsrepo.Repository {
	m.st.bind("passwords", db)
	return &fakePasswords{m.st}
}

func (m *fakeRepoManager) Aliases(db dbx.DBTX) aliasesrepo.Repository {
	m.st.bind("aliases", db)
	return &fakeAliases{m.st}
}

type fakeUsers struct{ st *memState }

func (f *fakeUsers) Create(_ context.Context, username string, expiresAt *time.Time, nonHuman bool) (uuid.UUID, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.failWith != nil {
		return uuid.Nil, f.st.failWith
	}
	for _, u := range f.st.users {
		if u.Username == username {
			return uuid.Nil, common.ErrorAlreadyExists
		}
	}
	u := models.User{ID: uuid.New(), Username: username, LoginAllowed: true, CreatedAt: time.Now(), ExpiresAt: expiresAt, NonHuman: nonHuman}
	f.st.users = append(f.st.users, u)
	return u.ID, nil
}

func (f *fakeUsers) find(match func(models.User) bool) (*models.User, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.failWith != nil {
		return nil, f.st.failWith
	}
	for _, u := range f.st.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.ID == id })
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	out := append([]models.User{}, f.st.users...)
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUsers) update(id uuid.UUID, fn func(*models.User)) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for i := range f.st.users {
		if f.st.users[i].ID == id {
			fn(&f.st.users[i])
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsers) ToggleLoginAllowed(_ context.Context, id uuid.UUID) error {
	return f.update(id, func(u *models.User) { u.LoginAllowed = !u.LoginAllowed })
}

func (f *fakeUsers) SetExpiry(_ context.Context, id uuid.UUID, expiresAt *time.Time) error {
	return f.update(id, func(u *models.User) { u.ExpiresAt = expiresAt })
}

func (f *fakeUsers) LoginState(_ context.Context, username string, now time.Time) (uuid.UUID, bool, error) {
	u, err := f.find(func(u models.User) bool { return u.Username == username })
	if err != nil {
		return uuid.Nil, false, err
	}
	return u.ID, u.LoginAllowed && !u.Expired(now), nil
}

type fakePasswords struct{ st *memState }

func (f *fakePasswords) Create(_ context.Context, userID uuid.UUID, label, hash string, expiresAt *time.Time) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for _, p := range f.st.passwords {
		if p.UserID == userID && p.Label == label {
			return common.ErrorAlreadyExists
		}
	}
	f.st.passwords = append(f.st.passwords, memPassword{
		Password: models.Password{UserID: userID, Label: label, CreatedAt: time.Now(), ExpiresAt: expiresAt},
		hash:     hash,
	})
	return nil
}

func (f *fakePasswords) Delete(_ context.Context, userID uuid.UUID, label string) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	kept := f.st.passwords[:0]
	for _, p := range f.st.passwords {
		if p.UserID != userID || p.Label != label {
			kept = append(kept, p)
		}
	}
	f.st.passwords = kept
	return nil
}

func (f *fakePasswords) List(_ context.Context, userID uuid.UUID) ([]models.Password, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	out := make([]models.Password, 0)
	for _, p := range f.st.passwords {
		if p.UserID == userID {
			out = append(out, p.Password)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (f *fakePasswords) ScanActiveHashes(_ context.Context, userID uuid.UUID, now time.Time, fn passwordsrepo.HashFunc) error {
	f.st.mu.Lock()
	var hashes []string
	for _, p := range f.st.passwords {
		if p.UserID == userID && (p.ExpiresAt == nil || p.ExpiresAt.After(now)) {
			hashes = append(hashes, p.hash)
		}
	}
	f.st.mu.Unlock()

	for _, h := range hashes {
		done, err := fn(h)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return nil
}

type fakeAliases struct{ st *memState }

func (f *fakeAliases) Add(_ context.Context, name string, destination uuid.UUID) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	known := false
	for _, u := range f.st.users {
		known = known || u.ID == destination
	}
	if !known {
		return common.ErrorNotFound
	}
	for _, a := range f.st.aliases {
		if a.Name == name && a.Destination == destination {
			return nil
		}
	}
	f.st.aliases = append(f.st.aliases, models.Alias{Name: name, Destination: destination})
	return nil
}

func (f *fakeAliases) Remove(_ context.Context, name string, destination uuid.UUID) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	kept := f.st.aliases[:0]
	for _, a := range f.st.aliases {
		if a.Name != name || a.Destination != destination {
			kept = append(kept, a)
		}
	}
	f.st.aliases = kept
	return nil
}

func (f *fakeAliases) List(context.Context) ([]models.Alias, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	out := append([]models.Alias{}, f.st.aliases...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// newTestStore returns a migrated store over memState and a sqlmock used for
// the transactions VerifyPassword opens.
func newTestStore(t *testing.T) (*CredentialStore, *memState, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("sql expectations: %v", err)
		}
		db.Close()
	})

	st := &memState{}
	hasher := cryptox.NewHasher(cryptox.WithMemory(1024), cryptox.WithTime(1), cryptox.WithThreads(1))
	created := NewCreatedStore(db, &fakeRepoManager{st: st}, hasher, logging.Nop{})

	s, err := created.RunMigrations(context.Background())
	if err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	return s, st, mock
}

// expectVerifyTx registers the begin/commit pair of one VerifyPassword call.
func expectVerifyTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}
