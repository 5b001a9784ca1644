package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okulikov/handtext/internal/backend"
	"github.com/okulikov/handtext/internal/client/async"
	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewText(testWriter{}, slog.LevelError)
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

// ---- fakes ----

type fakeIdentity struct {
	mu sync.Mutex

	authCalls   int
	createCalls int

	cred      backend.Credential
	authErr   error
	createErr error

	// When set, Authenticate blocks: it signals on entered and waits for
	// release before returning.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeIdentity) Authenticate(ctx context.Context, email, password string) (backend.Credential, error) {
	f.mu.Lock()
	f.authCalls++
	cred, authErr := f.cred, f.authErr
	entered, release := f.entered, f.release
	f.entered, f.release = nil, nil
	f.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return cred, authErr
}

func (f *fakeIdentity) CreateIdentity(ctx context.Context, email, password string) (backend.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	return f.cred, f.createErr
}

type fakeDocs struct {
	mu       sync.Mutex
	setCalls int
	setErr   error
	lastDoc  map[string]string
	lastID   string
}

func (f *fakeDocs) GetDocument(ctx context.Context, collection, id string) (map[string]string, error) {
	return nil, common.ErrNotFound
}

func (f *fakeDocs) SetDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.lastID = id
	f.lastDoc = fields
	return f.setErr
}

func (f *fakeDocs) UpdateDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	return nil
}

func newManager(id *fakeIdentity, docs *fakeDocs) *Manager {
	return NewManager(id, docs, testLogger())
}

// ---- tests ----

func TestManager_StartsAnonymous(t *testing.T) {
	m := newManager(&fakeIdentity{}, &fakeDocs{})
	require.Equal(t, Session{Status: Anonymous}, m.Session())
	require.Equal(t, async.Idle, m.AuthState())
}

func TestSignIn_ValidationFailureMakesNoCall(t *testing.T) {
	id := &fakeIdentity{}
	m := newManager(id, &fakeDocs{})

	for _, tc := range []struct{ email, password string }{
		{"", "pw"},
		{"a@x.com", ""},
		{"", ""},
	} {
		err := m.SignIn(context.Background(), tc.email, tc.password)
		require.ErrorIs(t, err, common.ErrValidation)
	}

	require.Equal(t, 0, id.authCalls)
	require.Equal(t, Anonymous, m.Session().Status, "validation failure leaves the session untouched")
}

func TestSignIn_Success(t *testing.T) {
	id := &fakeIdentity{cred: backend.Credential{UserID: "u1", Email: "a@x.com"}}
	m := newManager(id, &fakeDocs{})

	require.NoError(t, m.SignIn(context.Background(), "a@x.com", "pw"))

	s := m.Session()
	require.Equal(t, Authenticated, s.Status)
	require.Equal(t, "u1", s.UserID)
	require.Equal(t, "a@x.com", s.Email)
	require.Equal(t, async.Succeeded, m.AuthState())
}

func TestSignIn_CollaboratorError(t *testing.T) {
	id := &fakeIdentity{authErr: common.ErrInvalidCredentials}
	m := newManager(id, &fakeDocs{})

	err := m.SignIn(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	s := m.Session()
	require.Equal(t, AuthFailed, s.Status)
	require.Empty(t, s.UserID, "userId stays none after a failed sign-in")
	require.ErrorIs(t, m.AuthErr(), common.ErrInvalidCredentials)
}

func TestSignIn_RetryAfterFailure(t *testing.T) {
	id := &fakeIdentity{authErr: common.ErrInvalidCredentials}
	m := newManager(id, &fakeDocs{})

	_ = m.SignIn(context.Background(), "a@x.com", "wrong")
	require.Equal(t, AuthFailed, m.Session().Status)

	id.authErr = nil
	id.cred = backend.Credential{UserID: "u1", Email: "a@x.com"}
	require.NoError(t, m.SignIn(context.Background(), "a@x.com", "right"))
	require.Equal(t, Authenticated, m.Session().Status)
}

func TestSignUp_ValidationFailureMakesNoCall(t *testing.T) {
	id := &fakeIdentity{}
	docs := &fakeDocs{}
	m := newManager(id, docs)

	complete := RegistrationFields{FullName: "Ana", Age: "30", Profession: "Engineer"}

	cases := []struct {
		email, password string
		fields          RegistrationFields
	}{
		{"", "pw", complete},
		{"a@x.com", "", complete},
		{"a@x.com", "pw", RegistrationFields{Age: "30", Profession: "Engineer"}},
		{"a@x.com", "pw", RegistrationFields{FullName: "Ana", Profession: "Engineer"}},
		{"a@x.com", "pw", RegistrationFields{FullName: "Ana", Age: "30"}},
	}
	for _, tc := range cases {
		err := m.SignUp(context.Background(), tc.email, tc.password, tc.fields)
		require.ErrorIs(t, err, common.ErrValidation)
	}

	require.Equal(t, 0, id.createCalls)
	require.Equal(t, 0, docs.setCalls)
}

func TestSignUp_CreatesIdentityAndProfileDocument(t *testing.T) {
	id := &fakeIdentity{cred: backend.Credential{UserID: "u1", Email: "a@x.com"}}
	docs := &fakeDocs{}
	m := newManager(id, docs)

	fields := RegistrationFields{FullName: "Ana", Age: "30", Profession: "Engineer"}
	require.NoError(t, m.SignUp(context.Background(), "a@x.com", "secret1", fields))

	require.Equal(t, 1, id.createCalls)
	require.Equal(t, "u1", docs.lastID)
	require.Equal(t, map[string]string{
		"fullName":   "Ana",
		"age":        "30",
		"profession": "Engineer",
		"email":      "a@x.com",
	}, docs.lastDoc)

	require.Equal(t, Authenticated, m.Session().Status)
}

func TestSignUp_PartialRegistration(t *testing.T) {
	id := &fakeIdentity{cred: backend.Credential{UserID: "u1", Email: "a@x.com"}}
	docs := &fakeDocs{setErr: errors.New("quota exceeded")}
	m := newManager(id, docs)

	fields := RegistrationFields{FullName: "Ana", Age: "30", Profession: "Engineer"}
	err := m.SignUp(context.Background(), "a@x.com", "secret1", fields)

	require.ErrorIs(t, err, common.ErrPartialRegistration)
	require.Equal(t, 1, id.createCalls, "identity was created")
	require.Equal(t, AuthFailed, m.Session().Status)
}

func TestSignUp_IdentityError(t *testing.T) {
	id := &fakeIdentity{createErr: common.ErrEmailTaken}
	docs := &fakeDocs{}
	m := newManager(id, docs)

	fields := RegistrationFields{FullName: "Ana", Age: "30", Profession: "Engineer"}
	err := m.SignUp(context.Background(), "a@x.com", "secret1", fields)

	require.ErrorIs(t, err, common.ErrEmailTaken)
	require.Equal(t, 0, docs.setCalls)
	require.Equal(t, AuthFailed, m.Session().Status)
}

func TestSignOut_ResetsToAnonymous(t *testing.T) {
	id := &fakeIdentity{cred: backend.Credential{UserID: "u1", Email: "a@x.com"}}
	m := newManager(id, &fakeDocs{})

	require.NoError(t, m.SignIn(context.Background(), "a@x.com", "pw"))
	m.SignOut()

	require.Equal(t, Session{Status: Anonymous}, m.Session())
	require.Equal(t, async.Idle, m.AuthState())
}

func TestSignIn_SupersededAttemptIsDiscarded(t *testing.T) {
	id := &fakeIdentity{
		cred:    backend.Credential{UserID: "slow", Email: "slow@x.com"},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	entered := id.entered
	release := id.release
	m := newManager(id, &fakeDocs{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.SignIn(context.Background(), "slow@x.com", "pw")
	}()

	<-entered // the slow attempt is in flight

	// A newer attempt supersedes it and completes first.
	id.mu.Lock()
	id.cred = backend.Credential{UserID: "fast", Email: "fast@x.com"}
	id.mu.Unlock()
	require.NoError(t, m.SignIn(context.Background(), "fast@x.com", "pw"))
	require.Equal(t, "fast", m.Session().UserID)

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("slow sign-in did not return")
	}

	// The slow attempt's resolution must not have changed observable state.
	require.Equal(t, "fast", m.Session().UserID)
	require.Equal(t, Authenticated, m.Session().Status)
	require.Equal(t, async.Succeeded, m.AuthState())
}

func TestSignUp_EndToEndWithMemoryBackend(t *testing.T) {
	mem := backend.NewMemory()
	m := NewManager(mem, mem, testLogger())
	ctx := context.Background()

	fields := RegistrationFields{FullName: "Ana", Age: "30", Profession: "Engineer"}
	require.NoError(t, m.SignUp(ctx, "a@x.com", "secret1", fields))

	s := m.Session()
	require.Equal(t, Authenticated, s.Status)
	require.NotEmpty(t, s.UserID)

	doc, err := mem.GetDocument(ctx, backend.UsersCollection, s.UserID)
	require.NoError(t, err)
	require.Equal(t, "Ana", doc["fullName"])
	require.Equal(t, "30", doc["age"])
	require.Equal(t, "Engineer", doc["profession"])
	require.Equal(t, "a@x.com", doc["email"])

	// A fresh sign-in finds the same identity.
	m.SignOut()
	require.NoError(t, m.SignIn(ctx, "a@x.com", "secret1"))
	require.Equal(t, s.UserID, m.Session().UserID)
}
