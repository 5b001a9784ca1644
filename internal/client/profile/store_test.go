package profile

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okulikov/handtext/internal/backend"
	"github.com/okulikov/handtext/internal/client/session"
	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/logging"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() logging.Logger {
	return logging.NewText(discard{}, slog.LevelError)
}

func authedSession(userID string) session.Session {
	return session.Session{UserID: userID, Email: "ana@example.com", Status: session.Authenticated}
}

// countingDocs wraps the memory backend and counts calls.
type countingDocs struct {
	*backend.Memory
	mu          sync.Mutex
	updateCalls int
	getCalls    int
}

func (c *countingDocs) GetDocument(ctx context.Context, collection, id string) (map[string]string, error) {
	c.mu.Lock()
	c.getCalls++
	c.mu.Unlock()
	return c.Memory.GetDocument(ctx, collection, id)
}

func (c *countingDocs) UpdateDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	c.mu.Lock()
	c.updateCalls++
	c.mu.Unlock()
	return c.Memory.UpdateDocument(ctx, collection, id, fields)
}

func seededStore(t *testing.T) (*Store, *countingDocs, string) {
	t.Helper()
	docs := &countingDocs{Memory: backend.NewMemory()}
	const userID = "u1"
	require.NoError(t, docs.SetDocument(context.Background(), backend.UsersCollection, userID,
		map[string]string{
			"fullName":   "Ana",
			"age":        "30",
			"profession": "Engineer",
			"email":      "ana@example.com",
		}))
	return NewStore(docs, testLogger()), docs, userID
}

func TestLoad_ReturnsProfile(t *testing.T) {
	s, _, userID := seededStore(t)

	p, err := s.Load(context.Background(), authedSession(userID), userID)
	require.NoError(t, err)
	require.Equal(t, Profile{
		UserID:     userID,
		FullName:   "Ana",
		Age:        "30",
		Profession: "Engineer",
		Email:      "ana@example.com",
	}, p)

	cached, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, p, cached)
}

func TestLoad_MissingDocument(t *testing.T) {
	docs := &countingDocs{Memory: backend.NewMemory()}
	s := NewStore(docs, testLogger())

	_, err := s.Load(context.Background(), authedSession("ghost"), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, ok := s.Current()
	require.False(t, ok)
}

func TestLoad_Unauthorized(t *testing.T) {
	s, docs, userID := seededStore(t)

	cases := []struct {
		name string
		sess session.Session
		id   string
	}{
		{"anonymous session", session.Session{Status: session.Anonymous}, userID},
		{"mismatched user", authedSession("someone-else"), userID},
		{"empty id", authedSession(userID), ""},
		{"authenticating", session.Session{UserID: userID, Status: session.Authenticating}, userID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Load(context.Background(), tc.sess, tc.id)
			require.ErrorIs(t, err, common.ErrUnauthorized)
		})
	}
	require.Equal(t, 0, docs.getCalls, "unauthorized calls must not reach the store")
}

func TestSave_ValidationFailureMakesNoCall(t *testing.T) {
	s, docs, userID := seededStore(t)

	cases := []Fields{
		{FullName: "", Profession: "Engineer", Age: "30"},
		{FullName: "Ana", Profession: "", Age: "30"},
		{FullName: "Ana", Profession: "Engineer", Age: ""},
	}
	for _, fields := range cases {
		err := s.Save(context.Background(), authedSession(userID), userID, fields)
		require.ErrorIs(t, err, common.ErrValidation)
	}
	require.Equal(t, 0, docs.updateCalls)
}

func TestSave_MergeLeavesEmailUntouched(t *testing.T) {
	s, docs, userID := seededStore(t)

	err := s.Save(context.Background(), authedSession(userID), userID,
		Fields{FullName: "Ana Maria", Profession: "Architect", Age: "31"})
	require.NoError(t, err)

	doc, err := docs.GetDocument(context.Background(), backend.UsersCollection, userID)
	require.NoError(t, err)
	require.Equal(t, "Ana Maria", doc["fullName"])
	require.Equal(t, "Architect", doc["profession"])
	require.Equal(t, "31", doc["age"])
	require.Equal(t, "ana@example.com", doc["email"], "email is immutable")
}

func TestSave_Idempotent(t *testing.T) {
	s, docs, userID := seededStore(t)
	fields := Fields{FullName: "Ana", Profession: "Engineer", Age: "30"}

	require.NoError(t, s.Save(context.Background(), authedSession(userID), userID, fields))
	after1, err := docs.GetDocument(context.Background(), backend.UsersCollection, userID)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), authedSession(userID), userID, fields))
	after2, err := docs.GetDocument(context.Background(), backend.UsersCollection, userID)
	require.NoError(t, err)

	require.Equal(t, after1, after2)
	require.Equal(t, 2, docs.updateCalls)
}

func TestSave_UpdatesCachedProfile(t *testing.T) {
	s, _, userID := seededStore(t)
	ctx := context.Background()

	_, err := s.Load(ctx, authedSession(userID), userID)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, authedSession(userID), userID,
		Fields{FullName: "Ana Maria", Profession: "Architect", Age: "31"}))

	cached, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "Ana Maria", cached.FullName)
	require.Equal(t, "ana@example.com", cached.Email)
}

func TestReset_DropsCache(t *testing.T) {
	s, _, userID := seededStore(t)

	_, err := s.Load(context.Background(), authedSession(userID), userID)
	require.NoError(t, err)

	s.Reset()
	_, ok := s.Current()
	require.False(t, ok)
}

func TestLoad_AfterRegistrationRoundTrip(t *testing.T) {
	// End-to-end: register via the session manager, then load the profile
	// back through the store.
	mem := backend.NewMemory()
	mgr := session.NewManager(mem, mem, testLogger())
	store := NewStore(mem, testLogger())
	ctx := context.Background()

	require.NoError(t, mgr.SignUp(ctx, "a@x.com", "secret1",
		session.RegistrationFields{FullName: "Ana", Age: "30", Profession: "Engineer"}))

	sess := mgr.Session()
	p, err := store.Load(ctx, sess, sess.UserID)
	require.NoError(t, err)
	require.Equal(t, "Ana", p.FullName)
	require.Equal(t, "30", p.Age)
	require.Equal(t, "Engineer", p.Profession)
	require.Equal(t, "a@x.com", p.Email)
}
