// Package profile loads and persists the authenticated user's profile
// document ("users" collection, one document per user id). The active
// session is passed in explicitly on every call; the store never reads
// ambient auth state.
package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/okulikov/handtext/internal/backend"
	"github.com/okulikov/handtext/internal/client/async"
	"github.com/okulikov/handtext/internal/client/session"
	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/logging"
)

// Profile is the per-user remote record. Email mirrors the auth identity
// and is never rewritten by the client.
type Profile struct {
	UserID     string
	FullName   string
	Age        string
	Profession string
	Email      string
}

// Fields are the editable profile attributes for a save.
type Fields struct {
	FullName   string
	Age        string
	Profession string
}

// Store synchronizes profile fields with the remote document. Load and
// Save each run through their own async slot (one pending operation of
// each kind at a time, last request wins).
type Store struct {
	docs backend.DocStore
	log  logging.Logger

	mu      sync.Mutex
	current Profile
	loaded  bool

	loadOp async.Op[Profile]
	saveOp async.Op[Fields]
}

func NewStore(docs backend.DocStore, log logging.Logger) *Store {
	return &Store{docs: docs, log: log}
}

// Current returns the cached profile from the last successful load or
// save, if any.
func (s *Store) Current() (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.loaded
}

// LoadState reports the state of the most recent load operation.
func (s *Store) LoadState() async.State { return s.loadOp.State() }

// SaveState reports the state of the most recent save operation.
func (s *Store) SaveState() async.State { return s.saveOp.State() }

// Reset drops the cached profile and invalidates in-flight operations.
// Called on sign-out.
func (s *Store) Reset() {
	s.loadOp.Reset()
	s.saveOp.Reset()
	s.mu.Lock()
	s.current = Profile{}
	s.loaded = false
	s.mu.Unlock()
}

func authorize(sess session.Session, userID string) error {
	if sess.Status != session.Authenticated || userID == "" || sess.UserID != userID {
		return fmt.Errorf("%w: user %q is not the authenticated user", common.ErrUnauthorized, userID)
	}
	return nil
}

// Load fetches the profile document for userID. The id must match the
// authenticated session (common.ErrUnauthorized otherwise); a missing
// document is common.ErrNotFound. Load is idempotent and may be retried
// freely.
func (s *Store) Load(ctx context.Context, sess session.Session, userID string) (Profile, error) {
	if err := authorize(sess, userID); err != nil {
		return Profile{}, err
	}

	h := s.loadOp.Start()

	doc, err := s.docs.GetDocument(ctx, backend.UsersCollection, userID)
	if err != nil {
		if h.Reject(err) {
			s.log.Warn(ctx, "profile load failed", "user_id", userID, "error", err)
		}
		return Profile{}, err
	}

	p := Profile{
		UserID:     userID,
		FullName:   doc["fullName"],
		Age:        doc["age"],
		Profession: doc["profession"],
		Email:      doc["email"],
	}
	if p.Email == "" {
		p.Email = sess.Email
	}

	if h.Resolve(p) {
		s.mu.Lock()
		s.current = p
		s.loaded = true
		s.mu.Unlock()
	}
	return p, nil
}

// Save merge-updates the editable fields of the profile document. All
// fields are required (common.ErrValidation, no network call otherwise).
// Email is deliberately not part of the update. Repeated identical saves
// are idempotent.
func (s *Store) Save(ctx context.Context, sess session.Session, userID string, fields Fields) error {
	if fields.FullName == "" || fields.Profession == "" || fields.Age == "" {
		return fmt.Errorf("%w: fullName, profession and age are required", common.ErrValidation)
	}
	if err := authorize(sess, userID); err != nil {
		return err
	}

	h := s.saveOp.Start()

	update := map[string]string{
		"fullName":   fields.FullName,
		"age":        fields.Age,
		"profession": fields.Profession,
	}
	if err := s.docs.UpdateDocument(ctx, backend.UsersCollection, userID, update); err != nil {
		if h.Reject(err) {
			s.log.Warn(ctx, "profile save failed", "user_id", userID, "error", err)
		}
		return err
	}

	if h.Resolve(fields) {
		s.mu.Lock()
		if s.loaded && s.current.UserID == userID {
			s.current.FullName = fields.FullName
			s.current.Age = fields.Age
			s.current.Profession = fields.Profession
		}
		s.mu.Unlock()
	}
	return nil
}
