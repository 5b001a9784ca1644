// Package session owns the client's authentication session: sign-in,
// sign-up (identity plus profile document in one logical step) and
// sign-out. The session value is handed to the other components
// explicitly; only this package mutates it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/okulikov/handtext/internal/backend"
	"github.com/okulikov/handtext/internal/client/async"
	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/logging"
)

// Status is the authentication state of the client.
type Status int

const (
	Anonymous Status = iota
	Authenticating
	Authenticated
	AuthFailed
)

func (s Status) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case AuthFailed:
		return "auth failed"
	default:
		return "unknown"
	}
}

// Session is the client-held record of the current identity. UserID is
// empty unless Status is Authenticated.
type Session struct {
	UserID string
	Email  string
	Status Status
}

// RegistrationFields are the profile attributes collected at sign-up.
// Together with the email they seed the user's profile document.
type RegistrationFields struct {
	FullName   string
	Age        string
	Profession string
}

// Manager drives the session state machine:
//
//	Anonymous -> Authenticating -> {Authenticated, AuthFailed}
//	Authenticated -> Anonymous        (sign-out)
//	AuthFailed -> Authenticating      (retry)
//
// Auth attempts run through a single async slot, so a slow stale attempt
// can never overwrite the session produced by a newer one.
type Manager struct {
	identity backend.Identity
	docs     backend.DocStore
	log      logging.Logger

	mu      sync.Mutex
	session Session
	op      async.Op[Session]
}

func NewManager(identity backend.Identity, docs backend.DocStore, log logging.Logger) *Manager {
	return &Manager{
		identity: identity,
		docs:     docs,
		log:      log,
		session:  Session{Status: Anonymous},
	}
}

// Session returns the current session value.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// AuthState reports the state of the most recent auth operation.
func (m *Manager) AuthState() async.State {
	return m.op.State()
}

// AuthErr returns the error of the last failed auth operation, or nil.
func (m *Manager) AuthErr() error {
	return m.op.Err()
}

func (m *Manager) setSession(s Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// SignIn authenticates with the identity collaborator. Empty email or
// password fails fast with common.ErrValidation and makes no network call.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	h := m.op.Start()
	m.setSession(Session{Status: Authenticating})

	cred, err := m.identity.Authenticate(ctx, email, password)
	if err != nil {
		if h.Reject(err) {
			m.setSession(Session{Status: AuthFailed})
			m.log.Warn(ctx, "sign-in failed", "error", err)
		}
		return err
	}

	s := Session{UserID: cred.UserID, Email: cred.Email, Status: Authenticated}
	if h.Resolve(s) {
		m.setSession(s)
		m.log.Info(ctx, "signed in", "user_id", cred.UserID)
	}
	return nil
}

// SignUp creates the identity and its profile document in one logical
// step. All fields are required (common.ErrValidation otherwise, no
// network call). When the identity is created but the profile document
// write fails, the error is common.ErrPartialRegistration: the account
// exists without a profile and nothing is rolled back.
func (m *Manager) SignUp(ctx context.Context, email, password string, fields RegistrationFields) error {
	if fields.FullName == "" || fields.Age == "" || fields.Profession == "" || email == "" || password == "" {
		return fmt.Errorf("%w: all fields are required", common.ErrValidation)
	}

	h := m.op.Start()
	m.setSession(Session{Status: Authenticating})

	cred, err := m.identity.CreateIdentity(ctx, email, password)
	if err != nil {
		if h.Reject(err) {
			m.setSession(Session{Status: AuthFailed})
			m.log.Warn(ctx, "registration failed", "error", err)
		}
		return err
	}

	doc := map[string]string{
		"fullName":   fields.FullName,
		"age":        fields.Age,
		"profession": fields.Profession,
		"email":      cred.Email,
	}
	if err := m.docs.SetDocument(ctx, backend.UsersCollection, cred.UserID, doc); err != nil {
		err = fmt.Errorf("%w: %v", common.ErrPartialRegistration, err)
		if h.Reject(err) {
			m.setSession(Session{Status: AuthFailed})
			m.log.Error(ctx, "profile document creation failed after identity creation",
				"user_id", cred.UserID, "error", err)
		}
		return err
	}

	s := Session{UserID: cred.UserID, Email: cred.Email, Status: Authenticated}
	if h.Resolve(s) {
		m.setSession(s)
		m.log.Info(ctx, "registered", "user_id", cred.UserID)
	}
	return nil
}

// SignOut always succeeds locally: it resets the session to Anonymous and
// invalidates any in-flight auth attempt.
func (m *Manager) SignOut() {
	m.op.Reset()
	m.setSession(Session{Status: Anonymous})
}
