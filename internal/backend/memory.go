package backend

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/okulikov/handtext/internal/common"
)

const defaultTokenValidity = time.Hour

type memoryUser struct {
	id           string
	passwordHash []byte
}

// Memory is an in-process Backend used for local runs and as the reference
// implementation in tests. Identities get uuid ids and bcrypt password
// hashes; id tokens are HS256 JWTs signed with a per-instance random key.
type Memory struct {
	mu     sync.RWMutex
	users  map[string]memoryUser        // keyed by email
	docs   map[string]map[string]string // keyed by collection+"/"+id
	secret []byte
}

func NewMemory() *Memory {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	return &Memory{
		users:  make(map[string]memoryUser),
		docs:   make(map[string]map[string]string),
		secret: secret,
	}
}

func (m *Memory) CreateIdentity(ctx context.Context, email, password string) (Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[email]; exists {
		return Credential{}, common.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Credential{}, fmt.Errorf("hashing password: %w", err)
	}

	user := memoryUser{id: uuid.NewString(), passwordHash: hash}
	m.users[email] = user

	return m.credential(user.id, email)
}

func (m *Memory) Authenticate(ctx context.Context, email, password string) (Credential, error) {
	m.mu.RLock()
	user, exists := m.users[email]
	m.mu.RUnlock()

	if !exists {
		return Credential{}, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		return Credential{}, common.ErrInvalidCredentials
	}

	return m.credential(user.id, email)
}

func (m *Memory) credential(userID, email string) (Credential, error) {
	token, err := GenerateToken(userID, email, m.secret, defaultTokenValidity)
	if err != nil {
		return Credential{}, fmt.Errorf("minting token: %w", err)
	}
	return Credential{UserID: userID, Email: email, IDToken: token}, nil
}

func docKey(collection, id string) string {
	return collection + "/" + id
}

func (m *Memory) GetDocument(ctx context.Context, collection, id string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, exists := m.docs[docKey(collection, id)]
	if !exists {
		return nil, common.ErrNotFound
	}
	return copyFields(fields), nil
}

func (m *Memory) SetDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[docKey(collection, id)] = copyFields(fields)
	return nil
}

func (m *Memory) UpdateDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.docs[docKey(collection, id)]
	if !exists {
		return common.ErrNotFound
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}
