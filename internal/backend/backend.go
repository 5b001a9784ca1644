// Package backend defines the narrow interfaces through which the client
// reaches its identity provider and per-user document store, together with
// several interchangeable adapters: an in-process memory backend, a REST
// backend, and SQL-backed stores (sqlite, postgres) for self-hosting.
//
// The client core never depends on a concrete adapter; it sees only
// Identity and DocStore.
package backend

import "context"

// UsersCollection is the document collection holding one profile document
// per identity, keyed by the identity's user id.
const UsersCollection = "users"

// Credential is the result of a successful identity operation.
type Credential struct {
	UserID  string
	Email   string
	IDToken string
}

// Identity creates and authenticates user identities.
//
// CreateIdentity returns common.ErrEmailTaken when the email is already
// registered. Authenticate returns common.ErrInvalidCredentials when the
// email/password pair does not match. Transport failures are wrapped in
// common.ErrNetwork.
type Identity interface {
	CreateIdentity(ctx context.Context, email, password string) (Credential, error)
	Authenticate(ctx context.Context, email, password string) (Credential, error)
}

// DocStore is a minimal CRUD surface over remote documents.
//
// GetDocument and UpdateDocument return common.ErrNotFound when no document
// exists under (collection, id). SetDocument creates or fully replaces the
// document; UpdateDocument merges the given fields into the existing ones,
// leaving absent fields untouched.
type DocStore interface {
	GetDocument(ctx context.Context, collection, id string) (map[string]string, error)
	SetDocument(ctx context.Context, collection, id string, fields map[string]string) error
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]string) error
}

// Backend bundles both collaborator roles; all adapters in this package
// implement it.
type Backend interface {
	Identity
	DocStore
}

func copyFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
