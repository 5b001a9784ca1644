// Package backendsrv serves the identity and document-store HTTP contract
// the client's REST adapter speaks:
//
//	POST /v1/accounts:signUp             {"email","password"} -> {"user_id","email","id_token"}
//	POST /v1/accounts:signInWithPassword {"email","password"} -> {"user_id","email","id_token"}
//	GET    /v1/docs/{collection}/{id}    -> fields object
//	PUT    /v1/docs/{collection}/{id}    fields object (create/replace)
//	PATCH  /v1/docs/{collection}/{id}    fields object (merge)
//
// Document routes require a Bearer id token signed with the server's
// secret; a token only grants access to the document whose id matches the
// token's user id.
package backendsrv

import (
	"github.com/gorilla/mux"

	"github.com/okulikov/handtext/internal/backend"
	"github.com/okulikov/handtext/internal/logging"
)

// Service exposes a backend.Backend over HTTP.
type Service struct {
	log    logging.Logger
	store  backend.Backend
	secret []byte
}

// NewService wraps store. secret must be the same key the store signs
// id tokens with.
func NewService(log logging.Logger, store backend.Backend, secret []byte) *Service {
	return &Service{log: log, store: store, secret: secret}
}

// Router builds the HTTP surface.
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/v1/accounts:signUp", s.signUp).Methods("POST")
	r.HandleFunc("/v1/accounts:signInWithPassword", s.signIn).Methods("POST")
	r.HandleFunc("/v1/docs/{collection}/{id}", s.getDocument).Methods("GET")
	r.HandleFunc("/v1/docs/{collection}/{id}", s.setDocument).Methods("PUT")
	r.HandleFunc("/v1/docs/{collection}/{id}", s.updateDocument).Methods("PATCH")
	return r
}
