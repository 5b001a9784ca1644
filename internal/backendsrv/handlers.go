package backendsrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/okulikov/handtext/internal/backend"
	"github.com/okulikov/handtext/internal/common"
)

type accountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IDToken string `json:"id_token"`
}

type accountFunc func(ctx context.Context, email, password string) (backend.Credential, error)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "OK")
}

func (s *Service) signUp(w http.ResponseWriter, r *http.Request) {
	s.account(w, r, s.store.CreateIdentity)
}

func (s *Service) signIn(w http.ResponseWriter, r *http.Request) {
	s.account(w, r, s.store.Authenticate)
}

func (s *Service) account(w http.ResponseWriter, r *http.Request, fn accountFunc) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	cred, err := fn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, common.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			s.log.Error(r.Context(), "account request failed", "email", req.Email, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		UserID:  cred.UserID,
		Email:   cred.Email,
		IDToken: cred.IDToken,
	})
}

// authorize verifies the Bearer token and checks that it grants access to
// the addressed document.
func (s *Service) authorize(r *http.Request, docID string) error {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return common.ErrUnauthorized
	}

	claims, err := backend.ParseToken(token, s.secret)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	if claims.UserID != docID {
		return fmt.Errorf("%w: token does not grant access to this document", common.ErrUnauthorized)
	}
	return nil
}

func (s *Service) getDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.authorize(r, vars["id"]); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	fields, err := s.store.GetDocument(r.Context(), vars["collection"], vars["id"])
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		s.log.Error(r.Context(), "get document failed", "collection", vars["collection"], "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, fields)
}

func (s *Service) setDocument(w http.ResponseWriter, r *http.Request) {
	s.writeDocument(w, r, s.store.SetDocument)
}

func (s *Service) updateDocument(w http.ResponseWriter, r *http.Request) {
	s.writeDocument(w, r, s.store.UpdateDocument)
}

func (s *Service) writeDocument(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, collection, id string, fields map[string]string) error) {

	vars := mux.Vars(r)
	if err := s.authorize(r, vars["id"]); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	fields := make(map[string]string)
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "malformed document body")
		return
	}

	if err := fn(r.Context(), vars["collection"], vars["id"], fields); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		s.log.Error(r.Context(), "write document failed", "collection", vars["collection"], "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
