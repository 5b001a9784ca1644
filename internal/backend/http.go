package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/okulikov/handtext/internal/common"
)

// RESTClient reaches a remote identity provider and document store over
// plain HTTP. The wire contract mirrors the hosted backend the original
// client talked to:
//
//	POST /v1/accounts:signUp             {"email","password"} -> {"user_id","email","id_token"}
//	POST /v1/accounts:signInWithPassword {"email","password"} -> {"user_id","email","id_token"}
//	GET    /v1/docs/{collection}/{id}    -> fields object
//	PUT    /v1/docs/{collection}/{id}    fields object (create/replace)
//	PATCH  /v1/docs/{collection}/{id}    fields object (merge)
//
// Document operations carry the id token as a Bearer header. When the
// identity response omits user id or email, they are recovered from the
// token claims.
type RESTClient struct {
	baseURL string
	client  *http.Client

	mu      sync.Mutex
	idToken string
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type accountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IDToken string `json:"id_token"`
}

func (c *RESTClient) CreateIdentity(ctx context.Context, email, password string) (Credential, error) {
	return c.account(ctx, "signUp", email, password)
}

func (c *RESTClient) Authenticate(ctx context.Context, email, password string) (Credential, error) {
	return c.account(ctx, "signInWithPassword", email, password)
}

func (c *RESTClient) account(ctx context.Context, action, email, password string) (Credential, error) {
	body, err := json.Marshal(accountRequest{Email: email, Password: password})
	if err != nil {
		return Credential{}, fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/v1/accounts:" + action
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Credential{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return Credential{}, common.ErrEmailTaken
	case http.StatusUnauthorized, http.StatusBadRequest:
		return Credential{}, common.ErrInvalidCredentials
	default:
		return Credential{}, fmt.Errorf("%w: unexpected status %s", common.ErrNetwork, resp.Status)
	}

	var ar accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return Credential{}, fmt.Errorf("decoding response: %w", err)
	}

	cred := Credential{UserID: ar.UserID, Email: ar.Email, IDToken: ar.IDToken}
	if cred.UserID == "" || cred.Email == "" {
		claims, err := ParseTokenUnverified(ar.IDToken)
		if err != nil {
			return Credential{}, err
		}
		if cred.UserID == "" {
			cred.UserID = claims.UserID
		}
		if cred.Email == "" {
			cred.Email = claims.Email
		}
	}

	c.mu.Lock()
	c.idToken = cred.IDToken
	c.mu.Unlock()

	return cred, nil
}

func (c *RESTClient) docRequest(ctx context.Context, method, collection, id string, body io.Reader) (*http.Response, error) {
	url := fmt.Sprintf("%s/v1/docs/%s/%s", c.baseURL, collection, id)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	token := c.idToken
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	return resp, nil
}

func mapDocStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusCreated:
		return nil
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthorized
	default:
		return fmt.Errorf("%w: unexpected status %s", common.ErrNetwork, resp.Status)
	}
}

func (c *RESTClient) GetDocument(ctx context.Context, collection, id string) (map[string]string, error) {
	resp, err := c.docRequest(ctx, http.MethodGet, collection, id, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := mapDocStatus(resp); err != nil {
		return nil, err
	}

	fields := make(map[string]string)
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return fields, nil
}

func (c *RESTClient) writeDocument(ctx context.Context, method, collection, id string, fields map[string]string) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	resp, err := c.docRequest(ctx, method, collection, id, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return mapDocStatus(resp)
}

func (c *RESTClient) SetDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	return c.writeDocument(ctx, http.MethodPut, collection, id, fields)
}

func (c *RESTClient) UpdateDocument(ctx context.Context, collection, id string, fields map[string]string) error {
	return c.writeDocument(ctx, http.MethodPatch, collection, id, fields)
}
