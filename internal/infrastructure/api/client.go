// Package api implements the HTTP adapter for the staff-directory backend.
// It is stateless: every authenticated request reads the bearer token from
// the session store at issue time.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/wI2L/jsondiff"

	"github.com/Jacqui87/person-management-extension-sub000/internal/core/domain"
	"github.com/Jacqui87/person-management-extension-sub000/internal/core/ports"
	"github.com/Jacqui87/person-management-extension-sub000/internal/metrics"
)

type Client struct {
	baseURL  string
	http     *http.Client
	sessions ports.SessionStore
	log      zerolog.Logger
}

// NewClient builds a directory API client rooted at baseURL. A nil
// httpClient falls back to http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, sessions ports.SessionStore, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient, sessions: sessions, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

// Login exchanges credentials and/or a stored token for a session. The
// backend answers 204 when neither yields a session; that maps to
// (nil, nil), not an error.
func (c *Client) Login(ctx context.Context, email, password, token string) (*domain.LoginResult, error) {
	status, body, err := c.send(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password, Token: token}, "")
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("auth", "transport_error").Inc()
		return nil, err
	}
	if status == http.StatusNoContent {
		metrics.RequestsTotal.WithLabelValues("auth", "ok").Inc()
		return nil, nil
	}
	if status < 200 || status > 299 {
		metrics.RequestsTotal.WithLabelValues("auth", "http_error").Inc()
		return nil, &domain.HTTPError{Status: status, Body: string(body)}
	}

	var result domain.LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	metrics.RequestsTotal.WithLabelValues("auth", "ok").Inc()
	return &result, nil
}

func (c *Client) ListPeople(ctx context.Context) ([]domain.Person, error) {
	var people []domain.Person
	if err := c.authedJSON(ctx, http.MethodGet, "/api/person", nil, &people, "person"); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	if err := c.authedJSON(ctx, http.MethodGet, "/api/role", nil, &roles, "role"); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *Client) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var departments []domain.Department
	if err := c.authedJSON(ctx, http.MethodGet, "/api/department", nil, &departments, "department"); err != nil {
		return nil, err
	}
	return departments, nil
}

func (c *Client) GetPerson(ctx context.Context, id int) (*domain.Person, error) {
	var p domain.Person
	if err := c.authedJSON(ctx, http.MethodGet, "/api/person/"+strconv.Itoa(id), nil, &p, "person"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePerson(ctx context.Context, p domain.Person) error {
	return c.authedJSON(ctx, http.MethodPost, "/api/person", p, nil, "person")
}

// UpdatePerson sends an ordered RFC 6902 patch for a partial update.
func (c *Client) UpdatePerson(ctx context.Context, id int, patch jsondiff.Patch) error {
	return c.authedJSON(ctx, http.MethodPatch, "/api/person/"+strconv.Itoa(id), patch, nil, "person")
}

func (c *Client) DeletePerson(ctx context.Context, id int) error {
	return c.authedJSON(ctx, http.MethodDelete, "/api/person/"+strconv.Itoa(id), nil, nil, "person")
}

// authedJSON issues an authenticated request and decodes the response body
// into out when non-nil. It fails fast with domain.ErrMissingToken when the
// session store holds no token.
func (c *Client) authedJSON(ctx context.Context, method, path string, body, out any, resource string) error {
	token, err := c.sessions.Get()
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if token == "" {
		metrics.RequestsTotal.WithLabelValues(resource, "missing_token").Inc()
		return domain.ErrMissingToken
	}

	status, respBody, err := c.send(ctx, method, path, body, token)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(resource, "transport_error").Inc()
		return err
	}
	if status < 200 || status > 299 {
		metrics.RequestsTotal.WithLabelValues(resource, "http_error").Inc()
		if rejection := parseRejection(status, respBody); rejection != nil {
			return rejection
		}
		return &domain.HTTPError{Status: status, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	metrics.RequestsTotal.WithLabelValues(resource, "ok").Inc()
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("backend request")
	return resp.StatusCode, respBody, nil
}

// parseRejection recognises a 422 body of shape {"errors":{field:[msgs]}}
// and converts it into a domain.ServerRejection so field errors can be
// surfaced next to the corresponding inputs.
func parseRejection(status int, body []byte) *domain.ServerRejection {
	if status != http.StatusUnprocessableEntity {
		return nil
	}
	var envelope struct {
		Errors domain.FieldErrors `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Errors) == 0 {
		return nil
	}
	return &domain.ServerRejection{Fields: envelope.Errors}
}
