// Package directory refreshes the staff account directory from the
// remote sheet endpoint. A successful non-empty fetch overwrites the
// local directory; a timeout, transport error, empty or malformed
// response keeps the cached copy, so login stays possible offline.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/salescope/salescope/internal/authz"
	"github.com/salescope/salescope/internal/users"
)

// Source fetches the remote account directory.
type Source interface {
	FetchUsers(ctx context.Context) ([]users.User, error)
}

// HTTPSource reads the directory from the sheet bridge endpoint.
type HTTPSource struct {
	endpoint string
	sheet    string
	client   *http.Client
}

// NewHTTPSource builds an HTTPSource. client may be nil to use the
// default client; per-call deadlines come from the caller's context.
func NewHTTPSource(endpoint, sheet string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	if sheet == "" {
		sheet = "Users"
	}
	return &HTTPSource{endpoint: endpoint, sheet: sheet, client: client}
}

type wireEnvelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    []wireUser `json:"data"`
}

type wireUser struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FullName    string `json:"fullname"`
	Role        string `json:"role"`
	Branch      string `json:"branch"`
	Status      string `json:"status"`
	CreatedDate string `json:"createdDate"`
}

// FetchUsers retrieves and normalizes the remote directory. Rows missing
// a username or password are dropped, as are rows with an unknown role.
func (s *HTTPSource) FetchUsers(ctx context.Context) ([]users.User, error) {
	// Cache-busting query parameter matches the legacy client's request shape.
	reqURL := fmt.Sprintf("%s?action=GET_ALL&sheet=%s&_=%d",
		s.endpoint, url.QueryEscape(s.sheet), time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("directory: build request: %w", err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory: fetch: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory: unexpected status %d", res.StatusCode)
	}

	var envelope wireEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("directory: decode: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("directory: remote error: %s", envelope.Message)
	}

	out := make([]users.User, 0, len(envelope.Data))
	for _, w := range envelope.Data {
		username := strings.TrimSpace(w.Username)
		password := strings.TrimSpace(w.Password)
		if username == "" || password == "" {
			continue
		}
		role, err := authz.ParseRole(w.Role)
		if err != nil {
			continue
		}
		status := strings.ToLower(strings.TrimSpace(w.Status))
		if status == "" {
			status = users.StatusActive
		}
		out = append(out, users.User{
			Username:     username,
			PasswordHash: users.EnsureHashed(password),
			FullName:     strings.TrimSpace(w.FullName),
			Role:         role,
			Branch:       strings.TrimSpace(w.Branch),
			Status:       status,
			CreatedDate:  strings.TrimSpace(w.CreatedDate),
		})
	}
	return out, nil
}
