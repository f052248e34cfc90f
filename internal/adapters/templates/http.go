package templates

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"certbot/internal/domain"
)

// HTTPStore downloads templates from baseURL/<name>.
type HTTPStore struct {
	client  *http.Client
	baseURL string
}

// NewHTTPStore returns a store that fetches from baseURL.
func NewHTTPStore(baseURL string, client *http.Client) (*HTTPStore, error) {
	if baseURL == "" {
		return nil, errors.New("template base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid template base URL %q: %w", baseURL, err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *HTTPStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := s.baseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return readTemplate(resp.Body, name)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
	default:
		return nil, fmt.Errorf("template server returned status: %d", resp.StatusCode)
	}
}
