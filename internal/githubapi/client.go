// Package githubapi provisions hosted repositories over the GitHub REST
// API. Only the small surface quill needs is implemented.
package githubapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/quillbase/quill/internal/quillerr"
)

// defaultBaseURL is the public GitHub API endpoint.
const defaultBaseURL = "https://api.github.com"

// ErrMissingToken is returned when a provisioning call is attempted with no
// credential available.
var ErrMissingToken = errors.New("no hosting token available")

// Client talks to the GitHub REST API with token auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client. An empty baseURL uses the public endpoint.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{baseURL: baseURL, token: token, http: http.DefaultClient}
}

// Repository is the subset of repository metadata quill uses.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	CloneURL string `json:"clone_url"`
	Private  bool   `json:"private"`
}

// CreateRepository creates a repository for the authenticated user and
// returns its clone URL.
func (c *Client) CreateRepository(name, description string, private bool) (*Repository, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	body, err := json.Marshal(map[string]any{
		"name":        name,
		"description": description,
		"private":     private,
		"auto_init":   false,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/user/repos", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &quillerr.RemoteAuthError{
			Remote: c.baseURL,
			Err:    fmt.Errorf("repository creation rejected (%s)", resp.Status),
		}
	}

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, fmt.Errorf("create repository: %s: %s", resp.Status, bytes.TrimSpace(detail))
	}

	var repo Repository

	err = json.NewDecoder(resp.Body).Decode(&repo)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &repo, nil
}

// GetRepository fetches metadata for owner/name, or nil when it does not
// exist.
func (c *Client) GetRepository(owner, name string) (*Repository, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, name)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get repository: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get repository: %s", resp.Status)
	}

	var repo Repository

	err = json.NewDecoder(resp.Body).Decode(&repo)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &repo, nil
}
