// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogpanel/internal/models"
)

// RESTConfig holds the connection settings for the hosted data service.
type RESTConfig struct {
	BaseURL     string // e.g. https://xyz.supabase.co
	APIKey      string // project anon/service key, sent as apikey header
	AccessToken string // per-session bearer token; empty means anonymous
	Table       string // defaults to "blog_list"
	PageSize    int    // defaults to DefaultPageSize
}

// RESTGateway talks to a hosted PostgREST-style API (Supabase and
// compatible services). List uses offset/limit query parameters with an
// exact count requested through the Prefer header; mutations ask the
// service to echo the stored representation back.
type RESTGateway struct {
	config RESTConfig
	client *http.Client
}

// NewREST creates a gateway client for the hosted data service.
func NewREST(cfg RESTConfig) *RESTGateway {
	if cfg.Table == "" {
		cfg.Table = "blog_list"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &RESTGateway{
		config: cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// List fetches one window of posts, newest first.
func (g *RESTGateway) List(ctx context.Context, page int) (Window, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	q.Set("offset", strconv.Itoa(offsetFor(page, g.config.PageSize)))
	q.Set("limit", strconv.Itoa(g.config.PageSize))

	req, err := g.newRequest(ctx, http.MethodGet, g.tableURL()+"?"+q.Encode(), nil)
	if err != nil {
		return Window{}, fmt.Errorf("list request: %w", err)
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := g.client.Do(req)
	if err != nil {
		return Window{}, fmt.Errorf("list http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Window{}, fmt.Errorf("list read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return Window{}, apiError("list", resp.StatusCode, body)
	}

	var items []models.Post
	if err := json.Unmarshal(body, &items); err != nil {
		return Window{}, fmt.Errorf("list decode: %w", err)
	}

	total, err := parseContentRange(resp.Header.Get("Content-Range"))
	if err != nil {
		return Window{}, fmt.Errorf("list content-range: %w", err)
	}

	return Window{
		Items:   items,
		Total:   total,
		HasMore: hasMore(page, g.config.PageSize, total),
	}, nil
}

// Create inserts a new post and returns the stored record with the
// server-assigned id and created_at.
func (g *RESTGateway) Create(ctx context.Context, draft models.Draft) (*models.Post, error) {
	payload, err := json.Marshal([]models.Draft{draft})
	if err != nil {
		return nil, fmt.Errorf("create marshal: %w", err)
	}

	req, err := g.newRequest(ctx, http.MethodPost, g.tableURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Prefer", "return=representation")

	rows, err := g.doMutation("create", req)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &Error{Op: "create", Message: "service returned no rows"}
	}
	return &rows[0], nil
}

// Update rewrites an owned post. Both id and user_id filter the request so
// the service never touches another user's record.
func (g *RESTGateway) Update(ctx context.Context, post models.Post) (*models.Post, error) {
	patch := map[string]any{
		"title":       post.Title,
		"author":      post.Author,
		"category":    post.Category,
		"description": post.Description,
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("update marshal: %w", err)
	}

	u := g.tableURL() + "?" + ownerFilter(post.ID, post.UserID)
	req, err := g.newRequest(ctx, http.MethodPatch, u, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	req.Header.Set("Prefer", "return=representation")

	rows, err := g.doMutation("update", req)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &Error{Op: "update", Message: "no owned post matched id"}
	}
	return &rows[0], nil
}

// Delete removes an owned post and returns its id.
func (g *RESTGateway) Delete(ctx context.Context, id int64, userID string) (int64, error) {
	u := g.tableURL() + "?" + ownerFilter(id, userID)
	req, err := g.newRequest(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return 0, fmt.Errorf("delete request: %w", err)
	}
	req.Header.Set("Prefer", "return=representation")

	rows, err := g.doMutation("delete", req)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, &Error{Op: "delete", Message: "no owned post matched id"}
	}
	return rows[0].ID, nil
}

// CurrentUser resolves the identity behind the access token. An anonymous
// or expired token yields nil without an error, matching the optional
// identity the auth service exposes.
func (g *RESTGateway) CurrentUser(ctx context.Context) (*models.Identity, error) {
	if g.config.AccessToken == "" {
		return nil, nil
	}

	req, err := g.newRequest(ctx, http.MethodGet, g.config.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("current user request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("current user http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("current user read body: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("current_user", resp.StatusCode, body)
	}

	var ident models.Identity
	if err := json.Unmarshal(body, &ident); err != nil {
		return nil, fmt.Errorf("current user decode: %w", err)
	}
	return &ident, nil
}

// doMutation executes a create/update/delete request and decodes the echoed
// rows from the representation the service returns.
func (g *RESTGateway) doMutation(op string, req *http.Request) ([]models.Post, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s http: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(op, resp.StatusCode, body)
	}

	var rows []models.Post
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%s decode: %w", op, err)
	}
	return rows, nil
}

// newRequest builds a request with the auth headers the service expects.
func (g *RESTGateway) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", g.config.APIKey)
	token := g.config.AccessToken
	if token == "" {
		token = g.config.APIKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

func (g *RESTGateway) tableURL() string {
	return g.config.BaseURL + "/rest/v1/" + g.config.Table
}

// ownerFilter builds the id + user_id equality filters for mutations.
func ownerFilter(id int64, userID string) string {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	q.Set("user_id", "eq."+userID)
	return q.Encode()
}

// apiError extracts the service's error message from a failed response.
// PostgREST reports errors as {"message": "..."}; anything else falls back
// to the raw body.
func apiError(op string, status int, body []byte) *Error {
	var payload struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &Error{Op: op, Status: status, Message: msg}
}

// parseContentRange extracts the total count from a "lo-hi/total" or
// "*/total" Content-Range header.
func parseContentRange(h string) (int64, error) {
	if h == "" {
		return 0, fmt.Errorf("missing header")
	}
	_, totalPart, ok := strings.Cut(h, "/")
	if !ok {
		return 0, fmt.Errorf("malformed header %q", h)
	}
	if totalPart == "*" {
		return 0, fmt.Errorf("service did not return an exact count")
	}
	total, err := strconv.ParseInt(totalPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed total in %q", h)
	}
	return total, nil
}
