// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package client implements the programmatic consumer of the search API:
// a thin HTTP client plus an orchestrator that owns the interactive
// search session (selection, exclusions, paging) and schedules queries
// with debouncing, caching, and rate-limit cooldown.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/fridgecook/fridgecook/internal/models"
)

// ErrRateLimited is returned when the server answers 429. The caller
// should back off for the advertised retry window.
var ErrRateLimited = errors.New("rate limited by server")

// ErrServer wraps non-429 error envelopes from the server.
var ErrServer = errors.New("server error")

// Client is a minimal HTTP client for the search API. Safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	// limiter paces outgoing requests so a burst of UI events cannot
	// flood the server even before its limiter would object.
	limiter *rate.Limiter
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

// SearchParams are the query parameters of one search request.
type SearchParams struct {
	IDs     []int64
	Names   []string
	Cuisine models.Cuisine
	Offset  int
	Limit   int
	Locale  models.Locale
}

// values encodes the parameters in canonical order so identical searches
// produce identical URLs (and identical cache keys).
func (p SearchParams) values() url.Values {
	v := url.Values{}
	if len(p.IDs) > 0 {
		toks := make([]string, len(p.IDs))
		for i, id := range p.IDs {
			toks[i] = strconv.FormatInt(id, 10)
		}
		v.Set("ids", strings.Join(toks, ","))
	}
	if len(p.Names) > 0 {
		v.Set("ingredients", strings.Join(p.Names, ","))
	}
	if p.Cuisine != "" {
		v.Set("cuisine", string(p.Cuisine))
	}
	v.Set("offset", strconv.Itoa(p.Offset))
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Locale != "" {
		v.Set("locale", string(p.Locale))
	}
	return v
}

// SearchDishes runs one combined search.
func (c *Client) SearchDishes(ctx context.Context, p SearchParams) (*models.SearchResponse, error) {
	var resp models.SearchResponse
	if err := c.get(ctx, "/api/v1/dishes/search", p.values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IngredientNames resolves ingredient ids to display names, used when
// restoring a session from a shared URL.
func (c *Client) IngredientNames(ctx context.Context, ids []int64, locale models.Locale) (map[int64]string, error) {
	toks := make([]string, len(ids))
	for i, id := range ids {
		toks[i] = strconv.FormatInt(id, 10)
	}
	v := url.Values{}
	v.Set("ids", strings.Join(toks, ","))
	if locale != "" {
		v.Set("locale", string(locale))
	}

	var resp models.IngredientNamesResponse
	if err := c.get(ctx, "/api/v1/ingredients/names", v, &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

// Pantry fetches the saved ingredients of the given user.
func (c *Client) Pantry(ctx context.Context, userID int64, locale models.Locale) ([]models.UserIngredient, error) {
	v := url.Values{}
	if locale != "" {
		v.Set("locale", string(locale))
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/users/me/ingredients", v)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))

	var items []models.UserIngredient
	if err := c.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, v url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, v)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, v url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(v) > 0 {
		u += "?" + v.Encode()
	}
	return http.NewRequestWithContext(ctx, method, u, nil)
}

// do paces, sends, and decodes one request against the standard envelope.
func (c *Client) do(req *http.Request, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}

	var env struct {
		Status string           `json:"status"`
		Data   json.RawMessage  `json:"data"`
		Error  *models.APIError `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("response decode failed: %w", err)
	}

	if env.Status != "success" {
		if env.Error != nil {
			return fmt.Errorf("%w: %s: %s", ErrServer, env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("%w: status %d", ErrServer, res.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("payload decode failed: %w", err)
		}
	}
	return nil
}
