package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable means the backend could not be reached at all. Callers
	// surface this as an "offline" state; it never crashes a flow and it
	// never affects cart contents.
	ErrUnavailable = errors.New("catalog unavailable")

	ErrProductNotFound = errors.New("product not found")
)

// Gateway is the HTTP client over the catalog backend. It owns the
// validation boundary: every inbound record is normalized into a
// strongly-typed Product before it reaches the core.
type Gateway struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewGateway creates a gateway for the backend at baseURL.
func NewGateway(baseURL string, timeout time.Duration, logger *zap.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// List retrieves the full product catalog.
func (g *Gateway) List(ctx context.Context) ([]Product, error) {
	return g.list(ctx, "")
}

// ListByCategory retrieves products in the named category. An empty
// category or "all" (any case) means unfiltered.
func (g *Gateway) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	if category == "" || strings.EqualFold(category, "all") {
		return g.list(ctx, "")
	}
	return g.list(ctx, category)
}

func (g *Gateway) list(ctx context.Context, category string) ([]Product, error) {
	endpoint := g.baseURL + "/api/products"
	if category != "" {
		endpoint += "?category=" + url.QueryEscape(category)
	}

	body, err := g.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var wire []wireProduct
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}

	products := make([]Product, 0, len(wire))
	for _, w := range wire {
		products = append(products, w.normalize())
	}
	return products, nil
}

// Get retrieves a single product by id. Returns ErrProductNotFound when the
// backend answers 404.
func (g *Gateway) Get(ctx context.Context, id string) (*Product, error) {
	body, err := g.get(ctx, g.baseURL+"/api/products/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var wire wireProduct
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	product := wire.normalize()
	return &product, nil
}

func (g *Gateway) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("Catalog backend unreachable",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	body := json.NewDecoder(resp.Body)
	var raw json.RawMessage
	if err := body.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return raw, nil
}
