package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MarcosRG/bikesul-backend/internal/logger"
)

const defaultPageSize = 100

type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	logger         *logger.Logger
}

func NewClient(baseURL, consumerKey, consumerSecret string, logger *logger.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchProductPage fetches one page of products scoped to a category and
// status. An empty result or a page shorter than perPage means the last
// page has been reached.
func (c *Client) FetchProductPage(ctx context.Context, categoryID int64, status string, perPage, page int) ([]Product, error) {
	url := fmt.Sprintf("%s/products", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("category", strconv.FormatInt(categoryID, 10))
	q.Set("status", status)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	var products []Product
	if err := c.do(req, &products); err != nil {
		return nil, err
	}

	return products, nil
}

// FetchVariationPage fetches one page of variations for a product.
func (c *Client) FetchVariationPage(ctx context.Context, productID int64, perPage, page int) ([]Variation, error) {
	url := fmt.Sprintf("%s/products/%d/variations", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	var variations []Variation
	if err := c.do(req, &variations); err != nil {
		return nil, err
	}

	return variations, nil
}

// FetchAllVariations pages through every variation of a product. A failed
// page returns whatever was accumulated so far instead of an error, so one
// product's variation trouble never aborts a whole sync run.
func (c *Client) FetchAllVariations(ctx context.Context, productID int64) []Variation {
	var all []Variation

	for page := 1; ; page++ {
		variations, err := c.FetchVariationPage(ctx, productID, defaultPageSize, page)
		if err != nil {
			c.logger.Warn("Failed to fetch variations page %d for product %d: %v", page, productID, err)
			return all
		}

		all = append(all, variations...)

		if len(variations) < defaultPageSize {
			return all
		}
	}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
