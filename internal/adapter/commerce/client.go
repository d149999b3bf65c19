package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/pkg/privacy"
)

const (
	source            = "commerce"
	defaultTimeout    = 10 * time.Second
	defaultRetryAfter = 5 * time.Second
	accessTokenHeader = "X-Shopify-Access-Token"
)

var errResourceNotFound = errors.New("resource not found")

// TooManyRequestsError represents rate limiting signal from the commerce platform.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Options configures HTTPClient.
type Options struct {
	BaseURL     string
	APIVersion  string
	AccessToken string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// HTTPClient implements repository.OrderCatalog over the Shopify Admin REST API.
type HTTPClient struct {
	baseURL    *url.URL
	apiVersion string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type orderPayload struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	ContactEmail      string            `json:"contact_email"`
	CreatedAt         time.Time         `json:"created_at"`
	FulfillmentStatus *string           `json:"fulfillment_status"`
	TotalPrice        string            `json:"total_price"`
	Currency          string            `json:"currency"`
	LineItems         []lineItemPayload `json:"line_items"`
}

type lineItemPayload struct {
	VariantID *int64 `json:"variant_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

type listResponse struct {
	Orders []orderPayload `json:"orders"`
}

type singleResponse struct {
	Order *orderPayload `json:"order"`
}

// NewHTTPClient creates a commerce client bound to a store base URL.
func NewHTTPClient(opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse commerce url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("commerce url must be absolute")
	}
	if strings.TrimSpace(opts.APIVersion) == "" {
		return nil, fmt.Errorf("commerce api version must be provided")
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		baseURL:    parsed,
		apiVersion: opts.APIVersion,
		token:      opts.AccessToken,
		httpClient: client,
		logger:     logger,
	}, nil
}

// SearchByName returns the first order whose name equals name, any status.
func (c *HTTPClient) SearchByName(ctx context.Context, name string) (*model.Order, error) {
	return c.first(ctx, url.Values{
		"name":   {name},
		"status": {"any"},
		"limit":  {"1"},
	})
}

// SearchByEmail returns the most recent order placed with email.
func (c *HTTPClient) SearchByEmail(ctx context.Context, email string) (*model.Order, error) {
	c.logger.Debug("commerce email search", slog.String("email", privacy.MaskEmail(email)))
	return c.first(ctx, url.Values{
		"email":  {strings.ToLower(strings.TrimSpace(email))},
		"status": {"any"},
		"limit":  {"1"},
	})
}

// GetByID fetches an order by its platform-internal id.
func (c *HTTPClient) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var data singleResponse
	if err := c.get(ctx, "orders/"+strconv.FormatInt(id, 10)+".json", nil, &data); err != nil {
		if errors.Is(err, errResourceNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if data.Order == nil {
		return nil, domainErrors.ErrNotFound
	}
	order := data.Order.toModel()
	return &order, nil
}

func (c *HTTPClient) first(ctx context.Context, query url.Values) (*model.Order, error) {
	var data listResponse
	if err := c.get(ctx, "orders.json", query, &data); err != nil {
		return nil, err
	}
	if len(data.Orders) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	order := data.Orders[0].toModel()
	return &order, nil
}

func (c *HTTPClient) get(ctx context.Context, resource string, query url.Values, dst any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/admin/api", c.apiVersion, resource)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domainErrors.Upstream(source, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainErrors.Upstream(source, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return domainErrors.Upstream(source, err)
		}
		if err := json.Unmarshal(body, dst); err != nil {
			return domainErrors.Upstream(source, fmt.Errorf("decode response: %w", err))
		}
		return nil
	case http.StatusNotFound:
		return domainErrors.Upstream(source, fmt.Errorf("%s: %w", resource, errResourceNotFound))
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return domainErrors.Upstream(source, TooManyRequestsError{RetryAfter: retryAfter})
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("commerce request failed",
			slog.String("resource", resource),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return domainErrors.Upstream(source, fmt.Errorf("unexpected status: %s", resp.Status))
	}
}

func (p orderPayload) toModel() model.Order {
	email := p.Email
	if email == "" {
		email = p.ContactEmail
	}
	state := model.FulfillmentUnfulfilled
	if p.FulfillmentStatus != nil && *p.FulfillmentStatus != "" {
		state = model.FulfillmentState(*p.FulfillmentStatus)
	}

	items := make([]model.LineItem, 0, len(p.LineItems))
	for _, item := range p.LineItems {
		li := model.LineItem{Title: item.Title, Quantity: item.Quantity}
		if item.VariantID != nil {
			li.VariantID = *item.VariantID
		}
		items = append(items, li)
	}

	return model.Order{
		ID:               p.ID,
		Name:             p.Name,
		Amount:           p.TotalPrice,
		Currency:         p.Currency,
		CustomerEmail:    strings.ToLower(strings.TrimSpace(email)),
		CreatedAt:        p.CreatedAt,
		FulfillmentState: state,
		LineItems:        items,
	}
}

// RetryAfter extracts the rate limit back-off from err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var tooMany TooManyRequestsError
	if errors.As(err, &tooMany) {
		return tooMany.RetryAfter, true
	}
	return 0, false
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.ParseFloat(header, 64); err == nil && seconds >= 0 {
		return time.Duration(seconds * float64(time.Second))
	}
	if t, err := http.ParseTime(header); err == nil {
		return max(time.Until(t), 0)
	}
	return defaultRetryAfter
}
