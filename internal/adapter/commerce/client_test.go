package commerce

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

const orderJSON = `{
	"id": 5012345678,
	"name": "#1042",
	"email": "Jane.Doe@Example.com",
	"created_at": "2025-03-01T10:00:00Z",
	"fulfillment_status": null,
	"total_price": "499.00",
	"currency": "INR",
	"line_items": [
		{"variant_id": 111, "title": "Custom song", "quantity": 1},
		{"variant_id": null, "title": "Tip", "quantity": 1}
	]
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewHTTPClient(Options{BaseURL: srv.URL, APIVersion: "2024-10", AccessToken: "secret-token"}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewHTTPClientValidatesOptions(t *testing.T) {
	if _, err := NewHTTPClient(Options{BaseURL: "://bad-url", APIVersion: "2024-10"}, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient(Options{BaseURL: "/relative", APIVersion: "2024-10"}, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewHTTPClient(Options{BaseURL: "https://acme.myshopify.com"}, testLogger()); err == nil {
		t.Fatal("expected error for missing api version")
	}
}

func TestSearchByNameSendsQueryAndDecodesOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/2024-10/orders.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get(accessTokenHeader); got != "secret-token" {
			t.Errorf("unexpected access token %q", got)
		}
		q := r.URL.Query()
		if q.Get("name") != "#1042" || q.Get("status") != "any" || q.Get("limit") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[` + orderJSON + `]}`))
	})

	order, err := client.SearchByName(context.Background(), "#1042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ID != 5012345678 || order.Name != "#1042" || order.Key() != "1042" {
		t.Fatalf("unexpected order identity %+v", order)
	}
	if order.CustomerEmail != "jane.doe@example.com" {
		t.Errorf("expected normalised email, got %q", order.CustomerEmail)
	}
	if order.FulfillmentState != model.FulfillmentUnfulfilled {
		t.Errorf("expected unfulfilled for null status, got %q", order.FulfillmentState)
	}
	if !order.CreatedAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created at %v", order.CreatedAt)
	}
	if order.Amount != "499.00" || order.Currency != "INR" {
		t.Errorf("unexpected amount %s %s", order.Amount, order.Currency)
	}
	ids := order.VariantIDs()
	if len(ids) != 2 || ids[0] != 111 || ids[1] != 0 {
		t.Errorf("unexpected variant ids %v", ids)
	}
}

func TestSearchByNameEmptyResultIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orders":[]}`))
	})

	if _, err := client.SearchByName(context.Background(), "#404"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchMissingEndpointIsUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":"Not Found"}`, http.StatusNotFound)
	})

	_, err := client.SearchByName(context.Background(), "#1042")
	if !errors.Is(err, domainErrors.ErrUpstream) || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
	if _, err := client.SearchByEmail(context.Background(), "jane@example.com"); !errors.Is(err, domainErrors.ErrUpstream) {
		t.Fatalf("expected upstream failure for email search, got %v", err)
	}
}

func TestSearchByEmailLowercasesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("email"); got != "jane.doe@example.com" {
			t.Errorf("unexpected email query %q", got)
		}
		_, _ = w.Write([]byte(`{"orders":[` + orderJSON + `]}`))
	})

	order, err := client.SearchByEmail(context.Background(), " Jane.Doe@Example.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 5012345678 {
		t.Errorf("unexpected order %+v", order)
	}
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/admin/api/2024-10/orders/5012345678.json" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"order":` + orderJSON + `}`))
		})
		order, err := client.GetByID(context.Background(), 5012345678)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Name != "#1042" {
			t.Errorf("unexpected order %+v", order)
		}
	})

	t.Run("missing", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errors":"Not Found"}`, http.StatusNotFound)
		})
		if _, err := client.GetByID(context.Background(), 1); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestFulfilledStatusIsPreserved(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"orders":[{"id":1,"name":"#7","fulfillment_status":"FULFILLED","contact_email":"x@y.z","line_items":[]}]}`))
	})
	order, err := client.SearchByName(context.Background(), "#7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.FulfillmentState.IsFulfilled() {
		t.Errorf("expected fulfilled state, got %q", order.FulfillmentState)
	}
	if order.CustomerEmail != "x@y.z" {
		t.Errorf("expected contact email fallback, got %q", order.CustomerEmail)
	}
}

func TestRequestFailuresAreUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		header     http.Header
		body       string
		wantRetry  time.Duration
	}{
		{name: "too many requests", statusCode: http.StatusTooManyRequests, header: http.Header{"Retry-After": []string{"2.0"}}, wantRetry: 2 * time.Second},
		{name: "too many requests default", statusCode: http.StatusTooManyRequests, wantRetry: defaultRetryAfter},
		{name: "unauthorized", statusCode: http.StatusUnauthorized},
		{name: "server error", statusCode: http.StatusInternalServerError},
		{name: "malformed body", statusCode: http.StatusOK, body: `{"orders":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.SearchByName(context.Background(), "#1042")
			if !errors.Is(err, domainErrors.ErrUpstream) {
				t.Fatalf("expected upstream error, got %v", err)
			}
			retry, ok := RetryAfter(err)
			if tt.wantRetry > 0 {
				if !ok || retry != tt.wantRetry {
					t.Fatalf("expected retry after %v, got %v (ok=%v)", tt.wantRetry, retry, ok)
				}
			} else if ok {
				t.Fatalf("did not expect rate limit error, got %v", err)
			}
		})
	}
}

func TestTransportErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client, err := NewHTTPClient(Options{BaseURL: baseURL, APIVersion: "2024-10"}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.GetByID(context.Background(), 1); !errors.Is(err, domainErrors.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRequestHonoursContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchByName(ctx, "#1042")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != defaultRetryAfter {
		t.Errorf("expected default, got %v", got)
	}
	if got := parseRetryAfter("7"); got != 7*time.Second {
		t.Errorf("expected 7s, got %v", got)
	}
	if got := parseRetryAfter("garbage"); got != defaultRetryAfter {
		t.Errorf("expected default for garbage, got %v", got)
	}
	past := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(past); got != 0 {
		t.Errorf("expected zero for past http date, got %v", got)
	}
	future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > 31*time.Second {
		t.Errorf("unexpected duration for http date: %v", got)
	}
}
