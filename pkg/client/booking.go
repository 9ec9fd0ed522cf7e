package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cinehub/pkg/model"
)

const (
	userIDHeader         = "X-User-ID"
	idempotencyKeyHeader = "Idempotency-Key"
)

type Metadata struct {
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

// APIError is a non-2xx answer from the bookings API.
type APIError struct {
	StatusCode int            `json:"-"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// BookingClient talks to the cinehub HTTP API on behalf of one user.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{httpClient: NewHttpClient(baseURL)}
}

// AsUser returns a client that identifies as userID through the gateway header.
func (c *BookingClient) AsUser(userID string) *BookingClient {
	return &BookingClient{httpClient: c.httpClient.WithHeader(userIDHeader, userID)}
}

// WithToken returns a client that authenticates with a bearer token.
func (c *BookingClient) WithToken(token string) *BookingClient {
	return &BookingClient{httpClient: c.httpClient.WithHeader("Authorization", "Bearer "+token)}
}

func (c *BookingClient) CreateShow(ctx context.Context, req model.CreateShowRequest) (*model.Show, error) {
	resp, err := c.httpClient.Post(ctx, "/api/v1/shows", req, nil)
	if err != nil {
		return nil, err
	}
	var show model.Show
	return &show, decodeData(resp, http.StatusOK, &show)
}

func (c *BookingClient) GetShow(ctx context.Context, showID string) (*model.Show, error) {
	resp, err := c.httpClient.Get(ctx, "/api/v1/shows/"+url.PathEscape(showID), nil)
	if err != nil {
		return nil, err
	}
	var show model.Show
	return &show, decodeData(resp, http.StatusOK, &show)
}

// Reserve books seats on showID. A non-empty idempotencyKey makes retries safe.
func (c *BookingClient) Reserve(ctx context.Context, showID string, seats []string, idempotencyKey string) (*model.Booking, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{idempotencyKeyHeader: idempotencyKey}
	}
	path := "/api/v1/shows/" + url.PathEscape(showID) + "/reservations"
	resp, err := c.httpClient.Post(ctx, path, map[string]any{"seats": seats}, headers)
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	return &booking, decodeData(resp, http.StatusCreated, &booking)
}

func (c *BookingClient) ListBookings(ctx context.Context, limit int, offset int64) ([]*model.Booking, *Metadata, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.FormatInt(offset, 10))

	resp, err := c.httpClient.Get(ctx, "/api/v1/bookings", query)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, decodeAPIError(resp)
	}

	var wrapper struct {
		Data []*model.Booking `json:"data"`
		Metadata
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list: %w", err)
	}
	meta := wrapper.Metadata
	return wrapper.Data, &meta, nil
}

func (c *BookingClient) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	resp, err := c.httpClient.Get(ctx, "/api/v1/bookings/"+url.PathEscape(bookingID), nil)
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	return &booking, decodeData(resp, http.StatusOK, &booking)
}

func (c *BookingClient) Cancel(ctx context.Context, bookingID string) (*model.Booking, error) {
	resp, err := c.httpClient.Post(ctx, "/api/v1/bookings/"+url.PathEscape(bookingID)+"/cancel", nil, nil)
	if err != nil {
		return nil, err
	}
	var booking model.Booking
	return &booking, decodeData(resp, http.StatusOK, &booking)
}

func (c *BookingClient) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	resp, err := c.httpClient.Post(ctx, "/api/v1/checkout", req, nil)
	if err != nil {
		return nil, err
	}
	var result model.CheckoutResult
	return &result, decodeData(resp, http.StatusCreated, &result)
}

func (c *BookingClient) WaitForHealthy(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return c.httpClient.WaitForHealthy(defaultTimeout)
	}
	return c.httpClient.WaitForHealthy(time.Until(deadline))
}

func decodeData(resp *Response, wantStatus int, target any) error {
	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return fmt.Errorf("could not decode response wrapper: %w", err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return fmt.Errorf("could not decode response data: %w", err)
	}
	return nil
}

func decodeAPIError(resp *Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := resp.DecodeJSON(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Message = GetErrorMessage(resp)
	}
	return apiErr
}
