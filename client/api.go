package client

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

	"hausly/models"
)

const listPageSize = 100

// TokenSource returns a current bearer token for each request.
type TokenSource func(ctx context.Context) (string, error)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

type API struct {
	BaseURL string
	HTTP    *http.Client
	Token   TokenSource
}

func New(baseURL string, token TokenSource) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Token:   token,
	}
}

func (a *API) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != nil {
		token, err := a.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to obtain token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope errorEnvelope
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

type bookingList struct {
	Bookings []Booking `json:"bookings"`
	Count    int       `json:"count"`
	Page     int       `json:"page"`
	HasMore  bool      `json:"hasMore"`
}

type bookingEnvelope struct {
	Message string  `json:"message"`
	Booking Booking `json:"booking"`
}

// listAll follows hasMore until the listing is exhausted.
func (a *API) listAll(ctx context.Context, path string, status models.BookingStatus) ([]Booking, error) {
	all := []Booking{}
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(listPageSize))
		if status != "" {
			q.Set("status", string(status))
		}
		var out bookingList
		if err := a.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, nil, &out); err != nil {
			return nil, err
		}
		all = append(all, out.Bookings...)
		if !out.HasMore || len(out.Bookings) == 0 {
			return all, nil
		}
	}
}

// CustomerBookings lists all of the caller's own bookings, optionally filtered by status.
func (a *API) CustomerBookings(ctx context.Context, status models.BookingStatus) ([]Booking, error) {
	return a.listAll(ctx, "/api/bookings/customer", status)
}

// ProviderBookings lists all bookings made against the caller's services.
func (a *API) ProviderBookings(ctx context.Context, status models.BookingStatus) ([]Booking, error) {
	return a.listAll(ctx, "/api/bookings/provider", status)
}

func (a *API) PendingCount(ctx context.Context) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/bookings/provider/pending-count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// CreateBooking submits a booking. A non-empty idempotencyKey makes retries safe.
func (a *API) CreateBooking(ctx context.Context, req CreateBookingRequest, idempotencyKey string) (*CreateBookingResponse, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	var out CreateBookingResponse
	if err := a.do(ctx, http.MethodPost, "/api/bookings", headers, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*Booking, error) {
	var out bookingEnvelope
	body := map[string]string{"status": string(status)}
	if err := a.do(ctx, http.MethodPut, "/api/bookings/"+url.PathEscape(id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

func (a *API) Cancel(ctx context.Context, id string) (*Booking, error) {
	var out bookingEnvelope
	if err := a.do(ctx, http.MethodDelete, "/api/bookings/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}
