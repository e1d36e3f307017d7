package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientUnauthorizedDropsTokenAndFiresHook(t *testing.T) {
	api := newFakeAPI(t)
	var fired atomic.Int32
	client := api.client(t, WithToken("stale"), WithUnauthorizedHook(func() { fired.Add(1) }))

	_, err := client.GetCart(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, client.Token())
	assert.Equal(t, int32(1), fired.Load())
}

func TestClientEnvelopeUnauthorizedWithHTTP200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status_code":401,"msg":"expired","data":null}`))
	}))
	t.Cleanup(srv.Close)

	var fired atomic.Int32
	client, err := NewClient(Config{BaseURL: srv.URL + "/api/v1"}, WithToken("t"), WithUnauthorizedHook(func() { fired.Add(1) }))
	require.NoError(t, err)

	_, err = client.Profile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), fired.Load())
}

func TestClientValidationErrorCarriesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status_code":400,"msg":"invalid","data":{"fields":{"email":"validation.email"},"request_id":"req-1"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.CreateOrder(context.Background(), OrderDraft{}, "key")
	validation, ok := AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	key, found := validation.Field("email")
	assert.True(t, found)
	assert.Equal(t, "validation.email", key)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "req-1", apiErr.RequestID)
}

func TestClientClassifiesStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: ErrNotFound},
		{name: "conflict", status: http.StatusConflict, want: ErrConflict},
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrRateLimited},
		{name: "server", status: http.StatusInternalServerError, want: ErrServer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"status_code":` + strconv.Itoa(tc.status) + `,"msg":"x"}`))
			}))
			t.Cleanup(srv.Close)
			client, err := NewClient(Config{BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = client.GetOrder(context.Background(), 1)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClientNetworkErrorAndBreakerOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client, err := NewClient(Config{BaseURL: addr, Timeout: time.Second, BreakerFailures: 2, BreakerOpen: time.Minute})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = client.GetCart(context.Background())
		assert.ErrorIs(t, err, ErrNetwork)
	}
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "open")
}

func TestClientCanceledContextIsNotNetworkError(t *testing.T) {
	api := newFakeAPI(t)
	client := api.client(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetCart(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrNetwork)
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "/api/v1"})
	assert.Error(t, err)
}
