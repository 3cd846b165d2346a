package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("rzp_key", "rzp_secret", srv.URL, 2*time.Second)
}

func TestClient_CreateSubscription(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    bool
		wantErrMsg string
		wantID     string
	}{
		{
			name:   "created",
			status: http.StatusOK,
			body:   `{"id":"sub_1","entity":"subscription","plan_id":"plan_1","status":"created"}`,
			wantID: "sub_1",
		},
		{
			name:       "gateway error with description",
			status:     http.StatusBadRequest,
			body:       `{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`,
			wantErr:    true,
			wantErrMsg: "The id provided does not exist",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/subscriptions", r.URL.Path)
				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "rzp_key", user)
				assert.Equal(t, "rzp_secret", pass)

				var req CreateSubscriptionRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, CreateSubscriptionRequest{PlanID: "plan_1", CustomerNotify: 1, TotalCount: 1}, req)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			sub, err := client.CreateSubscription(context.Background(), "plan_1")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnexpectedStatus)
				if tt.wantErrMsg != "" {
					assert.Contains(t, err.Error(), tt.wantErrMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, sub.ID)
			assert.Equal(t, "created", sub.Status)
		})
	}
}

func TestClient_CancelSubscription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/subscriptions/sub_1/cancel", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"sub_1","status":"cancelled"}`))
	})

	sub, err := client.CancelSubscription(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", sub.Status)
}

func TestClient_ListSubscriptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "10", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(`{"entity":"collection","count":2,"items":[{"id":"sub_1"},{"id":"sub_2"}]}`))
	})

	list, err := client.ListSubscriptions(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	assert.Len(t, list.Items, 2)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	client := NewClient("k", "s", srv.URL, 50*time.Millisecond)

	_, err := client.CreateSubscription(context.Background(), "plan_1")
	assert.Error(t, err)
}

func TestClient_KeyID(t *testing.T) {
	assert.Equal(t, "rzp_key", NewClient("rzp_key", "s", "http://x", time.Second).KeyID())
}
