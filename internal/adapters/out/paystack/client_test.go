package paystack_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fastdispatch/internal/adapters/out/paystack"
	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromCents(cents)
	require.NoError(t, err)
	return m
}

func TestClient_Initialize(t *testing.T) {
	t.Run("returns authorization url on success", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/transaction/initialize", r.URL.Path)
			require.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data":   map[string]any{"authorization_url": "https://checkout.test/abc123"},
			})
		}))
		defer server.Close()

		client := paystack.NewClient(server.URL, "sk_test_secret")
		url, err := client.Initialize(t.Context(), "FD-20250101-AAAAAA",
			"customer@example.com", mustMoney(t, 250000))

		require.NoError(t, err)
		assert.Equal(t, "https://checkout.test/abc123", url)
		assert.Equal(t, "FD-20250101-AAAAAA", captured["reference"])
		assert.Equal(t, "customer@example.com", captured["email"])
		assert.EqualValues(t, 250000, captured["amount"])
	})

	t.Run("rejection surfaces as external service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  false,
				"message": "Invalid key",
			})
		}))
		defer server.Close()

		client := paystack.NewClient(server.URL, "sk_bad")
		_, err := client.Initialize(t.Context(), "FD-1", "c@example.com", mustMoney(t, 1000))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrExternalService)
	})

	t.Run("unreachable processor surfaces as external service error", func(t *testing.T) {
		client := paystack.NewClient("http://127.0.0.1:1", "sk_test")
		_, err := client.Initialize(t.Context(), "FD-1", "c@example.com", mustMoney(t, 1000))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrExternalService)
	})
}

func TestClient_Verify(t *testing.T) {
	t.Run("returns settled amount for successful charge", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/transaction/verify/FD-20250101-AAAAAA", r.URL.Path)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data":   map[string]any{"status": "success", "amount": 250000},
			})
		}))
		defer server.Close()

		client := paystack.NewClient(server.URL, "sk_test")
		settled, err := client.Verify(t.Context(), "FD-20250101-AAAAAA")

		require.NoError(t, err)
		assert.EqualValues(t, 250000, settled.Cents())
	})

	t.Run("unsettled charge is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data":   map[string]any{"status": "abandoned", "amount": 0},
			})
		}))
		defer server.Close()

		client := paystack.NewClient(server.URL, "sk_test")
		_, err := client.Verify(t.Context(), "FD-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrExternalService)
	})
}

func TestClient_Payout(t *testing.T) {
	t.Run("posts a balance transfer to the recipient", func(t *testing.T) {
		payee := kernel.NewUUID()
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/transfer", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
		}))
		defer server.Close()

		client := paystack.NewClient(server.URL, "sk_test")
		err := client.Payout(t.Context(), payee, mustMoney(t, 250000), "escrow release FD-1")

		require.NoError(t, err)
		assert.Equal(t, "balance", captured["source"])
		assert.Equal(t, payee.String(), captured["recipient"])
		assert.EqualValues(t, 250000, captured["amount"])
	})

	t.Run("server error surfaces as external service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := paystack.NewClient(server.URL, "sk_test")
		err := client.Payout(t.Context(), kernel.NewUUID(), mustMoney(t, 1000), "escrow release")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrExternalService)
	})
}
