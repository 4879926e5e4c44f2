package gateway

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/tradegate/clob/client"
	"github.com/betbot/tradegate/clob/types"
	"github.com/betbot/tradegate/internal/marketdata"
)

const testSecret = "test-secret"

func venueJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// fakeVenue stands in for the CLOB API.
func fakeVenue(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /midpoint", func(w http.ResponseWriter, r *http.Request) {
		venueJSON(w, map[string]string{"mid": "0.50"})
	})
	mux.HandleFunc("GET /tick-size", func(w http.ResponseWriter, r *http.Request) {
		venueJSON(w, map[string]any{"minimum_tick_size": 0.01})
	})
	mux.HandleFunc("GET /neg-risk", func(w http.ResponseWriter, r *http.Request) {
		venueJSON(w, map[string]bool{"neg_risk": false})
	})
	mux.HandleFunc("GET /book", func(w http.ResponseWriter, r *http.Request) {
		venueJSON(w, map[string]any{
			"bids": []map[string]string{{"price": "0.49", "size": "100"}},
			"asks": []map[string]string{{"price": "0.51", "size": "80"}},
		})
	})
	mux.HandleFunc("POST /order", func(w http.ResponseWriter, r *http.Request) {
		var payload types.NewOrder
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotEmpty(t, payload.Order.Signature)
		assert.NotEmpty(t, r.Header.Get("POLY_SIGNATURE"))
		venueJSON(w, map[string]any{
			"success": true,
			"orderID": "0xdeadbeef",
			"status":  "live",
		})
	})
	mux.HandleFunc("DELETE /order", func(w http.ResponseWriter, r *http.Request) {
		venueJSON(w, map[string]any{"canceled": []string{"0xdeadbeef"}})
	})
	mux.HandleFunc("DELETE /cancel-all", func(w http.ResponseWriter, r *http.Request) {
		venueJSON(w, map[string]any{"canceled": []string{"0xdeadbeef"}})
	})
	mux.HandleFunc("GET /data/orders", func(w http.ResponseWriter, r *http.Request) {
		venueJSON(w, []any{})
	})
	mux.HandleFunc("GET /balance-allowance", func(w http.ResponseWriter, r *http.Request) {
		venueJSON(w, map[string]string{"balance": "100000000", "allowance": "100000000"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, venueURL string) *Server {
	t.Helper()

	pk, err := crypto.GenerateKey()
	require.NoError(t, err)

	creds := &types.ApiKeyCreds{
		Key:        "test-key",
		Secret:     base64.URLEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		Passphrase: "test-pass",
	}
	clobClient := client.NewClient(venueURL, types.ChainAmoy, pk, creds)

	session := NewSession()
	session.mu.Lock()
	session.state = StateReady
	session.clob = clobClient
	session.builder = client.NewOrderBuilder(clobClient, types.SignatureTypeEOA, "")
	session.provider = marketdata.NewProvider(clobClient)
	session.mu.Unlock()

	return New(Config{SharedSecret: testSecret, OrderTTL: time.Hour}, session)
}

func doRequest(router http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set(secretHeader, testSecret)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthzNoAuth(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)
	w := doRequest(s.Router(), http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSharedSecretRequired(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)
	router := s.Router()

	w := doRequest(router, http.MethodGet, "/api/session", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/session", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrder_LimitPrice(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)
	router := s.Router()

	body := `{"tokenId":"1234","side":"buy","amountUsd":5,"limitPrice":0.65}`
	w := doRequest(router, http.MethodPost, "/api/orders", body, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Order struct {
			ID    string `json:"id"`
			Price string `json:"price"`
			Size  string `json:"size"`
			Side  string `json:"side"`
		} `json:"order"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "0xdeadbeef", resp.Order.ID)
	assert.Equal(t, "0.65", resp.Order.Price)
	assert.Equal(t, "7.69", resp.Order.Size)
	assert.Equal(t, "BUY", resp.Order.Side)
	assert.Equal(t, "live", resp.Status)

	// submitted order is now tracked locally
	w = doRequest(router, http.MethodGet, "/api/orders/0xdeadbeef", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrder_DerivedPrice(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)

	// BUY without limit at mid 0.50 works out to 0.52
	body := `{"tokenId":"1234","side":"BUY","amountUsd":10}`
	w := doRequest(s.Router(), http.MethodPost, "/api/orders", body, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Order struct {
			Price string `json:"price"`
			Size  string `json:"size"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0.52", resp.Order.Price)
	assert.Equal(t, "19.23", resp.Order.Size)
}

func TestCreateOrder_MissingField(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)
	router := s.Router()

	tests := []struct {
		body  string
		field string
	}{
		{`{"side":"buy","amountUsd":5}`, "tokenId"},
		{`{"tokenId":"1234","amountUsd":5}`, "side"},
		{`{"tokenId":"1234","side":"hold","amountUsd":5}`, "side"},
		{`{"tokenId":"1234","side":"buy"}`, "amount"},
	}
	for _, tt := range tests {
		w := doRequest(router, http.MethodPost, "/api/orders", tt.body, true)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.body)

		var resp struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "MissingField", resp.Error)
		assert.Equal(t, tt.field, resp.Field)
	}
}

func TestCreateOrder_InvalidParams(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)

	// amount too small to buy a hundredth of a share
	body := `{"tokenId":"1234","side":"buy","amountUsd":0.001,"limitPrice":0.99}`
	w := doRequest(s.Router(), http.MethodPost, "/api/orders", body, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "InvalidOrderParams", resp.Error)
}

func TestCreateOrder_SessionNotReady(t *testing.T) {
	s := New(Config{SharedSecret: testSecret}, NewSession())

	body := `{"tokenId":"1234","side":"buy","amountUsd":5}`
	w := doRequest(s.Router(), http.MethodPost, "/api/orders", body, true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCancelAll(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)

	w := doRequest(s.Router(), http.MethodDelete, "/api/orders", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Canceled []string `json:"canceled"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"0xdeadbeef"}, resp.Canceled)
}

func TestMarketSnapshot(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)

	w := doRequest(s.Router(), http.MethodGet, "/api/markets/1234", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var snap struct {
		Midpoint string `json:"midpoint"`
		TickSize string `json:"tickSize"`
		BestBid  string `json:"bestBid"`
		BestAsk  string `json:"bestAsk"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "0.5", snap.Midpoint)
	assert.Equal(t, "0.01", snap.TickSize)
	assert.Equal(t, "0.49", snap.BestBid)
	assert.Equal(t, "0.51", snap.BestAsk)
}

func TestBalance(t *testing.T) {
	s := newTestServer(t, fakeVenue(t).URL)

	w := doRequest(s.Router(), http.MethodGet, "/api/balance", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.BalanceAllowanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "100000000", resp.Balance)
}

func TestSessionStatus(t *testing.T) {
	s := New(Config{SharedSecret: testSecret}, NewSession())

	w := doRequest(s.Router(), http.MethodGet, "/api/session", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "initializing", resp.State)
}
