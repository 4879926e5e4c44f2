package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/betbot/tradegate/clob/types"
)

func newMarketTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	pk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return NewClient(srv.URL, types.ChainAmoy, pk, nil)
}

func TestGetPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /price", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token_id"); got != "1234" {
			t.Errorf("token_id got=%q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("side") {
		case "BUY":
			json.NewEncoder(w).Encode(map[string]string{"price": "0.51"})
		case "SELL":
			json.NewEncoder(w).Encode(map[string]string{"price": "0.49"})
		default:
			t.Errorf("unexpected side %q", r.URL.Query().Get("side"))
		}
	})
	c := newMarketTestClient(t, mux)

	buy, err := c.GetPrice(context.Background(), "1234", types.SideBuy)
	if err != nil {
		t.Fatalf("get buy price: %v", err)
	}
	if buy.Price != "0.51" {
		t.Fatalf("buy price got=%s", buy.Price)
	}

	sell, err := c.GetPrice(context.Background(), "1234", types.SideSell)
	if err != nil {
		t.Fatalf("get sell price: %v", err)
	}
	if sell.Price != "0.49" {
		t.Fatalf("sell price got=%s", sell.Price)
	}
}

func TestGetTickSize_Cached(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tick-size", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"minimum_tick_size": 0.01})
	})
	c := newMarketTestClient(t, mux)

	for i := 0; i < 3; i++ {
		tick, err := c.GetTickSize(context.Background(), "1234")
		if err != nil {
			t.Fatalf("get tick size: %v", err)
		}
		if tick != types.TickSize001 {
			t.Fatalf("tick got=%s", tick)
		}
	}
	// 准静态属性走缓存，venue 只应被请求一次
	if calls != 1 {
		t.Fatalf("tick-size endpoint hit %d times", calls)
	}
}
