package dexscreener

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nekoweb3/alphabot/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGuard() *upstream.Guard {
	return upstream.NewGuard("dexscreener-test", upstream.GuardConfig{RequestsPerMinute: 60000, MaxFailures: 100})
}

func TestSearchPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/search", r.URL.Path)
		assert.Equal(t, "sol", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"schemaVersion":"1.0.0","pairs":[
			{"chainId":"solana","pairAddress":"PAIR1","baseToken":{"name":"Doge Sol","symbol":"DSOL"},
			 "liquidity":{"usd":12345.67},"volume":{"h24":"999.5"},"fdv":250000,"pairCreatedAt":1700000000000,
			 "info":{"websites":[{"url":"https://doge.sol"}],"socials":[{"type":"telegram","url":"https://t.me/dsol"}]}},
			{"chainId":"solana","pairAddress":"PAIR2","liquidity":"weird","volume":null}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithGuard(testGuard()))
	res := c.SearchPairs(context.Background(), "sol")

	require.Equal(t, upstream.StatusOK, res.Status())
	require.Len(t, res.Items, 2)

	p := res.Items[0]
	assert.Equal(t, "PAIR1", p.PairAddress)
	assert.Equal(t, "Doge Sol", p.BaseToken.Name)
	assert.Equal(t, 12345.67, p.Liquidity.USD.Value)
	assert.Equal(t, 999.5, p.Volume.H24.Value)
	assert.Equal(t, "telegram", p.Info.Socials[0].Kind())

	assert.Equal(t, "PAIR2", res.Items[1].PairAddress)
	assert.Nil(t, res.Items[1].Liquidity)
}

func TestSearchPairs_LimitsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := make([]string, 15)
		for i := range items {
			items[i] = fmt.Sprintf(`{"pairAddress":"P%d"}`, i)
		}
		fmt.Fprintf(w, `{"pairs":[%s]}`, strings.Join(items, ","))
	}))
	defer srv.Close()

	res := NewClient(WithBaseURL(srv.URL), WithGuard(testGuard())).SearchPairs(context.Background(), "eth")
	assert.Len(t, res.Items, SearchLimit)
}

func TestSearchPairs_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  upstream.Status
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, upstream.StatusFailed},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `<html>`) }, upstream.StatusFailed},
		{"no pairs", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"pairs":null}`) }, upstream.StatusEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			res := NewClient(WithBaseURL(srv.URL), WithGuard(testGuard())).SearchPairs(context.Background(), "eth")
			assert.Equal(t, tt.status, res.Status())
			assert.Empty(t, res.Items)
		})
	}
}
