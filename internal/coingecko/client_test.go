package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nekoweb3/alphabot/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(
		WithBaseURL(url),
		WithGuard(upstream.NewGuard("coingecko-test", upstream.GuardConfig{RequestsPerMinute: 60000, MaxFailures: 100})),
	)
}

func TestPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		switch r.URL.Query().Get("ids") {
		case "bitcoin":
			fmt.Fprint(w, `{"bitcoin":{"usd":64250.5,"usd_24h_change":-1.25,"usd_market_cap":1260000000000}}`)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	res := c.Price(context.Background(), " Bitcoin ")
	require.Equal(t, upstream.StatusOK, res.Status())
	p, _ := res.First()
	assert.Equal(t, "bitcoin", p.ID)
	assert.Equal(t, 64250.5, p.USD.Value)
	assert.Equal(t, -1.25, p.Change24h.Value)

	res = c.Price(context.Background(), "nope")
	assert.Equal(t, upstream.StatusEmpty, res.Status())
}

func TestPrice_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Price(context.Background(), "bitcoin")
	assert.Equal(t, upstream.StatusFailed, res.Status())
	assert.Error(t, res.Err)
}

func TestTrending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/trending", r.URL.Path)
		fmt.Fprint(w, `{"coins":[
			{"item":{"id":"pepe","coin_id":29850,"name":"Pepe","symbol":"PEPE","market_cap_rank":30,
			  "data":{"price":0.0000123,"market_cap":"$5,123,456,789","total_volume":"$812,000,000",
			          "price_change_percentage_24h":{"usd":4.2}}}},
			{"item":null},
			{"item":{"id":"render-token","name":"Render","symbol":"RNDR","data":{"market_cap":"n/a"}}}
		]}`)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Trending(context.Background())
	require.Equal(t, upstream.StatusOK, res.Status())
	require.Len(t, res.Items, 2)

	pepe := res.Items[0]
	assert.Equal(t, "pepe", pepe.ID)
	assert.Equal(t, 5123456789.0, pepe.Data.MarketCap.Value)
	assert.Equal(t, 812000000.0, pepe.Data.TotalVolume.Value)
	assert.Equal(t, 4.2, pepe.Data.Change24hUSD().Value)

	assert.False(t, res.Items[1].Data.MarketCap.Valid)
}
