package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartPayload(closes string) string {
	return chartPayloadAt("[1700000000,1700086400]", closes)
}

func chartPayloadAt(timestamps, closes string) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":"ACME","shortName":"Acme Corp","longName":"Acme Corporation"},"timestamp":%s,"indicators":{"quote":[{"close":%s}]}}],"error":null}}`, timestamps, closes)
}

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewYahooClient(zerolog.Nop())
	c.baseURL = srv.URL
	return c
}

func TestYahooPriceAt(t *testing.T) {
	var gotPath string
	c := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1699315200", r.URL.Query().Get("period1")) // 2023-11-07, ten days back
		fmt.Fprint(w, chartPayload("[123.45,124.10]"))
	})

	price, err := c.PriceAt(context.Background(), "ACME", time.Date(2023, 11, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 124.10, price)
	assert.Equal(t, "/ACME", gotPath)
}

// A request for a weekend day must resolve to the last close before it, not
// the next trading day's.
func TestYahooPriceAtPrefersPrecedingClose(t *testing.T) {
	c := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		// Friday 2023-11-10 and Monday 2023-11-13, both 15:00 UTC.
		fmt.Fprint(w, chartPayloadAt("[1699628400,1699887600]", "[123.45,124.10]"))
	})

	price, err := c.PriceAt(context.Background(), "ACME", time.Date(2023, 11, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 123.45, price)
}

// With no close at or before the requested day, the next available close is
// better than nothing.
func TestYahooPriceAtFallsForward(t *testing.T) {
	c := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayloadAt("[1699628400,1699887600]", "[123.45,124.10]"))
	})

	price, err := c.PriceAt(context.Background(), "ACME", time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 124.10, price)
}

func TestYahooPriceAtSkipsNullCloses(t *testing.T) {
	c := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload("[null,124.10]"))
	})

	price, err := c.PriceAt(context.Background(), "ACME", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 124.10, price)
}

func TestYahooPriceAtNoData(t *testing.T) {
	c := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload("[null,null]"))
	})

	_, err := c.PriceAt(context.Background(), "ACME", time.Now())
	assert.Error(t, err)
}

func TestYahooPriceAtAPIError(t *testing.T) {
	c := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	_, err := c.PriceAt(context.Background(), "NOPE", time.Now())
	assert.ErrorContains(t, err, "delisted")
}

func TestYahooPriceAtHTTPError(t *testing.T) {
	c := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.PriceAt(context.Background(), "ACME", time.Now())
	assert.ErrorContains(t, err, "429")
}

func TestYahooName(t *testing.T) {
	c := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload("[1.0]"))
	})

	name, err := c.Name(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", name)
}
