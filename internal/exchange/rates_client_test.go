package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatesClient_FetchRates(t *testing.T) {
	t.Parallel()

	t.Run("single GET without parameters", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/exchange/rates", r.URL.Path)
			assert.Empty(t, r.URL.RawQuery)
			_, _ = w.Write([]byte(sampleKoreaExim))
		}))
		defer srv.Close()

		client := NewRatesClient(srv.URL+"/api/exchange/rates", nil)
		got, err := client.FetchRates(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, int32(1), hits.Load())
	})

	t.Run("drops undecodable elements", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"cur_unit":"USD","cur_nm":"US Dollar","deal_bas_r":"1,300.00"},{"cur_unit":42},"x"]`))
		}))
		defer srv.Close()

		got, err := NewRatesClient(srv.URL, nil).FetchRates(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "USD", got[0].CurUnit)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewRatesClient(srv.URL, nil).FetchRates(context.Background())
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	})

	t.Run("null body is malformed", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`null`))
		}))
		defer srv.Close()

		_, err := NewRatesClient(srv.URL, nil).FetchRates(context.Background())
		require.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewRatesClient(srv.URL, nil).FetchRates(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
