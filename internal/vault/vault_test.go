package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKV answers KV-v2 reads for secret/site/db.
func fakeKV(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/site/db" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"password":"s3cret","port":3306},"metadata":{"version":1}}}`))
	}))
}

func TestResolve_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := fakeKV(t, &hits)
	defer srv.Close()

	cli, err := New(context.Background(), Options{Address: srv.URL, Token: "test", CacheTTL: time.Minute})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := cli.Resolve(context.Background(), "secret/site/db#password")
		require.NoError(t, err)
		assert.Equal(t, "s3cret", v)
	}
	assert.EqualValues(t, 1, hits.Load())
}

func TestGetKV_Errors(t *testing.T) {
	var hits atomic.Int32
	srv := fakeKV(t, &hits)
	defer srv.Close()

	cli, err := New(context.Background(), Options{Address: srv.URL, Token: "test"})
	require.NoError(t, err)

	_, err = cli.GetKV(context.Background(), "secret/site/db", "missing", 0)
	assert.ErrorContains(t, err, "not found")

	_, err = cli.GetKV(context.Background(), "secret/site/db", "port", 0)
	assert.ErrorContains(t, err, "want string")

	_, err = cli.GetKV(context.Background(), "", "k", 0)
	assert.Error(t, err)
}

func TestParseRef(t *testing.T) {
	path, key, err := ParseRef("secret/site/db#password")
	require.NoError(t, err)
	assert.Equal(t, "secret/site/db", path)
	assert.Equal(t, "password", key)

	for _, bad := range []string{"", "secret/site/db", "secret#k", "secret/x#", "#k"} {
		_, _, err := ParseRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("secret/site/db")
	assert.Equal(t, "secret", m)
	assert.Equal(t, "site/db", r)
}
