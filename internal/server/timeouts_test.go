package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0de128/4seasons/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	srv := New(config.HTTP{ListenAddr: ":0", WriteTimeout: 30 * time.Second}, http.NotFoundHandler())
	assert.Equal(t, defaultRead, srv.ReadTimeout)
	assert.Equal(t, 30*time.Second, srv.WriteTimeout)
	assert.Equal(t, defaultIdle, srv.IdleTimeout)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := New(config.HTTP{ListenAddr: "127.0.0.1:0"}, http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
