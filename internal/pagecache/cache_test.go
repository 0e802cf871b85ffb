package pagecache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func page(body string) RenderFunc {
	return func() (*Page, bool, error) {
		return &Page{Status: 200, Body: []byte(body)}, true, nil
	}
}

func TestGet_MissThenHit(t *testing.T) {
	c := New(time.Minute, 10, time.Hour)
	defer c.Close()

	p, hit, err := c.Get("/a", page("a"))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "a", string(p.Body))

	p, hit, err = c.Get("/a", page("other"))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "a", string(p.Body))
}

func TestGet_CollapsesConcurrentMisses(t *testing.T) {
	c := New(time.Minute, 10, time.Hour)
	defer c.Close()

	var renders atomic.Int32
	release := make(chan struct{})
	render := func() (*Page, bool, error) {
		renders.Add(1)
		<-release
		return &Page{Body: []byte("x")}, true, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := c.Get("/slow", render)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, renders.Load())
}

func TestGet_ErrorsAndUncacheable(t *testing.T) {
	c := New(time.Minute, 10, time.Hour)
	defer c.Close()

	_, _, err := c.Get("/boom", func() (*Page, bool, error) { return nil, false, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Zero(t, c.Len())

	_, _, err = c.Get("/404", func() (*Page, bool, error) { return &Page{Status: 404}, false, nil })
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestEvict_IdleAndLRU(t *testing.T) {
	c := New(time.Minute, 3, time.Hour)
	defer c.Close()

	for i := 0; i < 5; i++ {
		_, _, err := c.Get(fmt.Sprintf("/p%d", i), page("x"))
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	// Touch /p0 so it becomes most recent.
	_, hit, _ := c.Get("/p0", page("x"))
	require.True(t, hit)

	assert.Equal(t, 2, c.evict(time.Now()))
	assert.Equal(t, 3, c.Len())
	_, hit, _ = c.Get("/p0", page("x"))
	assert.True(t, hit, "recently used entry survives LRU")

	assert.Equal(t, 3, c.evict(time.Now().Add(2*time.Minute)))
	assert.Zero(t, c.Len())
}

func TestInvalidateAndPurge(t *testing.T) {
	c := New(time.Minute, 10, time.Hour)
	defer c.Close()

	_, _, _ = c.Get("/a", page("a"))
	_, _, _ = c.Get("/b", page("b"))
	c.Invalidate("/a")
	assert.Equal(t, 1, c.Len())
	c.Purge()
	assert.Zero(t, c.Len())
}

func TestInvalidatePrefix_DropsVariants(t *testing.T) {
	c := New(time.Minute, 10, time.Hour)
	defer c.Close()

	for _, k := range []string{"/calc", "/calc#TX", "/calc#", "/calculators", "/calc/x"} {
		_, _, _ = c.Get(k, page(k))
	}
	c.InvalidatePrefix("/calc")

	assert.Equal(t, 2, c.Len())
	_, hit, _ := c.Get("/calculators", page("x"))
	assert.True(t, hit)
	_, hit, _ = c.Get("/calc/x", page("x"))
	assert.True(t, hit)
}

func TestClose_StopsEvictor(t *testing.T) {
	c := New(time.Minute, 10, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	c.Close()
	c.Close()
}
