package predictedit

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLutCachePreload(t *testing.T) {
	c := NewLutCache()
	assert.False(t, c.Has("corners"))

	first, err := c.Preload("corners", cornersCube)
	require.NoError(t, err)
	assert.True(t, c.Has("corners"))

	// Insert-if-absent: a second source for the same id is ignored.
	second, err := c.Preload("corners", "LUT_3D_SIZE 3\n")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = c.Preload("broken", "1 2 3\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoLutSize))
	assert.False(t, c.Has("broken"))

	c.Store("identity", IdentityLut(2))
	assert.Equal(t, []string{"corners", "identity"}, c.IDs())
}

func TestLutCacheApplyPassThrough(t *testing.T) {
	c := NewLutCache()
	buf := patternRaster(3, 3, 0, 255)

	assert.Same(t, buf, c.Apply(buf, "missing", 1))
	assert.Same(t, buf, c.Apply(buf, "", 1))

	var nilCache *LutCache
	assert.Same(t, buf, nilCache.Apply(buf, "missing", 1))

	c.Store("identity", IdentityLut(5))
	assert.Same(t, buf, c.Apply(buf, "identity", 0))
	assert.Same(t, buf, c.Apply(buf, "identity", -1))
	assert.NotSame(t, buf, c.Apply(buf, "identity", 0.5))
}

func TestLutCachePreloadFuncDeduplicates(t *testing.T) {
	c := NewLutCache()

	var calls atomic.Int32
	fetch := func(_ context.Context, id string) (io.ReadCloser, error) {
		calls.Add(1)
		return io.NopCloser(strings.NewReader(cornersCube)), nil
	}

	var (
		wg   sync.WaitGroup
		luts = make([]*Lut, 16)
	)
	for i := range luts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := c.PreloadFunc(context.Background(), "corners", fetch)
			if err != nil {
				t.Errorf("preload: %v", err)
				return
			}
			luts[i] = l
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, l := range luts {
		assert.Same(t, luts[0], l)
	}
}

func TestLutCachePreloadAll(t *testing.T) {
	c := NewLutCache()
	fetch := func(_ context.Context, id string) (io.ReadCloser, error) {
		switch id {
		case "missing":
			return nil, errors.New("not found")
		case "broken":
			return io.NopCloser(strings.NewReader("0 0 0\n")), nil
		default:
			return io.NopCloser(strings.NewReader(cornersCube)), nil
		}
	}

	failed, err := c.PreloadAll(context.Background(), []string{"a", "missing", "b", "broken"}, fetch)
	require.NoError(t, err)
	assert.Len(t, failed, 2)
	assert.Contains(t, failed, "missing")
	assert.True(t, errors.Is(failed["broken"], ErrNoLutSize))
	assert.Equal(t, []string{"a", "b"}, c.IDs())
}

func TestLutCachePreloadAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewLutCache()
	_, err := c.PreloadAll(ctx, []string{"a"}, func(context.Context, string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(cornersCube)), nil
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, c.Has("a"))
}

func TestNilLutCache(t *testing.T) {
	var c *LutCache
	fetch := func(_ context.Context, _ string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(cornersCube)), nil
	}

	assert.Nil(t, c.IDs())
	assert.False(t, c.Has("corners"))

	l, err := c.Preload("corners", cornersCube)
	require.NoError(t, err)
	assert.Same(t, l, c.Store("corners", l))

	l, err = c.PreloadFunc(context.Background(), "corners", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Size)
	assert.False(t, c.Has("corners"))

	failed, err := c.PreloadAll(context.Background(), []string{"a", "b"}, fetch)
	require.NoError(t, err)
	assert.Empty(t, failed)

	px := NewFilledRaster(1, 1, 1, 2, 3, 255)
	assert.Same(t, px, c.Apply(px, "corners", 1))
}

func TestLutCachePreloadFuncNilFetcher(t *testing.T) {
	_, err := NewLutCache().PreloadFunc(context.Background(), "x", nil)
	assert.True(t, errors.Is(err, ErrNoFetcher))

	var c *LutCache
	_, err = c.PreloadFunc(context.Background(), "x", nil)
	assert.True(t, errors.Is(err, ErrNoFetcher))
}
