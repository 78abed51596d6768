package logger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type traceKey struct{}

func TestFields(t *testing.T) {
	ctx := logger.WithFields(t.Context())

	logger.AddFields(ctx, "product_id", "p1")
	logger.AddFields(ctx, "owner_id", "u1")

	assert.Equal(t, []any{"product_id", "p1", "owner_id", "u1"}, logger.Fields(ctx))
}

func TestFieldsWithoutWrap(t *testing.T) {
	ctx := t.Context()

	logger.AddFields(ctx, "product_id", "p1")

	assert.Empty(t, logger.Fields(ctx))
}

func TestFieldsSharedWithDerivedContexts(t *testing.T) {
	ctx := logger.WithFields(t.Context())
	assert.Equal(t, ctx, logger.WithFields(ctx))

	// a usecase usually sees a context derived from the request one
	child, cancel := context.WithCancel(context.WithValue(ctx, traceKey{}, "t1"))
	defer cancel()
	logger.AddFields(child, "product_id", "p1")

	assert.Equal(t, []any{"product_id", "p1"}, logger.Fields(ctx))
}

func TestFieldsReturnsCopy(t *testing.T) {
	ctx := logger.WithFields(t.Context())
	logger.AddFields(ctx, "product_id", "p1")

	fields := logger.Fields(ctx)
	fields[1] = "changed"

	assert.Equal(t, []any{"product_id", "p1"}, logger.Fields(ctx))
}

func TestAddFieldsConcurrent(t *testing.T) {
	ctx := logger.WithFields(t.Context())
	const workers = 20

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			logger.AddFields(ctx, "k", "v")
			_ = logger.Fields(ctx)
		}()
	}
	wg.Wait()

	assert.Len(t, logger.Fields(ctx), workers*2)
}

func TestMustNamed(t *testing.T) {
	l := logger.MustNamed("test")
	require.NotNil(t, l)
	assert.Equal(t, "test", l.Desugar().Name())
}
