package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueueFIFO(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, "pptgen-a"))
	require.NoError(t, q.Push(ctx, "pptgen-b"))

	first, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pptgen-a", first)

	second, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pptgen-b", second)
}

func TestMemoryQueuePopBlocksUntilCancel(t *testing.T) {
	q := NewMemoryQueue(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryQueuePushFullCancel(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, "pptgen-a"))

	fullCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	err := q.Push(fullCtx, "pptgen-b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryQueueDefaultSize(t *testing.T) {
	q := NewMemoryQueue(0)
	assert.Equal(t, 64, cap(q.ch))
}
