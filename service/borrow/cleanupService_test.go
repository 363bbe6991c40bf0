package borrowsvc_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"libraryapi/model"
	"libraryapi/repository/memory"
	borrowsvc "libraryapi/service/borrow"

	"github.com/stretchr/testify/require"
)

func TestPurgeOrphans(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seed(t, st, "kept", "Kept", "k", 5)

	require.NoError(t, st.Borrows().Create(ctx, &model.Borrow{ID: "1", BookID: "kept", Quantity: 1, DueDate: due}))
	require.NoError(t, st.Borrows().Create(ctx, &model.Borrow{ID: "2", BookID: "gone", Quantity: 2, DueDate: due}))
	require.NoError(t, st.Borrows().Create(ctx, &model.Borrow{ID: "3", BookID: "gone", Quantity: 1, DueDate: due}))

	n, err := borrowsvc.NewCleaner(st.Borrows()).PurgeOrphans(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	sum, err := st.Borrows().Summary(ctx)
	require.NoError(t, err)
	require.Len(t, sum, 1)
	require.Equal(t, "Kept", sum[0].Book.Title)
}

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) PurgeOrphans(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, nil
}

func TestRunCleaner_StopsWithContext(t *testing.T) {
	c := &countingCleaner{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		borrowsvc.RunCleaner(ctx, c, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	require.Eventually(t, func() bool { return c.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop")
	}
}
