package browsing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTaskRunnerRunsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	teardown := gotestingadapter.QuickConfig(t, "tyweb.browsing")
	defer teardown()
	//
	tr := NewTaskRunner()
	tr.Start()
	var mu sync.Mutex
	var order []int
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		i := i
		tr.Schedule(NewTask("append", func(ctx context.Context) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			if i == 9 {
				close(done)
			}
		}))
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not run")
	}
	tr.Quit()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
	assert.True(t, tr.Idle())
}

func TestTaskRunnerClearPending(t *testing.T) {
	defer goleak.VerifyNone(t)
	teardown := gotestingadapter.QuickConfig(t, "tyweb.browsing")
	defer teardown()
	//
	tr := NewTaskRunner()
	tr.Start()
	started, release := make(chan struct{}), make(chan struct{})
	ran := 0
	tr.Schedule(NewTask("blocking", func(ctx context.Context) {
		close(started)
		<-release
		ran++
	}))
	<-started
	for i := 0; i < 3; i++ {
		tr.Schedule(NewTask("discarded", func(ctx context.Context) {
			ran++
		}))
	}
	kept := make(chan struct{})
	tr.Schedule(NewKeptTask("kept", func(ctx context.Context) {
		ran++
		close(kept)
	}))
	require.Equal(t, 4, tr.Pending())
	assert.False(t, tr.Idle())
	tr.ClearPending()
	assert.Equal(t, 1, tr.Pending())
	close(release)
	select {
	case <-kept:
	case <-time.After(5 * time.Second):
		t.Fatal("kept task did not run")
	}
	tr.Quit()
	assert.Equal(t, 2, ran)
}

func TestTaskRunnerQuitCancelsContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	teardown := gotestingadapter.QuickConfig(t, "tyweb.browsing")
	defer teardown()
	//
	tr := NewTaskRunner()
	tr.Start()
	started := make(chan struct{})
	var err error
	tr.Schedule(NewTask("waiting", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		err = ctx.Err()
	}))
	<-started
	tr.Quit()
	assert.ErrorIs(t, err, context.Canceled)
	tr.Schedule(NewTask("late", func(ctx context.Context) {
		t.Error("task scheduled after quit has been run")
	}))
	assert.Equal(t, 0, tr.Pending())
}
