package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackground_RunsJobsInOrder(t *testing.T) {
	var (
		b   background
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 100; i++ {
		i := i
		b.Go("job", func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, i)
			return nil
		})
	}
	b.Wait()

	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestBackground_FailureDoesNotStopQueue(t *testing.T) {
	var b background
	ran := false

	b.Go("failing", func(context.Context) error { return errors.New("boom") })
	b.Go("next", func(context.Context) error {
		ran = true
		return nil
	})
	b.Wait()

	assert.True(t, ran)
}
