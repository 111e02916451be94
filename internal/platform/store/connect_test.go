package store

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"rephraser/internal/platform/testkit"
)

func TestRetry(t *testing.T) {
	testkit.Serial(t)

	var waits []time.Duration
	testkit.Swap(t, &pause, func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	})

	refused := errors.New("connection refused")
	cases := []struct {
		name     string
		attempts int
		failures int
		ctx      func() context.Context
		waits    []time.Duration
		is       error
	}{
		{"first try", 3, 0, context.Background, nil, nil},
		{"third try", 5, 2, context.Background, []time.Duration{150 * time.Millisecond, 300 * time.Millisecond}, nil},
		{"gives up", 2, 9, context.Background, []time.Duration{150 * time.Millisecond}, refused},
		{"caps backoff", 7, 9, context.Background, []time.Duration{
			150 * time.Millisecond, 300 * time.Millisecond, 600 * time.Millisecond,
			1200 * time.Millisecond, 2 * time.Second, 2 * time.Second,
		}, refused},
		{"canceled", 3, 9, func() context.Context {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx
		}, []time.Duration{150 * time.Millisecond}, context.Canceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			waits = nil
			calls, reported := 0, 0
			err := retry(tc.ctx(), tc.attempts, func() error {
				calls++
				if calls <= tc.failures {
					return refused
				}
				return nil
			}, func(n int, err error) {
				reported++
				if n != reported || !errors.Is(err, refused) {
					t.Fatalf("failed(%d, %v)", n, err)
				}
			})
			if tc.is == nil && err != nil || tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("err = %v, want %v", err, tc.is)
			}
			if !slices.Equal(waits, tc.waits) {
				t.Fatalf("waits = %v, want %v", waits, tc.waits)
			}
		})
	}
}
