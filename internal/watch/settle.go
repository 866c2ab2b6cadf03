package watch

import (
	"context"
	"os"
	"time"
)

const (
	DefaultSettleDelay = 500 * time.Millisecond

	settlePoll   = 50 * time.Millisecond
	settleChecks = 20
)

// Settler waits for an editor to finish writing a file: a fixed delay, then
// until two consecutive size checks agree.
type Settler struct {
	Delay time.Duration
}

// Wait returns early only when ctx is done.
func (s Settler) Wait(ctx context.Context, path string) error {
	if err := sleep(ctx, s.Delay); err != nil {
		return err
	}
	last := fileSize(path)
	for range settleChecks {
		if err := sleep(ctx, settlePoll); err != nil {
			return err
		}
		size := fileSize(path)
		if size == last {
			return nil
		}
		last = size
	}
	return nil
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return fi.Size()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
