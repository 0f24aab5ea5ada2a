package matcher

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
)

// ProgressFunc receives completion fractions in [0, 1] during long passes.
type ProgressFunc func(fraction float64)

// runInParallel fans worker out over items on a bounded pool and waits for
// completion. Progress is reported at a stride of len(items)/200 so huge work
// sets don't drown the receiver. Any worker error aborts the call; an empty
// work set returns immediately.
func runInParallel[T any](items []T, worker func(T) error, progress ProgressFunc) error {
	if len(items) == 0 {
		return nil
	}

	var done atomic.Int64

	stride := max(1, len(items)/200)

	p := pool.New().WithErrors().WithMaxGoroutines(runtime.NumCPU() * 2)
	for _, item := range items {
		p.Go(func() error {
			if err := worker(item); err != nil {
				return err
			}

			n := done.Add(1)

			if n%int64(stride) == 0 && progress != nil {
				progress(float64(n) / float64(len(items)))
			}

			return nil
		})
	}

	return p.Wait()
}

// pairList collects subject/peer pairs from concurrent workers in completion
// order. The serial commit phase walks the pairs in that order.
type pairList[T any] struct {
	mu    sync.Mutex
	pairs []matchPair[T]
}

type matchPair[T any] struct {
	subject T
	peer    T
}

func (l *pairList[T]) add(subject, peer T) {
	l.mu.Lock()
	l.pairs = append(l.pairs, matchPair[T]{subject: subject, peer: peer})
	l.mu.Unlock()
}

// sanitize drops every pair whose peer was chosen by more than one subject.
// Conflicts are discarded, not resolved.
func sanitize[T comparable](pairs []matchPair[T]) []matchPair[T] {
	claims := make(map[T]int, len(pairs))

	for _, p := range pairs {
		claims[p.peer]++
	}

	out := pairs[:0]

	for _, p := range pairs {
		if claims[p.peer] == 1 {
			out = append(out, p)
		}
	}

	return out
}
