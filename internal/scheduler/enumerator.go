package scheduler

import (
	"fmt"
	"math"
)

// Enumerator lazily walks every index subset of [0, n) with sizes between min
// and max. Sizes ascend; within a size, subsets come out in lexicographic order.
type Enumerator struct {
	n       int
	min     int
	max     int
	size    int
	indices []int
	started bool
	done    bool
}

// NewEnumerator validates the bounds and returns a fresh enumerator. A max
// larger than n is clamped to n.
func NewEnumerator(n, min, max int) (*Enumerator, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative candidate count %d", ErrInvalidBounds, n)
	}
	if min < 1 || max < min {
		return nil, fmt.Errorf("%w: sizes %d..%d", ErrInvalidBounds, min, max)
	}
	if max > n {
		max = n
	}
	e := &Enumerator{n: n, min: min, max: max, size: min}
	e.done = min > max
	return e, nil
}

// Next returns the next combination. The returned slice is reused between
// calls; copy it to keep it.
func (e *Enumerator) Next() ([]int, bool) {
	if e.done {
		return nil, false
	}
	if !e.started {
		e.started = true
		e.reset()
		return e.indices, true
	}
	if e.advance() {
		return e.indices, true
	}
	e.size++
	if e.size > e.max {
		e.done = true
		e.indices = nil
		return nil, false
	}
	e.reset()
	return e.indices, true
}

// Count returns the total number of combinations, saturating at math.MaxUint64.
func (e *Enumerator) Count() uint64 {
	var total uint64
	for r := e.min; r <= e.max; r++ {
		c := binomial(e.n, r)
		if total > math.MaxUint64-c {
			return math.MaxUint64
		}
		total += c
	}
	return total
}

func (e *Enumerator) reset() {
	if cap(e.indices) < e.size {
		e.indices = make([]int, e.size)
	}
	e.indices = e.indices[:e.size]
	for i := range e.indices {
		e.indices[i] = i
	}
}

func (e *Enumerator) advance() bool {
	k := e.size
	i := k - 1
	for i >= 0 && e.indices[i] == e.n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	e.indices[i]++
	for j := i + 1; j < k; j++ {
		e.indices[j] = e.indices[j-1] + 1
	}
	return true
}

func binomial(n, r int) uint64 {
	if r < 0 || r > n {
		return 0
	}
	if r > n-r {
		r = n - r
	}
	var result uint64 = 1
	for i := 1; i <= r; i++ {
		next := result * uint64(n-r+i)
		if next/uint64(n-r+i) != result {
			return math.MaxUint64
		}
		result = next / uint64(i)
	}
	return result
}
