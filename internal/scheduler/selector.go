package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

const (
	DefaultMinCombinationSize = 2
	DefaultMaxCombinationSize = 5
	// HardMaxCombinationSize bounds the search to O(n^8) combinations.
	HardMaxCombinationSize = 8

	defaultBatchSize = 256
	cancelCheckEvery = 1024
)

// State is the phase a selection request ended in.
type State string

const (
	StateCollecting State = "collecting"
	StateEvaluating State = "evaluating"
	StateFound      State = "found"
	StateNotFound   State = "not_found"
)

// Options configure an Engine.
type Options struct {
	MinSize   int
	MaxSize   int
	Filter    Filter
	Workers   int
	BatchSize int
}

// DefaultOptions mirrors the reference search: sizes 2..5, credits 12..18,
// exact day matching, one worker per CPU.
func DefaultOptions() Options {
	return Options{
		MinSize: DefaultMinCombinationSize,
		MaxSize: DefaultMaxCombinationSize,
		Filter:  DefaultFilter(),
	}
}

// Stats describes the work done by one Select call.
type Stats struct {
	State        State
	Candidates   int
	Combinations uint64
	Evaluated    uint64
	Feasible     uint64
	Rejected     map[Rejection]uint64
}

func (s *Stats) merge(o Stats) {
	s.Evaluated += o.Evaluated
	s.Feasible += o.Feasible
	for reason, count := range o.Rejected {
		s.Rejected[reason] += count
	}
}

// Engine selects the best feasible combination from a candidate pool. It keeps
// no state between calls and is safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine validates opts and fills in defaults.
func NewEngine(opts Options) (*Engine, error) {
	if opts.MinSize == 0 && opts.MaxSize == 0 {
		opts.MinSize, opts.MaxSize = DefaultMinCombinationSize, DefaultMaxCombinationSize
	}
	if opts.MinSize < 1 || opts.MaxSize < opts.MinSize {
		return nil, fmt.Errorf("%w: sizes %d..%d", ErrInvalidBounds, opts.MinSize, opts.MaxSize)
	}
	if opts.MaxSize > HardMaxCombinationSize {
		return nil, fmt.Errorf("%w: max size %d exceeds %d", ErrInvalidBounds, opts.MaxSize, HardMaxCombinationSize)
	}
	if opts.Filter == (Filter{}) {
		opts.Filter = DefaultFilter()
	}
	if opts.Filter.MinCredits < 0 || opts.Filter.MaxCredits < opts.Filter.MinCredits {
		return nil, fmt.Errorf("%w: credit band %d..%d", ErrInvalidOptions, opts.Filter.MinCredits, opts.Filter.MaxCredits)
	}
	policy, err := ParseConflictPolicy(string(opts.Filter.Policy))
	if err != nil {
		return nil, err
	}
	opts.Filter.Policy = policy
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Engine{opts: opts}, nil
}

// Options returns the effective engine options.
func (e *Engine) Options() Options { return e.opts }

// Select evaluates every combination of sections and returns the highest
// scoring feasible one. Ties go to the combination enumerated first. A nil
// result with a nil error means no feasible schedule exists.
func (e *Engine) Select(ctx context.Context, sections []Section, prefs Preferences) (*Result, Stats, error) {
	stats := Stats{State: StateCollecting, Candidates: len(sections), Rejected: make(map[Rejection]uint64)}

	enum, err := NewEnumerator(len(sections), e.opts.MinSize, e.opts.MaxSize)
	if err != nil {
		return nil, stats, err
	}
	stats.Combinations = enum.Count()
	stats.State = StateEvaluating

	var best candidate
	if e.opts.Workers <= 1 {
		best, err = e.evaluateSequential(ctx, enum, sections, prefs, &stats)
	} else {
		best, err = e.evaluateParallel(ctx, enum, sections, prefs, &stats)
	}
	if err != nil {
		return nil, stats, err
	}

	if !best.ok {
		stats.State = StateNotFound
		return nil, stats, nil
	}
	stats.State = StateFound
	return buildResult(sections, best), stats, nil
}

type candidate struct {
	ok    bool
	seq   uint64
	score int
	combo []int
}

// beats reports whether c should replace cur: higher score, or equal score
// enumerated earlier.
func (c candidate) beats(cur candidate) bool {
	if !c.ok {
		return false
	}
	if !cur.ok {
		return true
	}
	if c.score != cur.score {
		return c.score > cur.score
	}
	return c.seq < cur.seq
}

func (e *Engine) evaluate(sections []Section, combo []int, seq uint64, prefs Preferences, best *candidate, stats *Stats) {
	stats.Evaluated++
	if reason := e.opts.Filter.Check(sections, combo, prefs); reason != Accepted {
		stats.Rejected[reason]++
		return
	}
	stats.Feasible++
	c := candidate{ok: true, seq: seq, score: Score(sections, combo, prefs)}
	if c.beats(*best) {
		c.combo = append([]int(nil), combo...)
		*best = c
	}
}

func (e *Engine) evaluateSequential(ctx context.Context, enum *Enumerator, sections []Section, prefs Preferences, stats *Stats) (candidate, error) {
	var best candidate
	var seq uint64
	for combo, ok := enum.Next(); ok; combo, ok = enum.Next() {
		if seq%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return candidate{}, err
			}
		}
		e.evaluate(sections, combo, seq, prefs, &best, stats)
		seq++
	}
	return best, ctx.Err()
}

type batch struct {
	first  uint64
	size   int
	combos []int
}

func (e *Engine) evaluateParallel(ctx context.Context, enum *Enumerator, sections []Section, prefs Preferences, stats *Stats) (candidate, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batches := make(chan batch, e.opts.Workers)
	go func() {
		defer close(batches)
		var seq uint64
		for {
			b := batch{first: seq}
			for b.size < e.opts.BatchSize {
				combo, ok := enum.Next()
				if !ok {
					break
				}
				// length-prefixed so one batch can span a size boundary
				b.combos = append(b.combos, len(combo))
				b.combos = append(b.combos, combo...)
				b.size++
			}
			if b.size == 0 {
				return
			}
			seq += uint64(b.size)
			select {
			case batches <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make([]candidate, e.opts.Workers)
	partials := make([]Stats, e.opts.Workers)
	var wg sync.WaitGroup
	for w := 0; w < e.opts.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := Stats{Rejected: make(map[Rejection]uint64)}
			var best candidate
			for b := range batches {
				if ctx.Err() != nil {
					continue
				}
				pos := 0
				for i := 0; i < b.size; i++ {
					n := b.combos[pos]
					combo := b.combos[pos+1 : pos+1+n]
					pos += n + 1
					e.evaluate(sections, combo, b.first+uint64(i), prefs, &best, &local)
				}
			}
			results[w] = best
			partials[w] = local
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return candidate{}, err
	}

	var best candidate
	for w := range results {
		stats.merge(partials[w])
		if results[w].beats(best) {
			best = results[w]
		}
	}
	return best, nil
}

func buildResult(sections []Section, best candidate) *Result {
	chosen := make([]Section, 0, len(best.combo))
	for _, idx := range best.combo {
		chosen = append(chosen, sections[idx])
	}
	return &Result{
		Sections:     chosen,
		TotalCredits: TotalCredits(sections, best.combo),
		Score:        best.score,
	}
}
