// Package batch evaluates many expressions concurrently.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/dhamidi/arith/expr"
	"github.com/dhamidi/arith/format"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("arith.batch")

// Item is one expression to evaluate. Line is the 1-based line it was read
// from, or 0 when it did not come from a file.
type Item struct {
	Line  int
	Input string
}

type Summary struct {
	Total     int
	Failed    int
	StartedAt time.Time
	EndedAt   time.Time
}

func (s Summary) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

type Option func(*Runner)

// WithWorkers sets the number of concurrent evaluators. Values below 1 mean
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithFile sets the file name reported in error positions.
func WithFile(path string) Option {
	return func(r *Runner) {
		r.file = path
	}
}

type Runner struct {
	workers int
	file    string
}

func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.NumCPU()
	}
	return r
}

// Lines reads every non-blank line of rd as an Item.
func Lines(rd io.Reader) ([]Item, error) {
	var items []Item
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		items = append(items, Item{Line: line, Input: text})
	}
	if err := sc.Err(); err != nil {
		return items, fmt.Errorf("read line %d: %w", line+1, err)
	}
	return items, nil
}

// Run evaluates items with a pool of workers, each with its own Evaluator.
// Results are returned in input order. Items not started before ctx is done
// carry ctx.Err() as their error, and Run returns it as well.
func (r *Runner) Run(ctx context.Context, items []Item) ([]format.Result, Summary, error) {
	summary := Summary{Total: len(items), StartedAt: time.Now()}
	results := make([]format.Result, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.evaluate(items[i])
			}
		}()
	}

	log.Debugf("evaluating %d expressions with %d workers", len(items), r.workers)

	next := 0
feed:
	for ; next < len(items) && ctx.Err() == nil; next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(items); i++ {
		results[i] = format.Result{Input: items[i].Input, Err: ctx.Err()}
	}
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
		}
	}
	summary.EndedAt = time.Now()

	if next < len(items) {
		log.Warningf("cancelled after %d of %d expressions", next, len(items))
		return results, summary, ctx.Err()
	}
	log.Infof("evaluated %d expressions, %d failed, in %s", summary.Total, summary.Failed, summary.Duration())
	return results, summary, nil
}

func (r *Runner) evaluate(item Item) format.Result {
	opts := []expr.Option{expr.WithFile(r.file)}
	if item.Line > 0 {
		opts = append(opts, expr.WithStartLine(item.Line))
	}
	return format.Evaluate(item.Input, opts...)
}
