package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dhamidi/arith/expr"
)

func TestLines(t *testing.T) {
	input := "1 + 1\n\n   \n2 * (3\n4 / 2\n"
	items, err := Lines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	want := []Item{{1, "1 + 1"}, {4, "2 * (3"}, {5, "4 / 2"}}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestRun(t *testing.T) {
	var items []Item
	for i := 1; i <= 200; i++ {
		items = append(items, Item{Line: i, Input: fmt.Sprintf("%d * 2 + 1", i)})
	}
	items = append(items, Item{Line: 201, Input: "1 / 0"})

	results, summary, err := New(WithWorkers(8)).Run(context.Background(), items)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i := 0; i < 200; i++ {
		if results[i].Err != nil {
			t.Fatalf("result %d: %v", i, results[i].Err)
		}
		if want := int64(i+1)*2 + 1; results[i].Value != want {
			t.Errorf("result %d = %d, want %d", i, results[i].Value, want)
		}
	}
	if !errors.Is(results[200].Err, expr.ErrDivisionByZero) {
		t.Errorf("last result error = %v, want division by zero", results[200].Err)
	}
	if summary.Total != 201 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRunReportsFileLine(t *testing.T) {
	items := []Item{{Line: 7, Input: "(1 + 2"}}
	results, _, err := New(WithWorkers(1), WithFile("sums.arith")).Run(context.Background(), items)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	pos, ok := expr.ErrorPosition(results[0].Err)
	if !ok {
		t.Fatalf("no position in %v", results[0].Err)
	}
	if got, want := pos.String(), "sums.arith:7:7"; got != want {
		t.Errorf("position = %s, want %s", got, want)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []Item{{Input: "1"}, {Input: "2"}}
	results, summary, err := New().Run(ctx, items)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i, r.Err)
		}
	}
	if summary.Failed != 2 {
		t.Errorf("Failed = %d, want 2", summary.Failed)
	}
}
