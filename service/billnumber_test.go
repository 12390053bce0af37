package service

import (
	"sync"
	"testing"
	"time"
)

func TestBillNumberFormat(t *testing.T) {
	g := NewBillNumberGenerator()
	now := time.UnixMilli(1710417600123)
	if got := g.Next(now); got != "BILL1710417600123000" {
		t.Errorf("first = %s", got)
	}
	if got := g.Next(now); got != "BILL1710417600123001" {
		t.Errorf("second = %s", got)
	}
	if got := g.Next(now.Add(time.Millisecond)); got != "BILL1710417600124000" {
		t.Errorf("next millisecond = %s", got)
	}
}

func TestBillNumberSequenceOverflow(t *testing.T) {
	g := NewBillNumberGenerator()
	now := time.UnixMilli(1710417600000)
	var last string
	for i := 0; i < 1001; i++ {
		last = g.Next(now)
	}
	if last != "BILL1710417600001000" {
		t.Errorf("after 1001 in one millisecond = %s", last)
	}
}

func TestBillNumbersUniqueAndIncreasing(t *testing.T) {
	g := NewBillNumberGenerator()
	now := time.UnixMilli(1710417600000)

	const workers, per = 8, 400
	var (
		mu   sync.Mutex
		seen = make(map[string]bool, workers*per)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				n := g.Next(now)
				mu.Lock()
				if seen[n] {
					t.Errorf("duplicate bill number %s", n)
				}
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// a clock step backwards must not reuse numbers
	prev := g.Next(now)
	if next := g.Next(now.Add(-time.Hour)); next <= prev {
		t.Errorf("after clock step back: %s <= %s", next, prev)
	}
}
