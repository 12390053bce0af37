package service

import (
	"fmt"
	"sync"
	"time"
)

// BillNumberGenerator issues "BILL" + 13-digit unix millis + 3-digit sequence.
// Numbers are strictly increasing within a process, including across clock
// steps backwards. Across instances the unique index on orders.bill_number
// rejects a repeat and CreateOrder retries with the next number.
type BillNumberGenerator struct {
	mu         sync.Mutex
	lastMillis int64
	seq        int
}

func NewBillNumberGenerator() *BillNumberGenerator {
	return &BillNumberGenerator{}
}

func (g *BillNumberGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= g.lastMillis {
		g.seq++
		if g.seq > 999 {
			// borrow the next millisecond rather than widen the number
			g.lastMillis++
			g.seq = 0
		}
	} else {
		g.lastMillis = ms
		g.seq = 0
	}
	return fmt.Sprintf("BILL%013d%03d", g.lastMillis, g.seq)
}
