package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics up to a limit; the rest are counted.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(limit int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, min(max(limit, 0), 64)), max: limit}
}

// Add reports false once the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Count returns how many held diagnostics have severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped counts diagnostics refused because the bag was full.
func (b *Bag) Dropped() int { return b.dropped }

// Items возвращает срез только для чтения.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends everything from other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.max = max(b.max, len(b.items)+len(other.items))
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Sort orders by file and position; errors first at equal spans.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
