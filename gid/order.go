package gid

const (
	// DefaultSlack is the headroom multiplier applied to observed branching
	// factors when an order table is derived during ingest. A freshly stored
	// document reserves more slots per level than its widest node needs so
	// that later tooling has room to address inserted positions.
	DefaultSlack = 2

	// MinLevelOrder is the floor applied to every derived order table entry.
	MinLevelOrder = 4
)

// OrderWithSlack derives an order table from the per-level maximum branching
// observed while parsing a document. Each entry is scaled by slack and
// clamped up to MinLevelOrder. A slack below 1 is treated as 1.
//
// The result still has to pass NewGrid validation; a document deep and wide
// enough to exhaust 64 bit identifier space is rejected there.
func OrderWithSlack(observed []uint64, slack uint64) []uint64 {
	if slack < 1 {
		slack = 1
	}
	order := make([]uint64, len(observed))
	for i, o := range observed {
		o *= slack
		if o < MinLevelOrder {
			o = MinLevelOrder
		}
		order[i] = o
	}
	return order
}
