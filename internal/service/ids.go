package service

import "fmt"

const ticketIDPrefix = "tick"

// IDGenerator hands out sequential ticket identifiers.
// The counter is process local, so each candidate is re-checked against
// the collection and skipped when an imported ticket already holds it.
type IDGenerator struct {
	last  int
	taken func(id string) bool
}

// NewIDGenerator builds a generator that consults taken before issuing an id.
func NewIDGenerator(taken func(id string) bool) *IDGenerator {
	if taken == nil {
		taken = func(string) bool { return false }
	}
	return &IDGenerator{taken: taken}
}

// Next returns the next free identifier, e.g. tick001.
func (g *IDGenerator) Next() string {
	for {
		g.last++
		id := formatTicketID(g.last)
		if !g.taken(id) {
			return id
		}
	}
}

func formatTicketID(n int) string {
	return fmt.Sprintf("%s%03d", ticketIDPrefix, n)
}
