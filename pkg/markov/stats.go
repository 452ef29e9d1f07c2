package markov

// Stats holds aggregated statistics for a chain.
type Stats struct {
	Order          int // The n-gram order
	Contexts       int // The number of unique context keys
	TotalLinks     int // The number of unique context->next_token links
	TotalFrequency int // The sum of all link counts; the number of trained windows
}

// Stats returns a snapshot of statistics for the chain.
func (c *Chain) Stats() Stats {
	s := Stats{
		Order:    c.order,
		Contexts: len(c.transitions),
	}
	for _, t := range c.transitions {
		s.TotalLinks += len(t.tokens)
		s.TotalFrequency += t.total()
	}
	return s
}
