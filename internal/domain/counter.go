package domain

import (
	"encoding/json"
	"sort"
)

// Counter counts occurrences of string keys and remembers the order in which
// keys were first added, so MostCommon breaks count ties deterministically.
type Counter struct {
	counts map[string]int
	order  []string
}

// Entry is a single counted key.
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments the count for key.
func (c *Counter) Add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Count returns the count for key, zero if the key was never added.
func (c *Counter) Count(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.counts)
}

// Counts returns a copy of the key -> count table.
func (c *Counter) Counts() map[string]int {
	out := make(map[string]int, len(c.counts))
	for key, count := range c.counts {
		out[key] = count
	}
	return out
}

// MostCommon returns the entries ordered by descending count; entries with
// equal counts keep the order their keys were first added. A positive n
// limits the result to the n most common entries, n <= 0 returns all.
func (c *Counter) MostCommon(n int) []Entry {
	entries := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, Entry{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// MarshalJSON renders the counter as a plain key -> count object.
func (c *Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.counts)
}
