// Package notes holds the authoritative in-memory set of wish notes and
// guards every mutation behind the durable store: a record is written to
// disk before it becomes visible in memory.
package notes
