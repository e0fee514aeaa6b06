// Package event loads the per-event manifest controlling what the exchange
// currently allows: whether submissions are open, whether the draw is open,
// and what greeting the listing page shows.
package event
