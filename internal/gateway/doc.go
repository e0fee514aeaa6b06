// Package gateway orchestrates the santa-exchange server components.
//
// The Gateway struct owns the durable store, the in-memory wish-note board
// seeded from it, the session registry, the draw engine, and the HTTP server.
// New wires everything from a config.Config; Run serves until the context is
// canceled and then shuts down gracefully with a bounded timeout.
package gateway
