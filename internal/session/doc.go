// Package session manages anonymous participant identity for the exchange.
// Visitors are identified only by an opaque token; a one-shot flash signal
// per token carries submit/draw success notices across the redirect.
package session
