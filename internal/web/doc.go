// Package web is the HTML surface of the exchange: the listing page, the
// wish submission form, and the draw button. It owns the mapping from core
// domain errors to response status codes and fixed error messages.
package web
