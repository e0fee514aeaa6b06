// Package draw implements the santa assignment algorithm: each wish note is
// claimed by exactly one santa, with no double assignment under concurrent
// requests.
package draw
