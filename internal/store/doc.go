// Package store provides durable persistence for wish notes.
//
// # Architecture
//
// The Store interface covers the two operations the exchange needs: LoadAll
// reads every record at startup (the board holds the working set in memory),
// and Put writes one full record. Two implementations exist:
//
//   - SQLiteStore: a single wishes table in a SQLite database (the default)
//   - FileStore: one JSON document per author in a directory, compatible with
//     data directories written by earlier deployments
//
// Both implementations write complete records. Assignment updates go through
// Put with the full note, never a partial update, so a record on disk is
// always internally consistent.
package store
