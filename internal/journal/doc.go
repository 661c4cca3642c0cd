// Package journal records processing runs and their per-phase outcomes
// in a SQLite database for the history command.
package journal
