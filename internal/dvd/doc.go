// Package dvd orchestrates processing of ripped DVD output: directory
// creation, episode metadata lookup, file copy and rename, and the
// optional chapter extraction, caption extraction, and conversion
// phases. Phases run strictly in order and the first failure aborts
// the run.
package dvd
