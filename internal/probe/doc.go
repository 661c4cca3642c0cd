// Package probe runs ffprobe and parses its JSON output into stream,
// format, and chapter records.
package probe
