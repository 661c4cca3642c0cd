// Package tvdb looks up television episode metadata from the TVDb v4
// API for output file naming.
package tvdb
