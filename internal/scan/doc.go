// Package scan filters candidate video files by pattern and size, and
// probed audio streams by language.
package scan
