// Package plex talks to a Plex Media Server over its HTTP API: token
// sign-in, library section listing, and library refresh triggers.
package plex
