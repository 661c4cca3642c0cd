// Command ripkit is the CLI for the ripkit media toolkit: DVD
// processing, conversion, probing, scanning, Plex, and Git workflows.
package main
