// Package encode translates typed encoding intent into ordered FFmpeg
// and HandBrakeCLI argument lists.
package encode
