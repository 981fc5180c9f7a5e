// Package level defines the compiled lesson document consumed by the playback
// app and writes it to the assets directory.
package level
