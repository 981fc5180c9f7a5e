// Package lesson parses the tag-based lesson authoring format. A source
// document is split into blocks on separator lines of three or more '='
// characters, and each block is parsed into a Record of tagged fields.
package lesson
