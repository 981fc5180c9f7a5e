// Package cache stores synthesized speech clips on disk under a content
// address derived from the normalized text and the resolved voice.
//
// Entries are created once and never modified. A clip that no longer decodes
// is evicted and synthesized again. A SQLite ledger next to the clips keeps
// an index used for reporting; it is never consulted to decide hits.
package cache
