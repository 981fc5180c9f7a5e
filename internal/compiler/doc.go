// Package compiler turns lesson source documents into level documents and
// card audio assets. It wires the parser, the task resolver, the timeline
// assembler and the level serializer together and collects per-card
// diagnostics into a Report.
package compiler
