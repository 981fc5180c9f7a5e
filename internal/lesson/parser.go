package lesson

import (
	"fmt"
	"os"
	"strings"
)

// Block is one separator-delimited unit of a source document.
type Block struct {
	// Index is the 1-based position of the block in the document.
	Index int
	Lines []string
}

// Record is the parsed content of a block.
type Record struct {
	Block       int
	TaskType    string
	SwapColumns bool

	fields [fieldCount][]string
}

// Lines returns a copy of the lines accumulated for the field, in the order
// they were encountered.
func (r *Record) Lines(f Field) []string {
	if f <= FieldNone || f >= fieldCount || len(r.fields[f]) == 0 {
		return nil
	}
	return append([]string(nil), r.fields[f]...)
}

// Text returns the accumulated lines of the field joined with newlines.
func (r *Record) Text(f Field) string {
	if f <= FieldNone || f >= fieldCount {
		return ""
	}
	return strings.Join(r.fields[f], "\n")
}

func (r *Record) add(f Field, line string) {
	if f == FieldNone || line == "" {
		return
	}
	r.fields[f] = append(r.fields[f], line)
}

// ReadFile reads a source document from disk and splits it into blocks.
func ReadFile(filename string) ([]Block, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	return SplitBlocks(string(content)), nil
}

// SplitBlocks splits a document on separator lines and strips comment lines.
// Blocks that contain nothing but blank lines are dropped.
func SplitBlocks(text string) []Block {
	var blocks []Block
	var current []string
	index := 1

	flush := func() {
		if hasContent(current) {
			blocks = append(blocks, Block{Index: index, Lines: current})
		}
		current = nil
		index++
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if isSeparator(trimmed) {
			flush()
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		current = append(current, strings.TrimRight(line, "\r"))
	}
	flush()

	return blocks
}

// Parse turns a block into a Record. It keeps a single active field: tag lines
// switch it, untagged lines are appended to it.
func Parse(b Block) Record {
	rec := Record{Block: b.Index}
	active := FieldNone

	for _, raw := range b.Lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		t, content, ok := matchTag(line)
		if !ok {
			rec.add(active, line)
			continue
		}

		switch t.kind {
		case tagTask:
			rec.TaskType = content
			active = FieldNone
		case tagSwapColumns:
			rec.SwapColumns = strings.EqualFold(content, "true")
			active = FieldNone
		default:
			active = t.field
			rec.add(active, content)
		}
	}

	return rec
}

// ParseDocument splits text into blocks and parses each of them.
func ParseDocument(text string) []Record {
	blocks := SplitBlocks(text)
	records := make([]Record, 0, len(blocks))
	for _, b := range blocks {
		records = append(records, Parse(b))
	}
	return records
}

func isSeparator(trimmed string) bool {
	return len(trimmed) >= 3 && strings.Trim(trimmed, "=") == ""
}

func hasContent(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}
