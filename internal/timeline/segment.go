package timeline

// Segment is the span of one spoken line inside an assembled card audio.
// Consecutive segments never overlap; the pause after a line lies between
// its EndMs and the next StartMs.
type Segment struct {
	Text    string `json:"text"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}
