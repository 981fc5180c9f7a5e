package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

const (
	bitDepth      = 16
	wavFormatPCM  = 1
	bytesPerFrame = 2
)

// Format describes the layout of 16-bit PCM audio.
type Format struct {
	SampleRate int
	Channels   int
}

// ErrInvalidAudio is returned when bytes do not decode as 16-bit PCM WAV.
var ErrInvalidAudio = errors.New("invalid audio")

// Clip is decoded 16-bit PCM audio together with its encoded WAV bytes.
// Samples are interleaved when Channels > 1.
type Clip struct {
	SampleRate int
	Channels   int
	Samples    []int
	Data       []byte
}

// DecodeClip decodes WAV bytes. Anything other than non-empty 16-bit PCM is
// rejected with ErrInvalidAudio.
func DecodeClip(data []byte) (*Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidAudio)
	}
	if dec.BitDepth != bitDepth {
		return nil, fmt.Errorf("%w: %d-bit samples, want %d", ErrInvalidAudio, dec.BitDepth, bitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidAudio)
	}

	return &Clip{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Samples:    buf.Data,
		Data:       data,
	}, nil
}

// Format returns the sample rate and channel count of the clip.
func (c *Clip) Format() Format {
	return Format{SampleRate: c.SampleRate, Channels: c.Channels}
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// DurationMs returns the clip length in whole milliseconds.
func (c *Clip) DurationMs() int64 {
	return DurationMs(c.Frames(), c.SampleRate)
}

// DurationMs converts a frame count to whole milliseconds.
func DurationMs(frames, sampleRate int) int64 {
	if sampleRate <= 0 {
		return 0
	}
	return int64(frames) * 1000 / int64(sampleRate)
}

// Silence returns interleaved zero samples lasting ms milliseconds.
func Silence(sampleRate, channels int, ms int64) []int {
	if ms <= 0 || sampleRate <= 0 || channels <= 0 {
		return nil
	}
	return make([]int, FramesForMs(sampleRate, ms)*channels)
}

// FramesForMs converts milliseconds to a whole number of frames.
func FramesForMs(sampleRate int, ms int64) int {
	if ms <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(int64(sampleRate) * ms / 1000)
}

// EncodeWAV encodes interleaved 16-bit samples as a WAV file.
func EncodeWAV(sampleRate, channels int, samples []int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples to encode", ErrInvalidAudio)
	}
	ws := &writerseeker.WriterSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, bitDepth, channels, wavFormatPCM)

	buf := &goaudio.IntBuffer{
		Data:           samples,
		Format:         &goaudio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize wav: %w", err)
	}
	return io.ReadAll(ws.Reader())
}

// PCM16ToWAV wraps raw little-endian 16-bit PCM in a WAV container.
func PCM16ToWAV(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if len(pcm) < bytesPerFrame {
		return nil, fmt.Errorf("%w: empty PCM stream", ErrInvalidAudio)
	}
	samples := make([]int, len(pcm)/bytesPerFrame)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*bytesPerFrame:])))
	}
	return EncodeWAV(sampleRate, channels, samples)
}

// Conform re-encodes WAV data in format f. Channels are averaged down to mono
// or duplicated up from mono, and the rate is converted by linear
// interpolation. Data already in f is returned unchanged.
func Conform(data []byte, f Format) ([]byte, error) {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return nil, fmt.Errorf("invalid target format %d Hz / %d ch", f.SampleRate, f.Channels)
	}
	clip, err := DecodeClip(data)
	if err != nil {
		return nil, err
	}
	if clip.Format() == f {
		return data, nil
	}

	samples, err := remix(clip.Samples, clip.Channels, f.Channels)
	if err != nil {
		return nil, err
	}
	samples = resample(samples, f.Channels, clip.SampleRate, f.SampleRate)
	return EncodeWAV(f.SampleRate, f.Channels, samples)
}

func remix(samples []int, from, to int) ([]int, error) {
	switch {
	case from == to:
		return samples, nil
	case to == 1:
		frames := len(samples) / from
		out := make([]int, frames)
		for i := range out {
			sum := 0
			for ch := 0; ch < from; ch++ {
				sum += samples[i*from+ch]
			}
			out[i] = sum / from
		}
		return out, nil
	case from == 1:
		out := make([]int, len(samples)*to)
		for i, s := range samples {
			for ch := 0; ch < to; ch++ {
				out[i*to+ch] = s
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: cannot convert %d channels to %d", ErrInvalidAudio, from, to)
}

func resample(samples []int, channels, from, to int) []int {
	if from == to {
		return samples
	}
	inFrames := len(samples) / channels
	if inFrames == 0 {
		return samples
	}
	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	if outFrames == 0 {
		outFrames = 1
	}

	ratio := float64(from) / float64(to)
	out := make([]int, outFrames*channels)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)
		for ch := 0; ch < channels; ch++ {
			a := samples[idx*channels+ch]
			b := a
			if idx+1 < inFrames {
				b = samples[(idx+1)*channels+ch]
			}
			out[i*channels+ch] = a + int(math.Round(frac*float64(b-a)))
		}
	}
	return out
}
