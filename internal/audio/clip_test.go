package audio

import (
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

func TestEncodeDecodeClip(t *testing.T) {
	samples := []int{0, 100, -100, 32767, -32768, 5}
	data, err := EncodeWAV(8000, 1, samples)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}

	clip, err := DecodeClip(data)
	if err != nil {
		t.Fatalf("DecodeClip: %v", err)
	}
	if clip.SampleRate != 8000 || clip.Channels != 1 {
		t.Errorf("format = %d Hz / %d ch, want 8000 / 1", clip.SampleRate, clip.Channels)
	}
	if !reflect.DeepEqual(clip.Samples, samples) {
		t.Errorf("Samples = %v, want %v", clip.Samples, samples)
	}
	if string(clip.Data) != string(data) {
		t.Error("Data should hold the original bytes")
	}
}

func TestClipDuration(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		channels   int
		samples    int
		want       int64
	}{
		{"one second mono", 1000, 1, 1000, 1000},
		{"one second stereo", 1000, 2, 2000, 1000},
		{"truncates", 3000, 1, 1001, 333},
		{"24kHz half second", 24000, 1, 12000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Clip{SampleRate: tt.sampleRate, Channels: tt.channels, Samples: make([]int, tt.samples)}
			if got := c.DurationMs(); got != tt.want {
				t.Errorf("DurationMs() = %d, want %d", got, tt.want)
			}
		})
	}

	if DurationMs(100, 0) != 0 {
		t.Error("zero sample rate must yield zero duration")
	}
}

func TestDecodeClip_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not a wav file at all")},
		{"truncated header", []byte("RIFF\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeClip(tt.data); !errors.Is(err, ErrInvalidAudio) {
				t.Errorf("DecodeClip() error = %v, want ErrInvalidAudio", err)
			}
		})
	}
}

func TestEncodeWAV_NoSamples(t *testing.T) {
	if _, err := EncodeWAV(8000, 1, nil); !errors.Is(err, ErrInvalidAudio) {
		t.Errorf("EncodeWAV(nil) error = %v, want ErrInvalidAudio", err)
	}
}

func TestPCM16ToWAV(t *testing.T) {
	pcm := make([]byte, 8)
	for i, v := range []int16{1, -1, 1000, -1000} {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(v))
	}

	data, err := PCM16ToWAV(pcm, 24000, 1)
	if err != nil {
		t.Fatalf("PCM16ToWAV: %v", err)
	}
	clip, err := DecodeClip(data)
	if err != nil {
		t.Fatalf("DecodeClip: %v", err)
	}
	if want := []int{1, -1, 1000, -1000}; !reflect.DeepEqual(clip.Samples, want) {
		t.Errorf("Samples = %v, want %v", clip.Samples, want)
	}
	if clip.SampleRate != 24000 {
		t.Errorf("SampleRate = %d", clip.SampleRate)
	}

	if _, err := PCM16ToWAV(nil, 24000, 1); err == nil {
		t.Error("expected error for empty PCM")
	}
}

func TestSilence(t *testing.T) {
	if got := len(Silence(1000, 2, 500)); got != 1000 {
		t.Errorf("len(Silence) = %d, want 1000", got)
	}
	if Silence(1000, 1, 0) != nil {
		t.Error("zero-length silence should be nil")
	}
	for _, s := range Silence(8000, 1, 10) {
		if s != 0 {
			t.Fatal("silence must be zero samples")
		}
	}
}

func TestConform(t *testing.T) {
	tests := []struct {
		name       string
		in         Format
		frames     int
		target     Format
		wantFrames int
	}{
		{"espeak rate up to 24kHz", Format{22050, 1}, 22050, Format{24000, 1}, 24000},
		{"downsample", Format{48000, 1}, 4800, Format{24000, 1}, 2400},
		{"stereo to mono", Format{24000, 2}, 240, Format{24000, 1}, 240},
		{"mono to stereo", Format{24000, 1}, 240, Format{24000, 2}, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]int, tt.frames*tt.in.Channels)
			for i := range samples {
				samples[i] = 1000
			}
			data, err := EncodeWAV(tt.in.SampleRate, tt.in.Channels, samples)
			if err != nil {
				t.Fatalf("EncodeWAV: %v", err)
			}

			out, err := Conform(data, tt.target)
			if err != nil {
				t.Fatalf("Conform: %v", err)
			}
			clip, err := DecodeClip(out)
			if err != nil {
				t.Fatalf("DecodeClip: %v", err)
			}
			if clip.Format() != tt.target {
				t.Errorf("format = %+v, want %+v", clip.Format(), tt.target)
			}
			if clip.Frames() != tt.wantFrames {
				t.Errorf("frames = %d, want %d", clip.Frames(), tt.wantFrames)
			}
			for i, s := range clip.Samples {
				if s != 1000 {
					t.Fatalf("sample %d = %d, want 1000", i, s)
				}
			}
		})
	}
}

func TestConform_SameFormatUnchanged(t *testing.T) {
	data, err := EncodeWAV(24000, 1, []int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	out, err := Conform(data, Format{SampleRate: 24000, Channels: 1})
	if err != nil {
		t.Fatalf("Conform: %v", err)
	}
	if string(out) != string(data) {
		t.Error("data in the target format should be returned as is")
	}
}

func TestConform_Invalid(t *testing.T) {
	if _, err := Conform([]byte("nope"), Format{24000, 1}); !errors.Is(err, ErrInvalidAudio) {
		t.Errorf("expected ErrInvalidAudio, got %v", err)
	}
	data, err := EncodeWAV(24000, 2, []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Conform(data, Format{24000, 3}); !errors.Is(err, ErrInvalidAudio) {
		t.Errorf("expected ErrInvalidAudio for 2 to 3 channels, got %v", err)
	}
}
