package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
)

// Track is a decoded or generated source ready to loop.
type Track struct {
	Name   string
	Format beep.Format

	seeker   beep.StreamSeekCloser // nil for generated tracks
	streamer beep.Streamer
}

// loop returns the track as an endless stream at SampleRate.
func (t *Track) loop() beep.Streamer {
	var s beep.Streamer = t.streamer
	if t.seeker != nil {
		s = beep.Loop(-1, t.seeker)
	}
	if t.Format.SampleRate != 0 && t.Format.SampleRate != SampleRate {
		s = beep.Resample(4, t.Format.SampleRate, SampleRate, s)
	}
	return s
}

// Close releases the decoder behind a file track.
func (t *Track) Close() error {
	if t.seeker == nil {
		return nil
	}
	return t.seeker.Close()
}

// NewSynthTrack returns the built-in loop used when no music file is given:
// a slow minor arpeggio over a soft bass pulse.
func NewSynthTrack() *Track {
	return &Track{
		Name:     "built-in",
		Format:   beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2},
		streamer: newArpeggio(SampleRate),
	}
}

// arpeggio cycles through a fixed note pattern forever.
type arpeggio struct {
	sr        beep.SampleRate
	pos       int
	noteLen   int
	notes     []float64
	bassFreqs []float64
}

func newArpeggio(sr beep.SampleRate) *arpeggio {
	return &arpeggio{
		sr:      sr,
		noteLen: sr.N(250 * time.Millisecond),
		// A minor: A4 C5 E5 A5 E5 C5, then F major: F4 A4 C5 F5 C5 A4
		notes:     []float64{440, 523.25, 659.25, 880, 659.25, 523.25, 349.23, 440, 523.25, 698.46, 523.25, 440},
		bassFreqs: []float64{110, 87.31},
	}
}

func (a *arpeggio) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		step := a.pos / a.noteLen
		inNote := a.pos % a.noteLen
		t := float64(a.pos) / float64(a.sr)

		freq := a.notes[step%len(a.notes)]
		env := math.Exp(-float64(inNote) / float64(a.sr) * 6)
		lead := 0.18 * env * math.Sin(2*math.Pi*freq*t)

		bassFreq := a.bassFreqs[(step/6)%len(a.bassFreqs)]
		bass := 0.12 * math.Sin(2*math.Pi*bassFreq*t)

		v := lead + bass
		samples[i][0] = v
		samples[i][1] = v
		a.pos++
	}
	return len(samples), true
}

func (a *arpeggio) Err() error { return nil }

// Decoder turns a file into a seekable stream.
type Decoder func(path string) (beep.StreamSeekCloser, beep.Format, error)

// DecodeFile opens an MP3 file.
func DecodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".mp3" {
		return nil, beep.Format{}, fmt.Errorf("audio: unsupported format %q (want .mp3)", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: open %s: %w", path, err)
	}
	s, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	return s, format, nil
}

// Loader decodes tracks off the caller's goroutine.
type Loader struct {
	Decode Decoder
}

// NewLoader returns a loader for MP3 files.
func NewLoader() *Loader {
	return &Loader{Decode: DecodeFile}
}

type loadResult struct {
	seeker beep.StreamSeekCloser
	format beep.Format
	err    error
}

// Load decodes path. If ctx is done first, Load returns ctx.Err() and the
// late result is closed when it arrives instead of being handed out.
func (l *Loader) Load(ctx context.Context, path string) (*Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan loadResult, 1)
	go func() {
		s, format, err := l.Decode(path)
		done <- loadResult{seeker: s, format: format, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if ctx.Err() != nil {
			res.seeker.Close()
			return nil, ctx.Err()
		}
		return &Track{Name: filepath.Base(path), Format: res.format, seeker: res.seeker}, nil
	case <-ctx.Done():
		go func() {
			if res := <-done; res.err == nil && res.seeker != nil {
				res.seeker.Close()
			}
		}()
		return nil, ctx.Err()
	}
}
