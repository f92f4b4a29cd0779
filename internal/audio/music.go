// Package audio plays the looping background track and exposes the volume
// and mute controls the TUI binds to keys.
package audio

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Volume range and defaults.
const (
	DefaultVolume = 0.3
	MinVolume     = 0.0
	MaxVolume     = 1.0
	VolumeStep    = 0.1
)

// SampleRate is the output rate; tracks at other rates are resampled.
const SampleRate = beep.SampleRate(44100)

// ErrNoTrack is returned by Play before a track was attached.
var ErrNoTrack = errors.New("audio: no track attached")

// Output is where mixed audio goes. The speaker is the real one; tests and
// --no-audio runs use Silent.
type Output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
	Close()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error { return speaker.Init(sr, bufferSize) }
func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Lock() { speaker.Lock() }
func (speakerOutput) Unlock() { speaker.Unlock() }
func (speakerOutput) Close() { speaker.Close() }

// Speaker returns the system audio output.
func Speaker() Output {
	return speakerOutput{}
}

// Silent discards everything; streamers handed to it are never pulled.
type Silent struct{}

func (Silent) Init(beep.SampleRate, int) error { return nil }
func (Silent) Play(...beep.Streamer) {}
func (Silent) Lock() {}
func (Silent) Unlock() {}
func (Silent) Close() {}

// State is a snapshot of the music controller.
type State struct {
	Initialized bool
	Playing     bool
	Muted       bool
	Volume      float64
	HasTrack    bool
}

// Music is a looping background track with volume and mute. Methods are
// safe for concurrent use; the output's audio goroutine reads the same
// controls under the output lock.
type Music struct {
	mu  sync.Mutex
	out Output

	ctrl   *beep.Ctrl
	volume *effects.Volume
	track  *Track

	level       float64
	muted       bool
	playing     bool
	initialized bool
	queued      bool // volume chain handed to the output
}

// NewMusic creates a controller writing to out at the default volume.
func NewMusic(out Output) *Music {
	if out == nil {
		out = Silent{}
	}
	return &Music{out: out, level: DefaultVolume}
}

// Attach replaces the current track. Playback state is kept: a playing
// controller keeps playing the new track.
func (m *Music) Attach(t *Track) {
	if t == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.track
	m.track = t

	stream := t.loop()
	m.out.Lock()
	if m.ctrl == nil {
		m.ctrl = &beep.Ctrl{Paused: true}
		m.volume = &effects.Volume{Streamer: m.ctrl, Base: 2}
		m.applyVolume()
	}
	m.ctrl.Streamer = stream
	m.out.Unlock()

	if old != nil {
		old.Close()
	}
}

// Init opens the output once. Play calls it on demand.
func (m *Music) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.init()
}

func (m *Music) init() error {
	if m.initialized {
		return nil
	}
	if err := m.out.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	m.initialized = true
	return nil
}

// Play starts or resumes the track.
func (m *Music) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctrl == nil {
		return ErrNoTrack
	}
	if err := m.init(); err != nil {
		return err
	}
	if m.playing {
		return nil
	}

	m.out.Lock()
	m.ctrl.Paused = false
	m.out.Unlock()

	if !m.queued {
		m.out.Play(m.volume)
		m.queued = true
	}
	m.playing = true
	return nil
}

// Pause stops playback, keeping the position.
func (m *Music) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing {
		return
	}
	m.out.Lock()
	m.ctrl.Paused = true
	m.out.Unlock()
	m.playing = false
}

// Toggle pauses a playing track or plays a paused one.
func (m *Music) Toggle() error {
	m.mu.Lock()
	playing := m.playing
	m.mu.Unlock()

	if playing {
		m.Pause()
		return nil
	}
	return m.Play()
}

// SetVolume clamps v to [MinVolume, MaxVolume] and returns the new level.
func (m *Music) SetVolume(v float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if math.IsNaN(v) {
		return m.level
	}
	m.level = math.Max(MinVolume, math.Min(MaxVolume, v))
	// Keep exact steps: 0.3 + 0.1 must read back as 0.4.
	m.level = math.Round(m.level*1000) / 1000
	m.withOutputLock(m.applyVolume)
	return m.level
}

// VolumeUp raises the volume by one step.
func (m *Music) VolumeUp() float64 {
	return m.SetVolume(m.State().Volume + VolumeStep)
}

// VolumeDown lowers the volume by one step.
func (m *Music) VolumeDown() float64 {
	return m.SetVolume(m.State().Volume - VolumeStep)
}

// SetMuted mutes or unmutes without touching the volume level.
func (m *Music) SetMuted(muted bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.muted = muted
	m.withOutputLock(m.applyVolume)
	return m.muted
}

// ToggleMute flips the mute flag and returns the new value.
func (m *Music) ToggleMute() bool {
	return m.SetMuted(!m.State().Muted)
}

// State returns a snapshot of the controller.
func (m *Music) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return State{
		Initialized: m.initialized,
		Playing:     m.playing,
		Muted:       m.muted,
		Volume:      m.level,
		HasTrack:    m.track != nil,
	}
}

// Close stops playback, releases the track and closes the output.
func (m *Music) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctrl != nil {
		m.out.Lock()
		m.ctrl.Paused = true
		m.ctrl.Streamer = nil
		m.out.Unlock()
	}
	if m.track != nil {
		m.track.Close()
		m.track = nil
	}
	if m.initialized {
		m.out.Close()
	}
	m.ctrl = nil
	m.volume = nil
	m.playing = false
	m.initialized = false
	m.queued = false
}

// applyVolume maps the linear level onto beep's logarithmic volume.
// Callers hold the output lock.
func (m *Music) applyVolume() {
	if m.volume == nil {
		return
	}
	if m.muted || m.level <= 0 {
		m.volume.Silent = true
		m.volume.Volume = 0
		return
	}
	m.volume.Silent = false
	m.volume.Volume = math.Log2(m.level)
}

func (m *Music) withOutputLock(fn func()) {
	m.out.Lock()
	defer m.out.Unlock()
	fn()
}
