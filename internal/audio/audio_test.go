package audio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

type fakeOutput struct {
	mu      sync.Mutex
	inits   int
	played  []beep.Streamer
	closed  int
	initErr error
}

func (o *fakeOutput) Init(beep.SampleRate, int) error {
	o.inits++
	return o.initErr
}
func (o *fakeOutput) Play(s ...beep.Streamer) { o.played = append(o.played, s...) }
func (o *fakeOutput) Lock() { o.mu.Lock() }
func (o *fakeOutput) Unlock() { o.mu.Unlock() }
func (o *fakeOutput) Close() { o.closed++ }

// fakeSeeker is a silent seekable stream that records Close.
type fakeSeeker struct {
	mu     sync.Mutex
	pos    int
	length int
	closed bool
}

func (s *fakeSeeker) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for i := range samples {
		if s.pos >= s.length {
			break
		}
		samples[i] = [2]float64{}
		s.pos++
		n++
	}
	return n, n > 0
}
func (s *fakeSeeker) Err() error { return nil }
func (s *fakeSeeker) Len() int { return s.length }
func (s *fakeSeeker) Position() int { return s.pos }
func (s *fakeSeeker) Seek(p int) error { s.pos = p; return nil }
func (s *fakeSeeker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSeeker) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func TestMusicVolume(t *testing.T) {
	m := NewMusic(&fakeOutput{})

	if v := m.State().Volume; v != DefaultVolume {
		t.Fatalf("default volume = %v, expected %v", v, DefaultVolume)
	}

	tests := []struct {
		name     string
		op       func() float64
		expected float64
	}{
		{"step up", m.VolumeUp, 0.4},
		{"step down", m.VolumeDown, 0.3},
		{"clamp high", func() float64 { return m.SetVolume(3) }, 1},
		{"clamp low", func() float64 { return m.SetVolume(-1) }, 0},
		{"floor stays", m.VolumeDown, 0},
		{"set exact", func() float64 { return m.SetVolume(0.7) }, 0.7},
	}

	for _, tc := range tests {
		if got := tc.op(); got != tc.expected {
			t.Errorf("%s: volume = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

func TestMusicMuteKeepsVolume(t *testing.T) {
	m := NewMusic(&fakeOutput{})
	m.Attach(NewSynthTrack())

	if !m.ToggleMute() {
		t.Fatal("ToggleMute() should mute")
	}
	if !m.volume.Silent {
		t.Error("muted controller should silence the volume effect")
	}
	if m.State().Volume != DefaultVolume {
		t.Error("muting must not change the volume level")
	}

	if m.ToggleMute() {
		t.Fatal("second ToggleMute() should unmute")
	}
	if m.volume.Silent {
		t.Error("unmuted controller should be audible")
	}
}

func TestMusicPlayback(t *testing.T) {
	out := &fakeOutput{}
	m := NewMusic(out)

	if err := m.Play(); !errors.Is(err, ErrNoTrack) {
		t.Fatalf("Play() without a track = %v, expected ErrNoTrack", err)
	}

	m.Attach(NewSynthTrack())
	if err := m.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := m.Play(); err != nil {
		t.Fatalf("second Play() error = %v", err)
	}
	if out.inits != 1 || len(out.played) != 1 {
		t.Errorf("output inits=%d played=%d, expected 1 and 1", out.inits, len(out.played))
	}
	if st := m.State(); !st.Playing || !st.Initialized || !st.HasTrack {
		t.Errorf("State() = %+v", st)
	}

	if err := m.Toggle(); err != nil || m.State().Playing {
		t.Error("Toggle() should pause a playing track")
	}
	if !m.ctrl.Paused {
		t.Error("pause should pause the ctrl streamer")
	}
	if err := m.Toggle(); err != nil || !m.State().Playing {
		t.Error("Toggle() should resume a paused track")
	}
	if len(out.played) != 1 {
		t.Error("resuming must not queue the chain twice")
	}

	m.Close()
	if out.closed != 1 || m.State().Playing || m.State().HasTrack {
		t.Errorf("Close() left state %+v, output closed %d times", m.State(), out.closed)
	}
}

func TestMusicInitFailure(t *testing.T) {
	out := &fakeOutput{initErr: errors.New("no device")}
	m := NewMusic(out)
	m.Attach(NewSynthTrack())

	if err := m.Play(); err == nil {
		t.Fatal("Play() should surface output init errors")
	}
	if m.State().Playing {
		t.Error("failed Play() must not report playing")
	}
}

func TestMusicAttachClosesPrevious(t *testing.T) {
	m := NewMusic(&fakeOutput{})
	first := &fakeSeeker{length: 100}
	m.Attach(&Track{Name: "first", Format: beep.Format{SampleRate: SampleRate}, seeker: first})
	m.Attach(NewSynthTrack())

	if !first.isClosed() {
		t.Error("replacing a track should close the old decoder")
	}
}

func TestSynthTrackStreams(t *testing.T) {
	track := NewSynthTrack()
	buf := make([][2]float64, 2048)
	n, ok := track.loop().Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}

	nonZero := false
	for _, s := range buf {
		if s[0] != s[1] {
			t.Fatal("synth track should be mono on both channels")
		}
		if s[0] > 1 || s[0] < -1 {
			t.Fatalf("sample %v out of range", s[0])
		}
		if s[0] != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("synth track produced silence")
	}
}

func TestLoaderLoad(t *testing.T) {
	seeker := &fakeSeeker{length: 10}
	l := &Loader{Decode: func(string) (beep.StreamSeekCloser, beep.Format, error) {
		return seeker, beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}, nil
	}}

	track, err := l.Load(context.Background(), "/music/theme.mp3")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if track.Name != "theme.mp3" || track.Format.SampleRate != 22050 {
		t.Errorf("track = %+v", track)
	}
	if seeker.isClosed() {
		t.Error("a delivered track must stay open")
	}
}

func TestLoaderDiscardsLateResult(t *testing.T) {
	release := make(chan struct{})
	seeker := &fakeSeeker{length: 10}
	l := &Loader{Decode: func(string) (beep.StreamSeekCloser, beep.Format, error) {
		<-release
		return seeker, beep.Format{SampleRate: SampleRate}, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, "slow.mp3")
		errc <- err
	}()

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, expected context.Canceled", err)
	}

	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for !seeker.isClosed() {
		if time.Now().After(deadline) {
			t.Fatal("late decoder result was not closed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLoaderErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader().Load(ctx, "x.mp3"); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with a done context = %v", err)
	}

	if _, err := NewLoader().Load(context.Background(), "theme.ogg"); err == nil {
		t.Error("unsupported extensions should be rejected")
	}
	if _, err := NewLoader().Load(context.Background(), "/nonexistent/theme.mp3"); err == nil {
		t.Error("missing files should fail")
	}
}
