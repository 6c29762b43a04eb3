package main

import (
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/retrocoderamen/spcdsp/internal/sample"
)

// ringFrames bounds how far the main goroutine's emulation loop may run
// ahead of the oto playback callback before PushSample starts dropping the
// oldest frame, matching the example corpus's oto player's fixed
// pre-allocated buffer sizing rather than letting the ring grow unbounded if
// playback stalls.
const ringFrames = 8192

// OtoSink feeds SoundCycle's output into an oto.Player through a mutex-
// guarded ring buffer, the same io.Reader-shaped decoupling the example
// corpus's own oto backend uses: the main goroutine's emulation loop only
// ever writes (PushSample), oto's own playback callback only ever reads
// (Read).
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player

	mu    sync.Mutex
	ring  []sample.Stereo
	head  int
	tail  int
	count int
}

// NewOtoSink opens an oto playback context at sampleRate and starts the
// player; PushSample can be called as soon as it returns.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoSink{ctx: ctx, ring: make([]sample.Stereo, ringFrames)}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// PushSample implements dsp.Sink. Called once per DSP sample cycle from the
// main goroutine's emulation loop; the mutex's critical section is just the
// slice writes below, never the emulation step itself, matching §5's "no
// locks, one side advances at a time" model at the core boundary (the ring's
// mutex is outer-surface plumbing, not core state).
func (s *OtoSink) PushSample(v sample.Stereo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring[s.tail] = v
	s.tail = (s.tail + 1) % len(s.ring)
	if s.count == len(s.ring) {
		s.head = (s.head + 1) % len(s.ring) // drop oldest frame, playback is live
	} else {
		s.count++
	}
}

// Read implements io.Reader for oto's player, draining whatever frames are
// queued and padding with silence once the ring runs dry rather than
// blocking the audio callback.
func (s *OtoSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for n+4 <= len(p) && s.count > 0 {
		v := s.ring[s.head]
		s.head = (s.head + 1) % len(s.ring)
		s.count--

		p[n] = byte(uint16(v.Left))
		p[n+1] = byte(uint16(v.Left) >> 8)
		p[n+2] = byte(uint16(v.Right))
		p[n+3] = byte(uint16(v.Right) >> 8)
		n += 4
	}
	for ; n < len(p); n++ {
		p[n] = 0
	}
	return len(p), nil
}

// Close stops playback and releases the oto player.
func (s *OtoSink) Close() {
	s.player.Close()
}
