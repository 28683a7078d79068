package sound

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
)

// Player emits the two-tone new-order alert. The audio context is
// constructed lazily on the first Play call (UNINITIALIZED -> READY);
// hosts without audio capability degrade the player to a permanent
// no-op instead of surfacing an error. Overlapping Play calls each
// schedule their own pair of tones.
type Player struct {
	mu      sync.Mutex
	ctx     *oto.Context
	samples []byte
	failed  bool
	closed  bool
	players []*oto.Player
	logger  logger.Logger
}

func NewPlayer(lgr logger.Logger) *Player {
	return &Player{logger: lgr}
}

// Play schedules the alert. It never blocks on playback and never
// returns an error to the caller.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.failed {
		return
	}

	if p.ctx == nil {
		if err := p.initLocked(); err != nil {
			p.failed = true
			if p.logger != nil {
				p.logger.Debug("audio_unavailable", "Audio context unavailable, alerts disabled", "", map[string]interface{}{
					"reason": err.Error(),
				})
			}
			return
		}
	}

	player := p.ctx.NewPlayer(bytes.NewReader(p.samples))
	player.Play()
	p.players = append(p.players, player)
	p.reapLocked()
}

func (p *Player) initLocked() error {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready

	p.ctx = ctx
	p.samples = alertSamples()
	return nil
}

// reapLocked drops players that finished their tones.
func (p *Player) reapLocked() {
	active := p.players[:0]
	for _, pl := range p.players {
		if pl.IsPlaying() {
			active = append(active, pl)
			continue
		}
		pl.Close()
	}
	p.players = active
}

// Close tears the player down at application shutdown. Subsequent Play
// calls are no-ops.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for _, pl := range p.players {
		pl.Close()
	}
	p.players = nil
	return nil
}
