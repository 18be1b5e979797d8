//go:build cgo && !noaudio

package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/777genius/audiodeck/internal/logging"
)

const playbackTimeout = 30 * time.Second

// Player plays short sound files on one output endpoint.
type Player struct {
	ctx      *malgo.AllocatedContext
	deviceID *malgo.DeviceID
	volume   float64
	mu       sync.Mutex
}

// NewPlayer returns a Player for the output endpoint with the given id as
// reported by Enumerator. An empty id plays on the system default device.
func NewPlayer(deviceID string, volume float64) (*Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}

	p := &Player{ctx: ctx, volume: volume}
	if deviceID == "" {
		return p, nil
	}

	raw, found, err := findDeviceID(ctx, malgo.Playback, deviceID)
	if err != nil || !found {
		_ = ctx.Uninit()
		ctx.Free()
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("audio device not found: %s", deviceID)
	}
	p.deviceID = &raw
	logging.Debug("Audio device found: %s", deviceID)
	return p, nil
}

// Play decodes soundPath and blocks until it has been played.
func (p *Player) Play(soundPath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx == nil {
		return fmt.Errorf("player is closed")
	}
	if _, err := os.Stat(soundPath); os.IsNotExist(err) {
		return fmt.Errorf("sound file not found: %s", soundPath)
	}

	clip, err := decodeFile(soundPath)
	if err != nil {
		return fmt.Errorf("failed to decode audio: %w", err)
	}
	clip.scale(p.volume)
	data := clip.bytes()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = uint32(clip.channels)
	cfg.SampleRate = clip.sampleRate
	cfg.PeriodSizeInFrames = 4096
	cfg.Periods = 4
	cfg.Alsa.NoMMap = 1
	if p.deviceID != nil {
		cfg.Playback.DeviceID = p.deviceID.Pointer()
	}

	var (
		pos      int
		done     = make(chan struct{})
		doneOnce sync.Once
	)
	onData := func(out, _ []byte, frameCount uint32) {
		n := int(frameCount) * clip.channels * 2
		if rest := len(data) - pos; n > rest {
			n = rest
		}
		if n > 0 {
			copy(out, data[pos:pos+n])
			pos += n
		}
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
		if pos >= len(data) {
			doneOnce.Do(func() { close(done) })
		}
	}

	dev, err := malgo.InitDevice(p.ctx.Context, cfg, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return fmt.Errorf("failed to init audio device: %w", err)
	}
	defer dev.Uninit()

	if err := dev.Start(); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	select {
	case <-done:
		// Let the device drain its buffer.
		time.Sleep(200 * time.Millisecond)
		logging.Debug("Audio playback completed: %s", soundPath)
	case <-time.After(playbackTimeout):
		logging.Warn("Audio playback timeout: %s", soundPath)
	}

	_ = dev.Stop()
	return nil
}

// Close releases the audio context.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		_ = p.ctx.Uninit()
		p.ctx.Free()
		p.ctx = nil
	}
	return nil
}
