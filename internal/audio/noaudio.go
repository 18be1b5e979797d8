//go:build !cgo || noaudio

package audio

import (
	"errors"

	"github.com/777genius/audiodeck/internal/device"
)

var errAudioDisabled = errors.New("audio support was disabled during compilation")

// Enumerator is unavailable in cgo-less and noaudio builds.
type Enumerator struct{}

func NewEnumerator() Enumerator {
	return Enumerator{}
}

func (Enumerator) Devices(device.Type) ([]device.AudioDevice, error) {
	return nil, errAudioDisabled
}

// Player is unavailable in cgo-less and noaudio builds.
type Player struct{}

func NewPlayer(string, float64) (*Player, error) {
	return nil, errAudioDisabled
}

func (*Player) Play(string) error { return errAudioDisabled }
func (*Player) Close() error      { return nil }
