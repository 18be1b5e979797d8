package audio

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
)

func TestDecodeDeviceIDCString(t *testing.T) {
	raw := make([]byte, 256)
	copy(raw, "alsa_output.pci-0000_00_1f.3.analog-stereo")

	assert.Equal(t, "alsa_output.pci-0000_00_1f.3.analog-stereo", DecodeDeviceID(raw, false))
}

func TestDecodeDeviceIDWide(t *testing.T) {
	id := "{0.0.0.00000000}.{4d3a1c2b-0000-1111-2222-333344445555}"
	raw := make([]byte, 128)
	for i, u := range utf16.Encode([]rune(id)) {
		raw[i*2] = byte(u)
		raw[i*2+1] = byte(u >> 8)
	}

	assert.Equal(t, id, DecodeDeviceID(raw, true))
}

func TestDecodeDeviceIDFallsBackToHex(t *testing.T) {
	raw := make([]byte, 16)
	raw[0] = 0x03
	raw[1] = 0x01

	assert.Equal(t, "0301", DecodeDeviceID(raw, false))
}
