// ABOUTME: Platform audio capabilities: endpoint enumeration, default device control
// ABOUTME: and confirmation sound playback. Enumeration and playback use malgo (miniaudio).

package audio

import (
	"bytes"
	"encoding/hex"
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
)

var utf16Decoder = xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM)

// DecodeDeviceID turns the raw miniaudio device id bytes into a stable string.
// WASAPI ids are UTF-16 endpoint ids; PulseAudio, ALSA and CoreAudio ids are
// C strings. Anything that does not decode to printable text is hex encoded.
func DecodeDeviceID(raw []byte, wide bool) string {
	var s string
	if wide {
		s = decodeUTF16(raw)
	} else {
		str := raw
		if i := bytes.IndexByte(str, 0); i >= 0 {
			str = str[:i]
		}
		s = string(str)
	}

	if s != "" && printable(s) {
		return s
	}
	return hex.EncodeToString(bytes.TrimRight(raw, "\x00"))
}

func decodeUTF16(raw []byte) string {
	end := len(raw) &^ 1
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			end = i
			break
		}
	}
	out, err := utf16Decoder.NewDecoder().Bytes(raw[:end])
	if err != nil {
		return ""
	}
	return string(out)
}

func printable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r == utf8.RuneError || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
