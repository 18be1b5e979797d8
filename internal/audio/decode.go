package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// clip is a fully decoded sound as interleaved signed 16-bit samples.
type clip struct {
	samples    []int16
	sampleRate uint32
	channels   int
}

type beepDecoder func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var beepDecoders = map[string]beepDecoder{
	".mp3":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
	".wav":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
	".flac": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) },
	".ogg":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
}

// SupportedFormats lists the file extensions decodeFile understands.
var SupportedFormats = []string{".mp3", ".wav", ".flac", ".ogg", ".aiff", ".aif"}

func decodeFile(path string) (clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return clip{}, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".aiff" || ext == ".aif" {
		return decodeAIFF(f)
	}

	decode, ok := beepDecoders[ext]
	if !ok {
		return clip{}, fmt.Errorf("unsupported audio format: %s", ext)
	}
	streamer, format, err := decode(f)
	if err != nil {
		return clip{}, err
	}
	defer streamer.Close()

	return streamToClip(streamer, format), nil
}

func decodeAIFF(r io.ReadSeeker) (clip, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return clip{}, fmt.Errorf("invalid AIFF file")
	}
	dec.ReadInfo()

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, fmt.Errorf("failed to read AIFF data: %w", err)
	}
	return clip{
		samples:    intBufferToSamples(buf, int(dec.BitDepth)),
		sampleRate: uint32(dec.SampleRate),
		channels:   int(dec.NumChans),
	}, nil
}

func streamToClip(s beep.Streamer, format beep.Format) clip {
	channels := format.NumChannels
	if channels > 2 {
		channels = 2
	}
	if channels < 1 {
		channels = 1
	}

	var samples []int16
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, int16(buf[i][0]*32767))
			if channels == 2 {
				samples = append(samples, int16(buf[i][1]*32767))
			}
		}
		if !ok || n == 0 {
			break
		}
	}

	return clip{samples: samples, sampleRate: uint32(format.SampleRate), channels: channels}
}

// intBufferToSamples rescales PCM data of the given bit depth to 16 bits.
func intBufferToSamples(buf *goaudio.IntBuffer, bitDepth int) []int16 {
	shift := 0
	switch bitDepth {
	case 8:
		shift = -8
	case 24:
		shift = 8
	case 32:
		shift = 16
	}

	out := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		switch {
		case shift < 0:
			out[i] = int16(v << -shift)
		default:
			out[i] = int16(v >> shift)
		}
	}
	return out
}

func (c *clip) scale(volume float64) {
	if volume >= 1.0 {
		return
	}
	if volume < 0 {
		volume = 0
	}
	for i := range c.samples {
		c.samples[i] = int16(float64(c.samples[i]) * volume)
	}
}

// bytes returns the samples as little-endian PCM.
func (c *clip) bytes() []byte {
	out := make([]byte, len(c.samples)*2)
	for i, s := range c.samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}
