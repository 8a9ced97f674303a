package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Encoding is the sample format of a written WAV file.
type Encoding string

const (
	// EncodingFloat32 stores every sample as-is (IEEE float, 32 bit).
	EncodingFloat32 Encoding = "float32"
	// EncodingPCM16 scales samples to signed 16-bit integers.
	EncodingPCM16 Encoding = "pcm16"
)

// WAVE format tags.
const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// ParseEncoding maps a config value to an Encoding, defaulting to float32.
func ParseEncoding(s string) Encoding {
	if Encoding(strings.ToLower(strings.TrimSpace(s))) == EncodingPCM16 {
		return EncodingPCM16
	}
	return EncodingFloat32
}

func (e Encoding) bitDepth() int {
	if e == EncodingPCM16 {
		return 16
	}
	return 32
}

func (e Encoding) formatTag() int {
	if e == EncodingPCM16 {
		return formatPCM
	}
	return formatIEEEFloat
}

// Info describes a WAV file header.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Format     int
	Samples    int // frames per channel
}

// WriteWAV writes samples as a mono WAV file at path, creating or truncating
// it. The parent directory must already exist.
func WriteWAV(path string, samples []float32, sampleRate int, enc Encoding) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	e := wav.NewEncoder(f, sampleRate, enc.bitDepth(), Channels, enc.formatTag())

	// An empty int buffer emits the fmt header and opens the data chunk, so
	// zero-length inputs still produce a structurally valid file.
	format := &goaudio.Format{NumChannels: Channels, SampleRate: sampleRate}
	head := &goaudio.IntBuffer{Format: format, SourceBitDepth: enc.bitDepth()}
	if enc == EncodingPCM16 {
		head.Data = toPCM16(samples)
	}
	if err := e.Write(head); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if enc == EncodingFloat32 {
		for _, s := range samples {
			if err := e.WriteFrame(s); err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}
		}
	}

	if err := e.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}

func toPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * math.MaxInt16)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < -math.MaxInt16 {
			v = -math.MaxInt16
		}
		out[i] = int(v)
	}
	return out
}

// ReadWAV reads a mono or multichannel WAV written by WriteWAV and returns
// its header and the samples of all channels, interleaved, as float32.
func ReadWAV(path string) (Info, []float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return Info{}, nil, fmt.Errorf("read header %s: %w", path, err)
	}
	if d.NumChans == 0 || d.BitDepth == 0 {
		return Info{}, nil, fmt.Errorf("read header %s: missing fmt chunk", path)
	}
	if d.BitDepth < 8 || d.BitDepth%8 != 0 {
		return Info{}, nil, fmt.Errorf("read header %s: unsupported bit depth %d", path, d.BitDepth)
	}
	if err := d.FwdToPCM(); err != nil {
		return Info{}, nil, fmt.Errorf("find data %s: %w", path, err)
	}

	info := Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Format:     int(d.WavAudioFormat),
	}
	total := int(d.PCMLen()) / (info.BitDepth / 8)
	info.Samples = total / info.Channels

	var samples []float32
	switch {
	case info.Format == formatIEEEFloat && info.BitDepth == 32:
		// go-audio decodes into ints only, so float data is read raw.
		samples = make([]float32, total)
		if err := binary.Read(d.PCMChunk, binary.LittleEndian, samples); err != nil {
			return Info{}, nil, fmt.Errorf("read samples %s: %w", path, err)
		}
	case info.Format == formatPCM && info.BitDepth == 16:
		buf, err := d.FullPCMBuffer()
		if err != nil {
			return Info{}, nil, fmt.Errorf("read samples %s: %w", path, err)
		}
		samples = make([]float32, len(buf.Data))
		for i, v := range buf.Data {
			samples[i] = float32(v) / math.MaxInt16
		}
	default:
		return Info{}, nil, fmt.Errorf("%s: unsupported format %d/%d bit", path, info.Format, info.BitDepth)
	}
	return info, samples, nil
}
