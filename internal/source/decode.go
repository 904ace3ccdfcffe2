package source

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

type decodeFunc func(io.ReadSeeker) (pcm, error)

var decoders = map[string]decodeFunc{
	".wav":  decodeWAV,
	".flac": decodeFLAC,
	".ogg":  decodeOgg,
	".mp3":  decodeMP3,
}

func decodeWAV(r io.ReadSeeker) (pcm, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm{}, errors.New("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return pcm{}, errors.New("WAV file has no channels")
	}

	bits := buf.SourceBitDepth
	if bits == 0 {
		bits = int(dec.BitDepth)
	}
	scale := fullScale(bits)
	data := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		if bits == 8 {
			// 8-bit WAV is unsigned.
			v -= 128
		}
		data[i] = clamp(float64(v) / scale)
	}
	return pcm{rate: buf.Format.SampleRate, channels: buf.Format.NumChannels, data: data}, nil
}

func decodeFLAC(r io.ReadSeeker) (pcm, error) {
	stream, err := flac.New(r)
	if err != nil {
		return pcm{}, err
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	scale := fullScale(int(info.BitsPerSample))
	data := make([]float64, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pcm{}, err
		}
		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				data = append(data, clamp(float64(frame.Subframes[ch].Samples[i])/scale))
			}
		}
	}
	return pcm{rate: int(info.SampleRate), channels: channels, data: data}, nil
}

func decodeOgg(r io.ReadSeeker) (pcm, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return pcm{}, err
	}
	channels := reader.Channels()

	var data []float64
	buf := make([]float32, 4096*channels)
	for {
		n, err := reader.Read(buf)
		for _, s := range buf[:n] {
			data = append(data, clamp(float64(s)))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pcm{}, err
		}
		if n == 0 {
			break
		}
	}
	return pcm{rate: reader.SampleRate(), channels: channels, data: data}, nil
}

// decodeMP3 reads go-mp3 output, which is always 16-bit little-endian
// stereo.
func decodeMP3(r io.ReadSeeker) (pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm{}, err
	}
	data := make([]float64, len(raw)/2)
	for i := range data {
		data[i] = float64(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768
	}
	return pcm{rate: dec.SampleRate(), channels: 2, data: data}, nil
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
