package speaker

import (
	"encoding/binary"
	"io"
	"sync/atomic"
)

const (
	outputChannels   = 2
	outputFrameBytes = outputChannels * 2
	readChunk        = 4096
)

// pcmStream converts a decoder's output to stereo 16-bit PCM at the context
// rate with linear interpolation. Every frame it hands out is also mixed to
// mono and passed to tap, so the analyser sees exactly what is played.
type pcmStream struct {
	dec      decoder
	channels int
	step     float64 // source frames per output frame
	tap      func([]float32)

	src     []int16 // undelivered source samples, interleaved
	pending []byte  // trailing odd byte of the last read
	pos     float64 // position inside src, in source frames
	eof     bool
	err     error

	raw  []byte
	mono []float32

	delivered atomic.Int64 // output frames handed out
}

func newPCMStream(dec decoder, outputRate int, tap func([]float32)) *pcmStream {
	channels := max(dec.ChannelCount(), 1)
	return &pcmStream{
		dec:      dec,
		channels: channels,
		step:     float64(dec.SampleRate()) / float64(outputRate),
		tap:      tap,
		raw:      make([]byte, readChunk),
	}
}

// Read implements io.Reader for oto.
func (s *pcmStream) Read(p []byte) (int, error) {
	frames := len(p) / outputFrameBytes
	s.mono = s.mono[:0]

	out := 0
	for out < frames {
		i := int(s.pos)
		if i+1 >= s.available() {
			if s.eof {
				break
			}
			s.fill()
			continue
		}

		frac := s.pos - float64(i)
		var sum float64
		for ch := range outputChannels {
			a := float64(s.sample(i, ch))
			b := float64(s.sample(i+1, ch))
			v := clamp16(int(a + (b-a)*frac))
			binary.LittleEndian.PutUint16(p[out*outputFrameBytes+ch*2:], uint16(v))
			sum += float64(v)
		}
		s.mono = append(s.mono, float32(sum/outputChannels/32768))
		out++
		s.pos += s.step
	}

	// Drop fully consumed source frames
	if k := min(int(s.pos), s.available()); k > 0 {
		s.src = s.src[k*s.channels:]
		s.pos -= float64(k)
	}

	if out > 0 {
		s.delivered.Add(int64(out))
		if s.tap != nil {
			s.tap(s.mono)
		}
		return out * outputFrameBytes, nil
	}
	if s.err != nil {
		return 0, s.err
	}
	return 0, io.EOF
}

// fill reads one chunk from the decoder into src.
func (s *pcmStream) fill() {
	n, err := s.dec.Read(s.raw)
	data := append(s.pending, s.raw[:n]...)
	whole := len(data) &^ 1
	for j := 0; j < whole; j += 2 {
		s.src = append(s.src, int16(binary.LittleEndian.Uint16(data[j:])))
	}
	s.pending = append(s.pending[:0], data[whole:]...)

	if err != nil {
		s.eof = true
		if err != io.EOF {
			s.err = err
		}
	}
}

func (s *pcmStream) available() int {
	return len(s.src) / s.channels
}

// sample returns channel ch of source frame i; mono sources feed both channels.
func (s *pcmStream) sample(i, ch int) int16 {
	if ch >= s.channels {
		ch = s.channels - 1
	}
	return s.src[i*s.channels+ch]
}

// Frames returns how many output frames have been delivered.
func (s *pcmStream) Frames() int64 {
	return s.delivered.Load()
}
