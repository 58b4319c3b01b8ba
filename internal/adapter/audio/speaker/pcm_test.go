package speaker

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// writeSineWAV writes a 16-bit sine tone and returns its path.
func writeSineWAV(t *testing.T, rate, channels, frames int, freq float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	data := make([]int, frames*channels)
	for i := range frames {
		v := int(math.Sin(2*math.Pi*freq*float64(i)/float64(rate)) * 16000)
		for ch := range channels {
			data[i*channels+ch] = v
		}
	}

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

func openTestDecoder(t *testing.T, path string) decoder {
	t.Helper()
	file, dec, err := openTrack(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return dec
}

// drain reads s to the end and returns the total bytes read.
func drain(t *testing.T, s *pcmStream) int {
	t.Helper()
	buf := make([]byte, 1024)
	total := 0
	for {
		n, err := s.Read(buf)
		total += n
		if err == io.EOF {
			return total
		}
		require.NoError(t, err)
	}
}

func TestWAVDecoder_Header(t *testing.T) {
	path := writeSineWAV(t, 22050, 1, 2205, 440)
	dec := openTestDecoder(t, path)

	assert.Equal(t, 22050, dec.SampleRate())
	assert.Equal(t, 1, dec.ChannelCount())
	assert.Equal(t, int64(2205*2), dec.Length())
}

func TestNewDecoder_UnsupportedFormat(t *testing.T) {
	_, err := newDecoder("txt", nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, _, err = openTrack("/music/notes.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestPCMStream_SameRateKeepsLength(t *testing.T) {
	path := writeSineWAV(t, 44100, 2, 4410, 440)

	var tapped int
	s := newPCMStream(openTestDecoder(t, path), 44100, func(samples []float32) {
		tapped += len(samples)
	})

	total := drain(t, s)

	// The final frame has nothing to interpolate towards
	assert.Equal(t, 4409*outputFrameBytes, total)
	assert.Equal(t, 4409, tapped)
	assert.Equal(t, int64(4409), s.Frames())
}

func TestPCMStream_UpsamplesMono(t *testing.T) {
	path := writeSineWAV(t, 22050, 1, 2205, 440)

	s := newPCMStream(openTestDecoder(t, path), 44100, nil)
	frames := drain(t, s) / outputFrameBytes

	assert.InDelta(t, 4410, frames, 4)
}

func TestPCMStream_TapSeesPlayedSignal(t *testing.T) {
	path := writeSineWAV(t, 44100, 1, 4410, 1000)

	var peak float32
	s := newPCMStream(openTestDecoder(t, path), 44100, func(samples []float32) {
		for _, v := range samples {
			peak = max(peak, v)
		}
	})
	drain(t, s)

	assert.InDelta(t, 16000.0/32768, peak, 0.01)
}

func TestReadTrackInfo_FallsBackToFileName(t *testing.T) {
	path := writeSineWAV(t, 8000, 1, 80, 440)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info := readTrackInfo(path, f)

	assert.Equal(t, "tone", info.Title)
	assert.Equal(t, "wav", info.Format)
	assert.Empty(t, info.Artist)
}
