package mock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

type recordingTap struct {
	mu      sync.Mutex
	samples []float32
}

func (r *recordingTap) WriteSamples(s []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s...)
}

func TestLoad(t *testing.T) {
	out := NewOutput()

	info, err := out.Load("/music/Some Song.FLAC")
	require.NoError(t, err)
	assert.Equal(t, "Some Song", info.Title)
	assert.Equal(t, "flac", info.Format)
	assert.Equal(t, DefaultSampleRate, info.SampleRate)
	assert.Equal(t, domain.StatusStopped, out.Status())
}

func TestLoad_Errors(t *testing.T) {
	out := NewOutput()

	_, err := out.Load("")
	assert.ErrorIs(t, err, domain.ErrInvalidFilePath)

	_, err = out.Load("/music/track.mod")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	out.SetFailLoad(true)
	_, err = out.Load("/music/track.mp3")
	var engineErr *domain.AudioEngineError
	assert.ErrorAs(t, err, &engineErr)
}

func TestPlaybackTransitions(t *testing.T) {
	out := NewOutput()
	assert.ErrorIs(t, out.Play(), domain.ErrNoTrackLoaded)
	assert.ErrorIs(t, out.Pause(), domain.ErrNoTrackLoaded)

	_, err := out.Load("/music/a.mp3")
	require.NoError(t, err)

	require.NoError(t, out.Play())
	assert.True(t, out.IsPlaying())

	require.NoError(t, out.Pause())
	assert.Equal(t, domain.StatusPaused, out.Status())
	assert.False(t, out.IsPlaying())

	require.NoError(t, out.Play())
	out.Finish()
	assert.Equal(t, domain.StatusStopped, out.Status())

	require.NoError(t, out.Play())
	require.NoError(t, out.Stop())
	assert.False(t, out.IsPlaying())
}

func TestFailPlay(t *testing.T) {
	out := NewOutput()
	_, err := out.Load("/music/a.wav")
	require.NoError(t, err)

	out.SetFailPlay(true)
	assert.ErrorIs(t, out.Play(), domain.ErrPlaybackFailed)
	assert.False(t, out.IsPlaying())
}

func TestVolume(t *testing.T) {
	out := NewOutput()
	require.NoError(t, out.SetVolume(0.25))
	assert.Equal(t, 0.25, out.Volume())
	assert.ErrorIs(t, out.SetVolume(1.5), domain.ErrInvalidVolume)
	assert.ErrorIs(t, out.SetVolume(-0.1), domain.ErrInvalidVolume)
	assert.Equal(t, 0.25, out.Volume())
}

func TestAttachTap_Once(t *testing.T) {
	out := NewOutput()
	tap := &recordingTap{}

	require.NoError(t, out.AttachTap(tap))
	assert.ErrorIs(t, out.AttachTap(&recordingTap{}), domain.ErrSourceAlreadyConnected)
	assert.Equal(t, 2, out.AttachCount())
}

func TestAttachTap_Fail(t *testing.T) {
	out := NewOutput()
	out.SetFailAttach(true)
	assert.Error(t, out.AttachTap(&recordingTap{}))

	out.SetFailAttach(false)
	assert.NoError(t, out.AttachTap(&recordingTap{}))
}

func TestFeed_OnlyWhilePlaying(t *testing.T) {
	out := NewOutput()
	tap := &recordingTap{}
	require.NoError(t, out.AttachTap(tap))
	_, err := out.Load("/music/a.ogg")
	require.NoError(t, err)

	out.Feed([]float32{0.1, 0.2})
	assert.Empty(t, tap.samples)

	require.NoError(t, out.Play())
	out.Feed([]float32{0.1, 0.2})
	assert.Equal(t, []float32{0.1, 0.2}, tap.samples)

	// The tap survives a new track.
	_, err = out.Load("/music/b.ogg")
	require.NoError(t, err)
	require.NoError(t, out.Play())
	out.Feed([]float32{0.3})
	assert.Len(t, tap.samples, 3)
}

func TestClose(t *testing.T) {
	out := NewOutput()
	_, err := out.Load("/music/a.mp3")
	require.NoError(t, err)

	require.NoError(t, out.Close())
	_, err = out.Load("/music/a.mp3")
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestConcurrentAccess(t *testing.T) {
	out := NewOutput()
	require.NoError(t, out.AttachTap(&recordingTap{}))
	_, err := out.Load("/music/a.mp3")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_ = out.Play()
				out.Feed([]float32{0})
				_ = out.IsPlaying()
				_ = out.Pause()
			}
		}()
	}
	wg.Wait()
}
