package memory

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// Helper to create a test preferences repository
func newTestPreferencesRepository() *PreferencesRepository {
	app := test.NewApp()
	return NewPreferencesRepository(app.Preferences())
}

func TestPreferencesRepository_RenderMode(t *testing.T) {
	repo := newTestPreferencesRepository()

	mode, err := repo.LoadRenderMode()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRenderMode, mode)

	require.NoError(t, repo.SaveRenderMode(domain.ModeCircle))
	mode, err = repo.LoadRenderMode()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeCircle, mode)
}

func TestPreferencesRepository_RenderMode_Invalid(t *testing.T) {
	repo := newTestPreferencesRepository()

	err := repo.SaveRenderMode("spiral")
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)

	// A corrupt stored value reads back as the default.
	repo.prefs.SetString(keyRenderMode, "garbage")
	mode, err := repo.LoadRenderMode()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRenderMode, mode)
}

func TestPreferencesRepository_Volume(t *testing.T) {
	repo := newTestPreferencesRepository()

	volume, err := repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, DefaultVolume, volume)

	require.NoError(t, repo.SaveVolume(0.35))
	volume, err = repo.LoadVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.35, volume)

	assert.ErrorIs(t, repo.SaveVolume(2), domain.ErrInvalidVolume)
}

func TestPreferencesRepository_Clear(t *testing.T) {
	repo := newTestPreferencesRepository()
	require.NoError(t, repo.SaveRenderMode(domain.ModeWave))
	require.NoError(t, repo.SaveVolume(0.1))

	require.NoError(t, repo.Clear())

	mode, _ := repo.LoadRenderMode()
	volume, _ := repo.LoadVolume()
	assert.Equal(t, domain.DefaultRenderMode, mode)
	assert.Equal(t, DefaultVolume, volume)
}
