package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/govis/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/logger"
)

// Mock preferences repository for testing
type mockPreferencesRepository struct {
	mu       sync.RWMutex
	mode     domain.RenderMode
	volume   float64
	saveErr  error
	loadErr  error
	cleared  int
	modeSave int
}

func newMockPreferencesRepository() *mockPreferencesRepository {
	return &mockPreferencesRepository{mode: domain.DefaultRenderMode, volume: 0.8}
}

func (m *mockPreferencesRepository) SaveRenderMode(mode domain.RenderMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mode = mode
	m.modeSave++
	return nil
}

func (m *mockPreferencesRepository) LoadRenderMode() (domain.RenderMode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode, m.loadErr
}

func (m *mockPreferencesRepository) SaveVolume(volume float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.volume = volume
	return nil
}

func (m *mockPreferencesRepository) LoadVolume() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume, m.loadErr
}

func (m *mockPreferencesRepository) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = domain.DefaultRenderMode
	m.volume = 0.8
	m.cleared++
	return nil
}

// Helper to create a test preference service
func newTestPreferenceService(t *testing.T, repo *mockPreferencesRepository) (*PreferenceService, *eventbus.SyncEventBus) {
	t.Helper()
	bus := eventbus.NewSyncEventBus(logger.NewTestLogger())
	service := NewPreferenceService(logger.NewTestLogger(), repo, bus)
	t.Cleanup(func() {
		_ = service.Shutdown()
		_ = bus.Close()
	})
	return service, bus
}

func TestPreferenceService_LoadsSavedValues(t *testing.T) {
	repo := newMockPreferencesRepository()
	repo.mode = domain.ModeWave
	repo.volume = 0.3

	service, _ := newTestPreferenceService(t, repo)

	assert.Equal(t, domain.ModeWave, service.RenderMode())
	assert.Equal(t, 0.3, service.Volume())
}

func TestPreferenceService_LoadErrorKeepsDefaults(t *testing.T) {
	repo := newMockPreferencesRepository()
	repo.mode = domain.ModeCircle
	repo.loadErr = errors.New("storage unavailable")

	service, _ := newTestPreferenceService(t, repo)

	assert.Equal(t, domain.DefaultRenderMode, service.RenderMode())
	assert.Equal(t, 0.8, service.Volume())
}

func TestPreferenceService_PersistsModeChanges(t *testing.T) {
	repo := newMockPreferencesRepository()
	service, bus := newTestPreferenceService(t, repo)

	bus.Publish(domain.NewRenderModeChangedEvent(domain.ModeCircle))

	assert.Equal(t, domain.ModeCircle, service.RenderMode())
	assert.Equal(t, domain.ModeCircle, repo.mode)
}

func TestPreferenceService_ShutdownStopsListening(t *testing.T) {
	repo := newMockPreferencesRepository()
	service, bus := newTestPreferenceService(t, repo)

	require.NoError(t, service.Shutdown())
	bus.Publish(domain.NewRenderModeChangedEvent(domain.ModeWave))

	assert.Zero(t, repo.modeSave)
}

func TestPreferenceService_SetVolume(t *testing.T) {
	repo := newMockPreferencesRepository()
	service, _ := newTestPreferenceService(t, repo)

	require.NoError(t, service.SetVolume(0.5))
	assert.Equal(t, 0.5, service.Volume())
	assert.Equal(t, 0.5, repo.volume)

	assert.ErrorIs(t, service.SetVolume(1.1), domain.ErrInvalidVolume)
	assert.ErrorIs(t, service.SetVolume(-0.1), domain.ErrInvalidVolume)
	assert.Equal(t, 0.5, service.Volume())
}

func TestPreferenceService_SaveFailureKeepsCache(t *testing.T) {
	repo := newMockPreferencesRepository()
	service, _ := newTestPreferenceService(t, repo)
	repo.saveErr = errors.New("disk full")

	err := service.SetRenderMode(domain.ModeWave)
	var serviceErr *domain.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "SetRenderMode", serviceErr.Op)
	assert.ErrorIs(t, err, repo.saveErr)

	assert.Error(t, service.SetVolume(0.2))
	assert.Equal(t, domain.DefaultRenderMode, service.RenderMode())
	assert.Equal(t, 0.8, service.Volume())
}

func TestPreferenceService_ResetToDefaults(t *testing.T) {
	repo := newMockPreferencesRepository()
	service, _ := newTestPreferenceService(t, repo)
	require.NoError(t, service.SetRenderMode(domain.ModeCircle))
	require.NoError(t, service.SetVolume(0.1))

	require.NoError(t, service.ResetToDefaults())

	assert.Equal(t, domain.DefaultRenderMode, service.RenderMode())
	assert.Equal(t, 0.8, service.Volume())
	assert.Equal(t, 1, repo.cleared)
}
