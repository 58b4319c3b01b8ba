// Package domain defines events for the event-driven architecture.
// Events decouple the host player controls from the visualizer driver.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventTrackLoaded     EventType = "track.loaded"
	EventPlaybackStarted EventType = "playback.started"
	EventPlaybackPaused  EventType = "playback.paused"
	EventPlaybackStopped EventType = "playback.stopped"
	EventTrackError      EventType = "track.error"

	// Visualizer events
	EventRenderModeChanged EventType = "visualizer.mode_changed"
	EventFallbackChanged   EventType = "visualizer.fallback_changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackLoadedEvent is published when a track is successfully loaded into the output.
type TrackLoadedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e TrackLoadedEvent) Type() EventType {
	return EventTrackLoaded
}

// NewTrackLoadedEvent creates a new TrackLoadedEvent.
func NewTrackLoadedEvent(track TrackInfo) TrackLoadedEvent {
	return TrackLoadedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// PlaybackStartedEvent is published when playback starts or resumes.
type PlaybackStartedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e PlaybackStartedEvent) Type() EventType {
	return EventPlaybackStarted
}

// NewPlaybackStartedEvent creates a new PlaybackStartedEvent.
func NewPlaybackStartedEvent(track TrackInfo) PlaybackStartedEvent {
	return PlaybackStartedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// PlaybackPausedEvent is published when playback is paused.
type PlaybackPausedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e PlaybackPausedEvent) Type() EventType {
	return EventPlaybackPaused
}

// NewPlaybackPausedEvent creates a new PlaybackPausedEvent.
func NewPlaybackPausedEvent(track TrackInfo) PlaybackPausedEvent {
	return PlaybackPausedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// PlaybackStoppedEvent is published when playback stops, either by the user or
// because the track reached its end.
type PlaybackStoppedEvent struct {
	baseEvent
	Track    TrackInfo
	Finished bool // True when the track ended on its own
}

// Type returns the event type.
func (e PlaybackStoppedEvent) Type() EventType {
	return EventPlaybackStopped
}

// NewPlaybackStoppedEvent creates a new PlaybackStoppedEvent.
func NewPlaybackStoppedEvent(track TrackInfo, finished bool) PlaybackStoppedEvent {
	return PlaybackStoppedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Finished:  finished,
	}
}

// TrackErrorEvent is published when loading or playing a track fails.
type TrackErrorEvent struct {
	baseEvent
	FilePath string
	Error    error
}

// Type returns the event type.
func (e TrackErrorEvent) Type() EventType {
	return EventTrackError
}

// NewTrackErrorEvent creates a new TrackErrorEvent.
func NewTrackErrorEvent(filePath string, err error) TrackErrorEvent {
	return TrackErrorEvent{
		baseEvent: newBaseEvent(),
		FilePath:  filePath,
		Error:     err,
	}
}

// RenderModeChangedEvent is published when the visualizer mode changes.
type RenderModeChangedEvent struct {
	baseEvent
	Mode RenderMode
}

// Type returns the event type.
func (e RenderModeChangedEvent) Type() EventType {
	return EventRenderModeChanged
}

// NewRenderModeChangedEvent creates a new RenderModeChangedEvent.
func NewRenderModeChangedEvent(mode RenderMode) RenderModeChangedEvent {
	return RenderModeChangedEvent{
		baseEvent: newBaseEvent(),
		Mode:      mode,
	}
}

// FallbackChangedEvent is published when the driver switches between real
// and simulated spectrum data.
type FallbackChangedEvent struct {
	baseEvent
	Active bool  // True while simulated data is being drawn
	Cause  error // Sampler error that triggered the fallback (nil when leaving it)
}

// Type returns the event type.
func (e FallbackChangedEvent) Type() EventType {
	return EventFallbackChanged
}

// NewFallbackChangedEvent creates a new FallbackChangedEvent.
func NewFallbackChangedEvent(active bool, cause error) FallbackChangedEvent {
	return FallbackChangedEvent{
		baseEvent: newBaseEvent(),
		Active:    active,
		Cause:     cause,
	}
}
