// Package summary computes end-of-session statistics from the in-memory
// record of captured events.
package summary

import (
	"encoding/json"
	"fmt"
	"os"

	"behaviord/internal/event"
)

// Summary is the aggregate view of a capture session.
type Summary struct {
	StartedAtMs      int64   `json:"started_at_ms"`
	EndedAtMs        int64   `json:"ended_at_ms"`
	TotalEvents      int64   `json:"total_events"`
	PointerMoves     int64   `json:"pointer_moves"`
	Clicks           int64   `json:"clicks"`
	WheelEvents      int64   `json:"wheel_events"`
	KeyPresses       int64   `json:"key_presses"`
	KeyReleases      int64   `json:"key_releases"`
	MeanPointerSpeed float64 `json:"mean_pointer_speed_pxps"`
	LastActiveApp    string  `json:"last_active_app"`
	LastBackground   int     `json:"last_background_apps"`
	DroppedLines     int64   `json:"dropped_lines"`
	RingTrims        int64   `json:"ring_trims"`
}

// Compute aggregates the retained records. Records only reflect what the
// ring still holds after trimming; total counts come from the caller, which
// tracks them across the whole session.
func Compute(records []event.Record) Summary {
	var s Summary
	var speedSum float64
	var speedN int64
	for i := range records {
		r := &records[i]
		s.TotalEvents++
		switch r.Kind {
		case event.PointerMove:
			s.PointerMoves++
			speedSum += r.SpeedPxPerSec
			speedN++
		case event.PointerLeftDown, event.PointerRightDown:
			s.Clicks++
		case event.PointerWheel:
			s.WheelEvents++
		case event.KeyDown:
			s.KeyPresses++
		case event.KeyUp:
			s.KeyReleases++
		}
		s.LastActiveApp = r.ActiveApp
		s.LastBackground = r.BackgroundApps
	}
	if speedN > 0 {
		s.MeanPointerSpeed = speedSum / float64(speedN)
	}
	if s.LastActiveApp == "" {
		s.LastActiveApp = event.UnknownApp
	}
	return s
}

// WriteJSON writes the summary as indented JSON to path.
func (s Summary) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Render formats the summary for terminal output.
func (s Summary) Render() string {
	return fmt.Sprintf(
		"Session statistics\n"+
			"  total events:       %d\n"+
			"  pointer moves:      %d\n"+
			"  clicks:             %d\n"+
			"  wheel events:       %d\n"+
			"  key presses:        %d\n"+
			"  key releases:       %d\n"+
			"  mean pointer speed: %.2f px/s\n"+
			"  last active app:    %s\n"+
			"  background apps:    %d\n"+
			"  dropped lines:      %d\n",
		s.TotalEvents, s.PointerMoves, s.Clicks, s.WheelEvents,
		s.KeyPresses, s.KeyReleases, s.MeanPointerSpeed,
		s.LastActiveApp, s.LastBackground, s.DroppedLines)
}
