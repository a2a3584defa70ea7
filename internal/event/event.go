// Package event defines the behavioral event record and its durable CSV form.
//
// IMPORTANT: records describe input *behavior* - timing, kinematics, and
// coarse context - for training user-identity models. The virtual-key code
// is retained because key transition timing per key is a biometric signal;
// no text reconstruction is performed anywhere in this repository.
package event

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the class of an input event. The integer value of each
// constant is the ordinal written to the event_type CSV column, so the
// order here is part of the on-disk format and must not be rearranged.
type Kind int

const (
	PointerMove Kind = iota
	PointerLeftDown
	PointerLeftUp
	PointerRightDown
	PointerRightUp
	PointerWheel
	KeyDown
	KeyUp
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "pointer_move"
	case PointerLeftDown:
		return "pointer_left_down"
	case PointerLeftUp:
		return "pointer_left_up"
	case PointerRightDown:
		return "pointer_right_down"
	case PointerRightUp:
		return "pointer_right_up"
	case PointerWheel:
		return "pointer_wheel"
	case KeyDown:
		return "key_down"
	case KeyUp:
		return "key_up"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= PointerMove && k <= KeyUp
}

// Header is the canonical CSV header line, written exactly once when the
// output file is empty at open.
const Header = "timestamp,event_type,x,y,key_code,wheel_delta,time_since_last,active_app,background_apps,mouse_speed_pxps"

// Record is one observed input event after enrichment. Records are built on
// the hook callback path and never mutated afterwards.
type Record struct {
	// TimestampMs is wall-clock milliseconds since the Unix epoch.
	TimestampMs int64

	// Kind is the event class.
	Kind Kind

	// X, Y are screen-space pointer coordinates; zero for key events.
	X, Y int

	// KeyCode is the virtual-key identifier; zero for pointer events.
	KeyCode int

	// WheelDelta is the signed wheel payload; zero for non-wheel events.
	WheelDelta int

	// TimeSinceLastMs is the gap from the previously emitted record.
	// Zero for the first record of a session.
	TimeSinceLastMs int64

	// ActiveApp is the foreground application at dispatch time, or
	// "Unknown" when the probe failed or has not run yet.
	ActiveApp string

	// BackgroundApps is the live process count excluding the recorder.
	BackgroundApps int

	// SpeedPxPerSec is pointer speed in pixels per second. Populated only
	// for PointerMove records with a prior retained move; zero otherwise.
	SpeedPxPerSec float64
}

// UnknownApp is the sentinel foreground identifier used when the probe
// fails or no sample has been taken yet.
const UnknownApp = "Unknown"

// SanitizeApp rewrites characters that would break the unquoted CSV form.
func SanitizeApp(app string) string {
	if app == "" {
		return UnknownApp
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '\n', '\r':
			return '_'
		}
		return r
	}, app)
}

// CSV renders the record as one unquoted CSV line, fields in Header order,
// without a trailing newline. Speed uses fixed notation with exactly two
// fractional digits.
func (r Record) CSV() string {
	var b strings.Builder
	b.Grow(96)
	b.WriteString(strconv.FormatInt(r.TimestampMs, 10))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(r.Kind)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(r.X))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(r.Y))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(r.KeyCode))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(r.WheelDelta))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(r.TimeSinceLastMs, 10))
	b.WriteByte(',')
	b.WriteString(SanitizeApp(r.ActiveApp))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(r.BackgroundApps))
	b.WriteByte(',')
	fmt.Fprintf(&b, "%.2f", r.SpeedPxPerSec)
	return b.String()
}
