package event

import (
	"strings"
	"testing"
)

func TestKindOrdinals(t *testing.T) {
	// The ordinals are part of the persisted format.
	want := map[Kind]int{
		PointerMove:      0,
		PointerLeftDown:  1,
		PointerLeftUp:    2,
		PointerRightDown: 3,
		PointerRightUp:   4,
		PointerWheel:     5,
		KeyDown:          6,
		KeyUp:            7,
	}
	for k, ord := range want {
		if int(k) != ord {
			t.Errorf("%s: ordinal %d, want %d", k, int(k), ord)
		}
	}
}

func TestHeaderFieldCount(t *testing.T) {
	fields := strings.Split(Header, ",")
	if len(fields) != 10 {
		t.Fatalf("header has %d fields, want 10", len(fields))
	}
	if fields[0] != "timestamp" || fields[9] != "mouse_speed_pxps" {
		t.Errorf("unexpected header layout: %s", Header)
	}
}

func TestRecordCSV(t *testing.T) {
	r := Record{
		TimestampMs:     1700000000123,
		Kind:            PointerMove,
		X:               30,
		Y:               40,
		TimeSinceLastMs: 50,
		ActiveApp:       "editor",
		BackgroundApps:  12,
		SpeedPxPerSec:   1000,
	}
	got := r.CSV()
	want := "1700000000123,0,30,40,0,0,50,editor,12,1000.00"
	if got != want {
		t.Errorf("CSV() = %q, want %q", got, want)
	}
}

func TestRecordCSVKeyEvent(t *testing.T) {
	r := Record{
		TimestampMs:     75,
		Kind:            KeyUp,
		KeyCode:         65,
		TimeSinceLastMs: 75,
		ActiveApp:       UnknownApp,
	}
	got := r.CSV()
	want := "75,7,0,0,65,0,75,Unknown,0,0.00"
	if got != want {
		t.Errorf("CSV() = %q, want %q", got, want)
	}
}

func TestRecordCSVFieldCountMatchesHeader(t *testing.T) {
	line := Record{ActiveApp: "a"}.CSV()
	if got, want := len(strings.Split(line, ",")), len(strings.Split(Header, ",")); got != want {
		t.Errorf("record has %d fields, header has %d", got, want)
	}
}

func TestSanitizeApp(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"editor", "editor"},
		{"", "Unknown"},
		{"a,b", "a_b"},
		{"a\nb", "a_b"},
		{"a\r\nb", "a__b"},
	}
	for _, tc := range cases {
		if got := SanitizeApp(tc.in); got != tc.want {
			t.Errorf("SanitizeApp(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSpeedFormattingTwoDigits(t *testing.T) {
	r := Record{Kind: PointerMove, ActiveApp: "x", SpeedPxPerSec: 707.1067811}
	line := r.CSV()
	if !strings.HasSuffix(line, ",707.11") {
		t.Errorf("speed not rounded to two digits: %s", line)
	}
}
