package summary

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"behaviord/internal/event"
)

func TestComputeCounts(t *testing.T) {
	records := []event.Record{
		{Kind: event.PointerMove, SpeedPxPerSec: 100, ActiveApp: "editor", BackgroundApps: 5},
		{Kind: event.PointerMove, SpeedPxPerSec: 300, ActiveApp: "editor", BackgroundApps: 5},
		{Kind: event.PointerLeftDown, ActiveApp: "editor", BackgroundApps: 5},
		{Kind: event.PointerLeftUp, ActiveApp: "editor", BackgroundApps: 5},
		{Kind: event.PointerRightDown, ActiveApp: "browser", BackgroundApps: 6},
		{Kind: event.PointerWheel, WheelDelta: 120, ActiveApp: "browser", BackgroundApps: 6},
		{Kind: event.KeyDown, KeyCode: 65, ActiveApp: "browser", BackgroundApps: 6},
		{Kind: event.KeyUp, KeyCode: 65, ActiveApp: "terminal", BackgroundApps: 7},
	}

	s := Compute(records)
	if s.TotalEvents != 8 {
		t.Errorf("TotalEvents = %d, want 8", s.TotalEvents)
	}
	if s.PointerMoves != 2 {
		t.Errorf("PointerMoves = %d, want 2", s.PointerMoves)
	}
	if s.Clicks != 2 {
		t.Errorf("Clicks = %d, want 2", s.Clicks)
	}
	if s.WheelEvents != 1 {
		t.Errorf("WheelEvents = %d, want 1", s.WheelEvents)
	}
	if s.KeyPresses != 1 || s.KeyReleases != 1 {
		t.Errorf("key counts = (%d,%d), want (1,1)", s.KeyPresses, s.KeyReleases)
	}
	if s.MeanPointerSpeed != 200 {
		t.Errorf("MeanPointerSpeed = %v, want 200", s.MeanPointerSpeed)
	}
	if s.LastActiveApp != "terminal" || s.LastBackground != 7 {
		t.Errorf("last context = (%q,%d), want (terminal,7)", s.LastActiveApp, s.LastBackground)
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)
	if s.TotalEvents != 0 {
		t.Errorf("TotalEvents = %d, want 0", s.TotalEvents)
	}
	if s.MeanPointerSpeed != 0 {
		t.Errorf("MeanPointerSpeed = %v, want 0", s.MeanPointerSpeed)
	}
	if s.LastActiveApp != event.UnknownApp {
		t.Errorf("LastActiveApp = %q, want %q", s.LastActiveApp, event.UnknownApp)
	}
}

func TestRenderContainsCounts(t *testing.T) {
	s := Summary{TotalEvents: 12, Clicks: 3, MeanPointerSpeed: 123.456, LastActiveApp: "editor"}
	out := s.Render()
	for _, want := range []string{"12", "123.46", "editor"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteJSONMatchesSchema(t *testing.T) {
	s := Summary{
		StartedAtMs:      1000,
		EndedAtMs:        2000,
		TotalEvents:      5,
		PointerMoves:     2,
		Clicks:           1,
		KeyPresses:       1,
		KeyReleases:      1,
		MeanPointerSpeed: 250.5,
		LastActiveApp:    "editor",
		LastBackground:   4,
	}

	path := filepath.Join(t.TempDir(), "summary.json")
	if err := s.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	schemaPath := filepath.Join(repoRoot(t), "docs", "schema", "session-summary-v1.schema.json")
	validateInstance(t, schemaPath, path)
}

func validateInstance(t *testing.T, schemaPath, instancePath string) {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}

	instanceData, err := os.ReadFile(instancePath)
	if err != nil {
		t.Fatalf("read instance: %v", err)
	}

	var instance any
	if err := json.Unmarshal(instanceData, &instance); err != nil {
		t.Fatalf("unmarshal instance: %v", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaPath, bytes.NewReader(schemaData)); err != nil {
		t.Fatalf("add schema resource: %v", err)
	}
	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}

	if err := schema.Validate(instance); err != nil {
		t.Fatalf("schema validation failed for %s: %v", filepath.Base(instancePath), err)
	}
}

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to resolve caller path")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
