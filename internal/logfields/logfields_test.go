package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Batch", KeyBatch, "Re-Exporting Spine Files", Batch("Re-Exporting Spine Files")},
		{"TaskKind", KeyTaskKind, "skeleton-export", TaskKind("skeleton-export")},
		{"Path", KeyPath, "data-src/hero.spine", Path("data-src/hero.spine")},
		{"DestPath", KeyDestPath, "data/hero", DestPath("data/hero")},
		{"Event", KeyEvent, "modified", Event("modified")},
		{"Rule", KeyRule, "script", Rule("script")},
		{"NodeID", KeyNodeID, "007", NodeID("007")},
		{"Character", KeyCharacter, "joy", Character("joy")},
		{"Tool", KeyTool, "/usr/bin/spine", Tool("/usr/bin/spine")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := ExitCode(3); a.Key != KeyExitCode || a.Value.Int64() != 3 {
		t.Fatalf("unexpected exit code attr: %v", a)
	}
	if a := Workers(8); a.Key != KeyWorkers || a.Value.Int64() != 8 {
		t.Fatalf("unexpected workers attr: %v", a)
	}
	if a := Tasks(2); a.Key != KeyTasks || a.Value.Int64() != 2 {
		t.Fatalf("unexpected tasks attr: %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("expected empty error value, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
}
