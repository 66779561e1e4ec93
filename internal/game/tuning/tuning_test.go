package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.EventLogCapacity != 1000 {
		t.Fatalf("capacity = %d, want 1000", d.EventLogCapacity)
	}
	if d.Difficulties["hard"].Frequency != 2 || d.Difficulties["hard"].Intensity != 3 {
		t.Fatalf("hard profile = %+v", d.Difficulties["hard"])
	}
}

func TestProfile_FallbackToNormal(t *testing.T) {
	d := Defaults()
	if got := d.Profile("nightmare"); got != d.Difficulties["normal"] {
		t.Fatalf("unknown difficulty resolved to %+v, want normal", got)
	}
	if d.IsKnownDifficulty("nightmare") {
		t.Fatal("nightmare should not be a known difficulty")
	}
	if !d.IsKnownDifficulty("easy") {
		t.Fatal("easy should be known")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	body := `
event_log_capacity: 10
ambient_period_s: 1
difficulties:
  easy: {frequency: 10, intensity: 1}
  normal: {frequency: 5, intensity: 2}
  hard: {frequency: 1, intensity: 4}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.EventLogCapacity != 10 {
		t.Fatalf("capacity = %d, want 10", got.EventLogCapacity)
	}
	if got.Profile("hard").Intensity != 4 {
		t.Fatalf("hard intensity = %d, want 4", got.Profile("hard").Intensity)
	}
	// Fields absent from the file keep their defaults.
	if got.RoomWindow != 50 {
		t.Fatalf("room window = %d, want default 50", got.RoomWindow)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
