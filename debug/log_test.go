package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesCategoryLines(t *testing.T) {
	dir := t.TempDir()
	if err := Enable(dir); err != nil {
		t.Fatal(err)
	}
	defer Disable()

	Log("editor", "wrote step %d", 7)
	for i := 0; i < 4; i++ {
		LogEvery(2, "clock", "overrun")
	}
	Disable()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "editor") || !strings.Contains(out, "wrote step 7") {
		t.Errorf("missing editor line in:\n%s", out)
	}
	if got := strings.Count(out, "overrun (every 2"); got != 2 {
		t.Errorf("LogEvery wrote %d lines, want 2", got)
	}
}

func TestLogDisabledIsNoop(t *testing.T) {
	Disable()
	Log("x", "nothing")
	if Enabled() {
		t.Fatal("expected logging disabled")
	}
}

func TestLogEveryCountsOnlyWhileEnabled(t *testing.T) {
	Disable()
	LogEvery(1, "clock", "dropped")

	dir := t.TempDir()
	if err := Enable(dir); err != nil {
		t.Fatal(err)
	}
	// second Enable keeps the open file
	if err := Enable(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	LogEvery(1, "clock", "dropped")
	Disable()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "dropped (every 1, count=1)") {
		t.Errorf("count carried over from disabled calls:\n%s", data)
	}
}
