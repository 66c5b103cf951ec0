package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSetupLogFileRotates(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		f, err := SetupLogFile(dir, 2, start.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("SetupLogFile() error = %v", err)
		}
		f.Close()
	}

	files, _ := filepath.Glob(filepath.Join(dir, "studynotes-*.log"))
	if len(files) != 2 {
		t.Fatalf("kept %d files, want 2: %v", len(files), files)
	}
	if !strings.HasSuffix(files[1], "studynotes-2026-03-01T09-03-00.log") {
		t.Errorf("newest file = %s", files[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "studynotes-2026-03-01T09-00-00.log")); !os.IsNotExist(err) {
		t.Error("oldest log file not removed")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %s", buf.String())
	}
	NewLogger(&buf, true).Debug("shown", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("debug record missing: %s", buf.String())
	}
}
