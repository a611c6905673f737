package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"sketchpad/internal/config"
	"sketchpad/internal/session"
)

const fillScript = `[
	{"type": "tool", "tool": "fill"},
	{"type": "color", "color": "#00F"},
	{"type": "down", "x": 5, "y": 5},
	{"type": "up", "x": 5, "y": 5}
]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// recordingNotifier 记录已发送的通知
type recordingNotifier struct {
	shown []string
}

func (n *recordingNotifier) Show(title, message string) error {
	n.shown = append(n.shown, title+": "+message)
	return nil
}

func TestRunScriptExport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	writeFile(t, cfgPath, `{"canvas": {"width": 200, "height": 150}, "behavior": {"showNotification": false}}`)
	scriptPath := filepath.Join(dir, "script.json")
	writeFile(t, scriptPath, fillScript)
	out := filepath.Join(dir, "out.png")

	if err := run(options{configPath: cfgPath, scriptPath: scriptPath, outPath: out}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 150 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if _, _, b, _ := img.At(199, 149).RGBA(); b>>8 != 255 {
		t.Errorf("filled pixel blue channel = %d", b>>8)
	}
}

func TestRunBadScript(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "script.json")
	writeFile(t, scriptPath, `[{"type": "explode"}]`)
	out := filepath.Join(dir, "out.png")

	err := run(options{configPath: filepath.Join(dir, "config.json"), scriptPath: scriptPath, outPath: out})
	if err == nil {
		t.Error("expected error for unknown command")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("export written despite script failure")
	}
}

func TestExportNotifiesBeforeReturning(t *testing.T) {
	sess, err := session.New(session.WithSize(120, 80))
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	out := filepath.Join(t.TempDir(), "out.png")
	n := &recordingNotifier{}

	if err := export(cfg, sess, options{outPath: out}, n); err != nil {
		t.Fatal(err)
	}
	if len(n.shown) != 1 || n.shown[0] != "导出完成: "+out {
		t.Errorf("notifications = %q", n.shown)
	}
}

func TestExportDirectoryOverrideAndZoom(t *testing.T) {
	sess, err := session.New(session.WithSize(120, 80))
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Storage.Directory = filepath.Join(t.TempDir(), "unused")
	dir := filepath.Join(t.TempDir(), "drawings")

	if err := export(cfg, sess, options{dir: dir, zoom: 50}, &recordingNotifier{}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("files in override dir = %d, want 1", len(entries))
	}
	if _, err := os.Stat(cfg.Storage.Directory); !os.IsNotExist(err) {
		t.Error("configured directory used despite override")
	}

	f, err := os.Open(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 40 {
		t.Errorf("zoomed export bounds = %v, want 60x40", img.Bounds())
	}
}
