package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedSpecsLoad(t *testing.T) {
	rig, err := LoadRigSpec()
	if err != nil {
		t.Fatalf("load rig: %v", err)
	}
	if len(rig.Bodies) != 6 || len(rig.Joints) != 5 {
		t.Fatalf("expected 6 bodies and 5 joints, got %d and %d", len(rig.Bodies), len(rig.Joints))
	}
	if rig.Joints[0].Kind != "sliding" || rig.Joints[0].Limit.Upper != 4.1 {
		t.Fatalf("unexpected base joint: %+v", rig.Joints[0])
	}

	controls, err := LoadControlsSpec()
	if err != nil {
		t.Fatalf("load controls: %v", err)
	}
	if controls.BaseSpeed != 5 || controls.RotationSpeed != 2 {
		t.Fatalf("unexpected speeds: %+v", controls)
	}
	if len(controls.Bindings) != 12 {
		t.Fatalf("expected 12 bindings, got %d", len(controls.Bindings))
	}

	cam, err := LoadCameraSpec()
	if err != nil {
		t.Fatalf("load camera: %v", err)
	}
	if cam.RefWidth != 1920 || cam.RefHeight != 1000 {
		t.Fatalf("unexpected reference size: %+v", cam)
	}

	sim, err := LoadSimulationSpec()
	if err != nil {
		t.Fatalf("load simulation: %v", err)
	}
	if sim.DebugColor == nil || sim.Background == nil {
		t.Fatalf("expected colors to be set")
	}
	if got := color.NRGBAModel.Convert(sim.DebugColor.Color).(color.NRGBA); got != (color.NRGBA{B: 0xff, A: 0xff}) {
		t.Fatalf("unexpected debug color %v", got)
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	if err := os.WriteFile(filepath.Join(dir, CameraFile), []byte("zoom: 2.5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cam, err := LoadCameraSpec()
	if err != nil {
		t.Fatalf("load camera: %v", err)
	}
	if cam.Zoom != 2.5 {
		t.Fatalf("expected disk override zoom 2.5, got %v", cam.Zoom)
	}
	if _, ok := ModTime(CameraFile); !ok {
		t.Fatalf("expected mod time for disk prefab")
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"wave", "wave.tengo", "scripts/wave.tengo", "prefabs/scripts/wave.tengo"} {
		t.Run(name, func(t *testing.T) {
			data, err := LoadScript(name)
			if err != nil || len(data) == 0 {
				t.Fatalf("load %q: %v", name, err)
			}
		})
	}
	if _, err := LoadScript("missing"); err == nil {
		t.Fatalf("expected error for missing script")
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"rgb", `c: "#ff8000"`, color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, false},
		{"rgba", `c: "00ff0080"`, color.NRGBA{G: 0xff, A: 0x80}, false},
		{"short", `c: "#fff"`, color.NRGBA{}, true},
		{"list", `c: [1, 2]`, color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out struct {
				C *YAMLColor `yaml:"c"`
			}
			err := yaml.Unmarshal([]byte(c.in), &out)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := out.C.Color.(color.NRGBA); got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, ControlsFile), []byte("base_speed: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if name != ControlsFile {
			t.Fatalf("expected %s, got %s", ControlsFile, name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change event")
	}
}
