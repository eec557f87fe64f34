package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-drift/reactive/pkg/attr"
	"github.com/go-drift/reactive/pkg/errors"
)

func TestParseRunArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		dir      string
		duration time.Duration
		set      bool
		wantErr  bool
	}{
		{"empty", nil, "", 0, false, false},
		{"config", []string{"--config", "demo"}, "demo", 0, false, false},
		{"config equals", []string{"--config=demo"}, "demo", 0, false, false},
		{"duration", []string{"--duration", "3s"}, "", 3 * time.Second, true, false},
		{"duration equals", []string{"--duration=250ms", "--config", "x"}, "x", 250 * time.Millisecond, true, false},
		{"zero duration", []string{"--duration=0s"}, "", 0, true, false},
		{"missing config value", []string{"--config"}, "", 0, false, true},
		{"missing duration value", []string{"--duration"}, "", 0, false, true},
		{"bad duration", []string{"--duration", "soon"}, "", 0, false, true},
		{"negative duration", []string{"--duration=-1s"}, "", 0, false, true},
		{"unknown flag", []string{"--fast"}, "", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseRunArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRunArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.configDir != tt.dir {
				t.Errorf("expected config dir %q, got %q", tt.dir, opts.configDir)
			}
			if opts.duration != tt.duration || opts.durationSet != tt.set {
				t.Errorf("expected duration %s (set=%v), got %s (set=%v)", tt.duration, tt.set, opts.duration, opts.durationSet)
			}
		})
	}
}

func TestRun_ReflectsIntoAttributeDir(t *testing.T) {
	t.Cleanup(func() { errors.SetHandler(nil) })
	t.Setenv("REACTIVE_LOG_LEVEL", "disabled")

	dir := t.TempDir()
	config := `
attributes:
  dir: attrs
hosts:
  - tag: rating-element
    id: rating
    attributes:
      rating: "5"
  - tag: my-counter
    connected: false
`
	if err := os.WriteFile(filepath.Join(dir, "reactive.yaml"), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runRun([]string{"--config", dir, "--duration", "100ms"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	src, err := attr.OpenFileSource(filepath.Join(dir, "attrs", "rating.yaml"))
	if err != nil {
		t.Fatalf("open attributes: %v", err)
	}
	if got, ok := src.Get("rating"); !ok || got != "5" {
		t.Errorf("expected rating attribute 5, got %q (present=%v)", got, ok)
	}
	if _, ok := src.Get("vote"); ok {
		t.Error("expected no vote attribute")
	}
}

func TestRun_NoHosts(t *testing.T) {
	t.Cleanup(func() { errors.SetHandler(nil) })
	t.Setenv("REACTIVE_LOG_LEVEL", "disabled")

	if err := runRun([]string{"--config", t.TempDir(), "--duration", "10ms"}); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	if err := execute([]string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRegistry_HasComponents(t *testing.T) {
	reg, err := newRegistry()
	if err != nil {
		t.Fatalf("newRegistry: %v", err)
	}
	for _, tag := range []string{"my-counter", "rating-element", "story-viewer", "lit-clock", "counter-button"} {
		if _, ok := reg.Lookup(tag); !ok {
			t.Errorf("expected %q to be registered", tag)
		}
	}
}
