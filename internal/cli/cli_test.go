package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/serpentine/pkg/errors"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"render", "presets", "seed", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	if c.verbose() {
		t.Error("info level should not be verbose")
	}
	c.SetLogLevel(LogDebug)
	if !c.verbose() {
		t.Error("debug level should be verbose")
	}
}

func TestCommandsRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"presets", []string{"presets"}, ""},
		{"one preset as toml", []string{"presets", "single-curve", "--toml"}, ""},
		{"unknown preset", []string{"presets", "nope"}, errors.ErrCodeInvalidPreset},
		{"seed preview", []string{"seed", "-s", "1", "-c", "2", "--segments", "5"}, ""},
		{"seed json", []string{"seed", "-s", "1", "-c", "2", "--json"}, ""},
		{"seed bad config", []string{"seed", "--segments", "-1"}, errors.ErrCodeInvalidConfig},
		{"cache path", []string{"cache", "path"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			root.SetArgs(tt.args)
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			err := root.ExecuteContext(context.Background())
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
