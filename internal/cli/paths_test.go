package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestXDGDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		name string
		env  string
		fn   func() (string, error)
		dflt string
	}{
		{"cache", "XDG_CACHE_HOME", cacheDir, filepath.Join(home, ".cache", appName)},
		{"config", "XDG_CONFIG_HOME", configDir, filepath.Join(home, ".config", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name+" default", func(t *testing.T) {
			t.Setenv(tt.env, "")
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("%sDir() error: %v", tt.name, err)
			}
			if got != tt.dflt {
				t.Errorf("%sDir() = %q, want %q", tt.name, got, tt.dflt)
			}
		})
		t.Run(tt.name+" xdg", func(t *testing.T) {
			custom := t.TempDir()
			t.Setenv(tt.env, custom)
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("%sDir() error: %v", tt.name, err)
			}
			if want := filepath.Join(custom, appName); got != want {
				t.Errorf("%sDir() with %s = %q, want %q", tt.name, tt.env, got, want)
			}
		})
	}
}
