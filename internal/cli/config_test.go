package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/homcount/pkg/errors"
)

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig([]byte(`
workers = 4
track_edges = true
format = "json"

[cache]
backend = "badger"
ttl = "24h"

[bench]
repetitions = 10
store = "mongo"
mongo_uri = "mongodb://db:27017"

[server]
addr = ":9090"
`))
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}

	want := DefaultConfig()
	want.Workers = 4
	want.TrackEdges = true
	want.Format = "json"
	want.Cache.Backend = "badger"
	want.Cache.TTL = "24h"
	want.Bench.Repetitions = 10
	want.Bench.Store = "mongo"
	want.Bench.MongoURI = "mongodb://db:27017"
	want.Server.Addr = ":9090"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ReadConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", "workers = \n", errors.ErrCodeInvalidFormat},
		{"unknown key", "threads = 3\n", errors.ErrCodeInvalidInput},
		{"negative workers", "workers = -1\n", errors.ErrCodeInvalidInput},
		{"bad format", "format = \"xml\"\n", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidInput},
		{"bad repetitions", "[bench]\nrepetitions = 0\n", errors.ErrCodeInvalidInput},
		{"bad store", "[bench]\nstore = \"sqlite\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadConfig([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadConfig(%q) error = %v, want %s", tt.data, err, tt.code)
			}
		})
	}
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 8
	cfg.Cache.RedisAddr = "cache:6379"

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := ReadConfig(data)
	if err != nil {
		t.Fatalf("ReadConfig(Encode()): %v\n%s", err, data)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigFileApplies(t *testing.T) {
	dir := isolate(t)
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, configFile), []byte("format = \"json\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "count", filepath.Join(dir, "example_2.ntd"), filepath.Join(dir, "tree_a.graph"), filepath.Join(dir, "k5.graph"))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got := decodeResult(t, out).Count; got != 1280 {
		t.Errorf("count = %d, want 1280", got)
	}
}

func TestConfigCommands(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, configFile)
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("config path = %q, want %q", got, want)
	}

	out, err = runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, s := range []string{"[cache]", "[bench]", "[server]", `backend = "file"`} {
		if !strings.Contains(out, s) {
			t.Errorf("config show missing %q:\n%s", s, out)
		}
	}

	_, err = runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "config", "show")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("--config missing error = %v, want FILE_NOT_FOUND", err)
	}
}
