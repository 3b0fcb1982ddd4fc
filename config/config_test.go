package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddress != "127.0.0.1:5000" {
		t.Errorf("ListenAddress = %q", cfg.ListenAddress)
	}
	if cfg.Debug {
		t.Error("debug must default to off")
	}
	if cfg.MaxConcurrent != 4 {
		t.Errorf("MaxConcurrent = %d", cfg.MaxConcurrent)
	}
	if cfg.Inference.Backend != BackendHTTP || cfg.Inference.Timeout != 120*time.Second {
		t.Errorf("Inference = %+v", cfg.Inference)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
listen_address: 0.0.0.0:9000
max_concurrent: 2
inference:
  backend: command
  command: python3
  args: ["-m", "predictors.genre"]
  timeout: 45s
`)
	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddress != "0.0.0.0:9000" || cfg.MaxConcurrent != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
	inf := cfg.Inference
	if inf.Backend != BackendCommand || inf.Command != "python3" || inf.Timeout != 45*time.Second {
		t.Errorf("Inference = %+v", inf)
	}
	if strings.Join(inf.Args, " ") != "-m predictors.genre" {
		t.Errorf("Args = %v", inf.Args)
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "listen_address: 0.0.0.0:9000\n")
	cli, fs, err := ParseArgs("test", []string{"--config", path, "-d", "--listen", "127.0.0.1:7000"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(cli.ConfigFile, fs)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddress != "127.0.0.1:7000" {
		t.Errorf("ListenAddress = %q", cfg.ListenAddress)
	}
	if !cfg.Debug {
		t.Error("debug flag not applied")
	}
}

func TestLoadConfigUnsetFlagsKeepFile(t *testing.T) {
	path := writeConfig(t, "listen_address: 0.0.0.0:9000\ndebug: true\n")
	cli, fs, err := ParseArgs("test", []string{"--config", path})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(cli.ConfigFile, fs)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddress != "0.0.0.0:9000" || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("GENRE_INFERENCE_URL", "http://model:8000/infer-genre")
	t.Setenv("GENRE_MAX_CONCURRENT", "8")
	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Inference.URL != "http://model:8000/infer-genre" || cfg.MaxConcurrent != 8 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"zero pool", "max_concurrent: 0\n", "max_concurrent"},
		{"command without command", "inference:\n  backend: command\n", "inference.command"},
		{"http without url", "inference:\n  url: \"\"\n", "inference.url"},
		{"unknown backend", "inference:\n  backend: grpc\n", "unknown inference.backend"},
		{"empty listen", "listen_address: \"\"\n", "listen_address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseArgsVersion(t *testing.T) {
	cli, _, err := ParseArgs("test", []string{"-v"})
	if err != nil {
		t.Fatal(err)
	}
	if !cli.Version {
		t.Error("version flag not set")
	}
}

func TestParseArgsFlagSet(t *testing.T) {
	_, fs, err := ParseArgs("test", []string{"-d", "--listen", "127.0.0.1:7000"})
	if err != nil {
		t.Fatal(err)
	}
	if debug, err := fs.GetBool("debug"); err != nil || !debug {
		t.Errorf("debug = %v, %v", debug, err)
	}
	if listen, err := fs.GetString("listen"); err != nil || listen != "127.0.0.1:7000" {
		t.Errorf("listen = %q, %v", listen, err)
	}
}
