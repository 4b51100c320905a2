package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	target := filepath.Join(home, "custom", "pitchclerk.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	requireContains(t, string(data), "base_url")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var view configView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !view.Exists || view.Path != env.configPath {
		t.Fatalf("unexpected path info: %+v", view)
	}
	if view.BaseURL != env.api.BaseURL() {
		t.Fatalf("base url = %q, want %q", view.BaseURL, env.api.BaseURL())
	}
	if !view.APIKeySet {
		t.Fatal("expected api key to be reported as set")
	}
	if view.SessionDB != env.cfg.SessionDBPath() {
		t.Fatalf("session db = %q, want %q", view.SessionDB, env.cfg.SessionDBPath())
	}
}

func TestConfigShowTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "API base URL")
	requireContains(t, out, env.api.BaseURL())
}
