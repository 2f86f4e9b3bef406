package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != "5555" {
		t.Errorf("HTTPPort = %s, want 5555", cfg.HTTPPort)
	}
	if cfg.WorkerCount != 0 {
		t.Errorf("WorkerCount = %d, want 0 (auto)", cfg.WorkerCount)
	}
	if cfg.ConvertTimeout != 120*time.Second {
		t.Errorf("ConvertTimeout = %s, want 120s", cfg.ConvertTimeout)
	}
	want := []string{"pdf", "docx", "pptx", "txt", "md"}
	if !reflect.DeepEqual(cfg.SupportedExtensions, want) {
		t.Errorf("SupportedExtensions = %v, want %v", cfg.SupportedExtensions, want)
	}
	if !cfg.SweeperEnabled {
		t.Error("SweeperEnabled should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("CONVERT_TIMEOUT_SEC", "15")
	t.Setenv("SUPPORTED_EXTENSIONS", "pdf, docx")
	t.Setenv("SWEEPER_ENABLED", "false")

	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %s, want 8080", cfg.HTTPPort)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want 4", cfg.WorkerCount)
	}
	if cfg.ConvertTimeout != 15*time.Second {
		t.Errorf("ConvertTimeout = %s, want 15s", cfg.ConvertTimeout)
	}
	if !reflect.DeepEqual(cfg.SupportedExtensions, []string{"pdf", "docx"}) {
		t.Errorf("SupportedExtensions = %v", cfg.SupportedExtensions)
	}
	if cfg.SweeperEnabled {
		t.Error("SweeperEnabled should be overridden to false")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "lots")
	t.Setenv("CONVERT_TIMEOUT_SEC", "soon")
	t.Setenv("SWEEPER_ENABLED", "perhaps")

	cfg := Load()

	if cfg.WorkerCount != 0 {
		t.Errorf("WorkerCount = %d, want default 0", cfg.WorkerCount)
	}
	if cfg.ConvertTimeout != 120*time.Second {
		t.Errorf("ConvertTimeout = %s, want default 120s", cfg.ConvertTimeout)
	}
	if !cfg.SweeperEnabled {
		t.Error("SweeperEnabled should fall back to default true")
	}
}
