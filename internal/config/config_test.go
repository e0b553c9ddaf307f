package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort != ":8080" {
		t.Fatalf("expected default server port, got %q", cfg.ServerPort)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected release mode, got %q", cfg.GinMode)
	}
	if cfg.MaxUploadBytes != 32<<20 {
		t.Fatalf("expected 32MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxResamplePoints != 1<<20 {
		t.Fatalf("expected default resample limit, got %d", cfg.MaxResamplePoints)
	}
	if cfg.DownloadName != "updated.gpx" {
		t.Fatalf("expected default download name, got %q", cfg.DownloadName)
	}
	if cfg.Creator != "gpxedit" {
		t.Fatalf("expected default creator, got %q", cfg.Creator)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("MAX_RESAMPLE_POINTS", "600")
	t.Setenv("DOWNLOAD_NAME", "edited.gpx")
	t.Setenv("CREATOR", "tester")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.GinMode != "debug" {
		t.Fatalf("expected override mode")
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Fatalf("expected override upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxResamplePoints != 600 {
		t.Fatalf("expected override resample limit, got %d", cfg.MaxResamplePoints)
	}
	if cfg.DownloadName != "edited.gpx" {
		t.Fatalf("expected override download name")
	}
	if cfg.Creator != "tester" {
		t.Fatalf("expected override creator")
	}
}
