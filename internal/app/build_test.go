package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gohan-planner/internal/apperr"
	"gohan-planner/internal/config"
	"gohan-planner/internal/logger"
)

func TestBuild_WithoutCredential(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		LLMProvider:       config.ProviderGemini,
		StoreBackend:      config.StoreSQLite,
		DataDir:           dir,
		DatabasePath:      filepath.Join(dir, "gohan.db"),
		GenerationTimeout: time.Minute,
		Location:          time.UTC,
	}

	rt, err := Build(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer rt.Close()

	if !rt.App.StorageAvailable() {
		t.Error("expected sqlite storage to be available")
	}
	if rt.Notify != nil {
		t.Error("expected no notifier without telegram settings")
	}

	_, err = rt.App.GenerateWeeklyPlan(context.Background())
	if !apperr.Is(err, apperr.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if err.Error() != "GEMINI_API_KEY が設定されていません。" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestBuild_NoStorage(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		LLMProvider:  config.ProviderGroq,
		StoreBackend: config.StoreNone,
		DatabasePath: filepath.Join(dir, "gohan.db"),
		Location:     time.UTC,
	}

	rt, err := Build(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer rt.Close()

	if rt.App.StorageAvailable() {
		t.Error("expected storage to be unavailable")
	}
}
