package database

import (
	"path/filepath"
	"testing"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gohan.db")

	db, err := NewDB(path, nil)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"kv_records", "execution_metrics"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gohan.db")

	first, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if first != second || first == 0 {
		t.Errorf("expected a stable non-zero version, got %d then %d", first, second)
	}
}
