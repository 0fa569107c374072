// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import "testing"

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{"-p", "4000", "-d", "./santa.db"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 4000 {
		t.Errorf("Expected port 4000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.BaseURL == "" {
		t.Error("Expected a default base URL")
	}
	if cfg.EmailFrom == "" {
		t.Error("Expected a default from address")
	}
}

func TestParseFlagsRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := ParseFlags([]string{"-p", "4000"}); err == nil {
		t.Error("Expected error without database URL")
	}
}

func TestParseFlagsRejectsUnknownDatabaseType(t *testing.T) {
	if _, err := ParseFlags([]string{"-d", "x", "-t", "oracle"}); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}
