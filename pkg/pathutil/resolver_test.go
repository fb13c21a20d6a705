package pathutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		bolt     string
		sqlite   string
		receipts string
	}{
		{
			name:     "all defaults",
			config:   Config{},
			bolt:     filepath.Join("data", "budget.db"),
			sqlite:   filepath.Join("data", "budget.sqlite"),
			receipts: filepath.Join("data", "receipts"),
		},
		{
			name:     "custom root",
			config:   Config{DataRoot: "/var/lib/budget"},
			bolt:     "/var/lib/budget/budget.db",
			sqlite:   "/var/lib/budget/budget.sqlite",
			receipts: "/var/lib/budget/receipts",
		},
		{
			name:     "explicit paths win",
			config:   Config{DataRoot: "/srv", BoltPath: "/tmp/a.db", SQLitePath: "/tmp/b.sqlite", ReceiptsDir: "/tmp/r"},
			bolt:     "/tmp/a.db",
			sqlite:   "/tmp/b.sqlite",
			receipts: "/tmp/r",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.config)
			if got := filepath.Clean(p.BoltPath()); got != filepath.Clean(tt.bolt) {
				t.Errorf("BoltPath() = %s, expected %s", got, tt.bolt)
			}
			if got := filepath.Clean(p.SQLitePath()); got != filepath.Clean(tt.sqlite) {
				t.Errorf("SQLitePath() = %s, expected %s", got, tt.sqlite)
			}
			if got := filepath.Clean(p.ReceiptsDir()); got != filepath.Clean(tt.receipts) {
				t.Errorf("ReceiptsDir() = %s, expected %s", got, tt.receipts)
			}
		})
	}
}

func TestReceiptPath(t *testing.T) {
	p := New(Config{DataRoot: "/d"})
	at := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	got := p.ReceiptPath(at, "../../etc/rcpt.jpg")
	expected := filepath.Join("/d", "receipts", "2024", "03", "rcpt.jpg")
	if got != expected {
		t.Errorf("ReceiptPath() = %s, expected %s", got, expected)
	}
}

func TestEnsureParentDir(t *testing.T) {
	root := t.TempDir()
	p := New(Config{DataRoot: root})
	file := filepath.Join(root, "a", "b", "c.txt")

	if err := p.EnsureParentDir(file); err != nil {
		t.Fatalf("EnsureParentDir() error: %v", err)
	}
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !p.FileExists(file) {
		t.Error("FileExists() = false after write")
	}
}

func TestTokenPath(t *testing.T) {
	p := New(Config{DataRoot: "/d", BoltPath: "/elsewhere/state.db"})
	if got, expected := p.TokenPath(), filepath.Join("/d", ".session"); got != expected {
		t.Errorf("TokenPath() = %s, expected %s", got, expected)
	}
}

func TestMonthFilePath(t *testing.T) {
	p := New(Config{DataRoot: "/d"})

	tests := []struct {
		yearMonth string
		expected  string
		wantErr   bool
	}{
		{"2024-03", filepath.Join("/d", "ledger", "2024", "2024-03.beancount"), false},
		{"2024-13", "", true},
		{"24-03", "", true},
		{"../x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.yearMonth, func(t *testing.T) {
			got, err := p.MonthFilePath(tt.yearMonth)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MonthFilePath(%q) error = %v, wantErr %v", tt.yearMonth, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("MonthFilePath(%q) = %s, expected %s", tt.yearMonth, got, tt.expected)
			}
		})
	}
}
