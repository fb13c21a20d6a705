// Package pathutil resolves where local data files live.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PathResolver manages paths for the bolt database, the SQLite database,
// uploaded receipts and exported ledger files.
type PathResolver struct {
	dataRoot    string
	boltPath    string
	sqlitePath  string
	receiptsDir string
	ledgerDir   string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// DataRoot is the directory all defaults are placed under (e.g. ~/.campus-budget)
	DataRoot string
	// BoltPath is the bbolt database file
	BoltPath string
	// SQLitePath is the SQLite database file
	SQLitePath string
	// ReceiptsDir is where uploaded receipt images are written
	ReceiptsDir string
	// LedgerDir is where Beancount exports are written
	LedgerDir string
}

// New creates a PathResolver. Empty paths default to files under DataRoot:
// budget.db, budget.sqlite, receipts/ and ledger/.
func New(config Config) *PathResolver {
	root := config.DataRoot
	if root == "" {
		root = "./data"
	}

	boltPath := config.BoltPath
	if boltPath == "" {
		boltPath = filepath.Join(root, "budget.db")
	}

	sqlitePath := config.SQLitePath
	if sqlitePath == "" {
		sqlitePath = filepath.Join(root, "budget.sqlite")
	}

	receiptsDir := config.ReceiptsDir
	if receiptsDir == "" {
		receiptsDir = filepath.Join(root, "receipts")
	}

	ledgerDir := config.LedgerDir
	if ledgerDir == "" {
		ledgerDir = filepath.Join(root, "ledger")
	}

	return &PathResolver{
		dataRoot:    root,
		boltPath:    boltPath,
		sqlitePath:  sqlitePath,
		receiptsDir: receiptsDir,
		ledgerDir:   ledgerDir,
	}
}

// DataRoot returns the data root directory.
func (p *PathResolver) DataRoot() string {
	return p.dataRoot
}

// BoltPath returns the bbolt database file path.
func (p *PathResolver) BoltPath() string {
	return p.boltPath
}

// SQLitePath returns the SQLite database file path.
func (p *PathResolver) SQLitePath() string {
	return p.sqlitePath
}

// ReceiptsDir returns the receipt upload directory.
func (p *PathResolver) ReceiptsDir() string {
	return p.receiptsDir
}

// TokenPath returns where the CLI keeps its bearer token.
func (p *PathResolver) TokenPath() string {
	return filepath.Join(p.dataRoot, ".session")
}

// ReceiptPath returns where a receipt is stored, grouped by year and month.
// Example: receipts/2024/03/rcpt_1234.jpg
func (p *PathResolver) ReceiptPath(at time.Time, filename string) string {
	return filepath.Join(p.receiptsDir, at.Format("2006"), at.Format("01"), filepath.Base(filename))
}

// LedgerDir returns the Beancount export directory.
func (p *PathResolver) LedgerDir() string {
	return p.ledgerDir
}

// YearDir returns the ledger directory for a year.
// Example: ledger/2024
func (p *PathResolver) YearDir(year string) string {
	return filepath.Join(p.ledgerDir, year)
}

// MonthFilePath returns the ledger file for a YYYY-MM key.
// Example: ledger/2024/2024-03.beancount
func (p *PathResolver) MonthFilePath(yearMonth string) (string, error) {
	if _, err := time.Parse("2006-01", yearMonth); err != nil {
		return "", fmt.Errorf("invalid year-month format %q (expected YYYY-MM)", yearMonth)
	}
	return filepath.Join(p.YearDir(yearMonth[:4]), yearMonth+".beancount"), nil
}

// EnsureDir creates a directory if it doesn't exist (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
