package ledger

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"gopkg.in/yaml.v3"
)

//go:embed accounts.yaml
var defaultAccounts []byte

// AccountMappingConfig represents the YAML account mapping.
type AccountMappingConfig struct {
	Currency   string            `yaml:"currency"`
	Income     string            `yaml:"income"`
	Accounts   map[string]string `yaml:"accounts"`   // account type -> parent account
	Categories map[string]string `yaml:"categories"` // category -> expense account
}

// Mapper maps budget categories and accounts to Beancount account names.
type Mapper struct {
	config AccountMappingConfig
}

// NewMapper loads the embedded mapping and overlays configPath on top of it
// when configPath is set. Keys missing from the file keep their defaults.
func NewMapper(configPath string) (*Mapper, error) {
	var config AccountMappingConfig
	if err := yaml.Unmarshal(defaultAccounts, &config); err != nil {
		return nil, fmt.Errorf("failed to parse default mapping: %w", err)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var override AccountMappingConfig
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		config.merge(override)
	}

	return &Mapper{config: config}, nil
}

func (c *AccountMappingConfig) merge(o AccountMappingConfig) {
	if o.Currency != "" {
		c.Currency = o.Currency
	}
	if o.Income != "" {
		c.Income = o.Income
	}
	for k, v := range o.Accounts {
		c.Accounts[k] = v
	}
	for k, v := range o.Categories {
		c.Categories[k] = v
	}
}

// Currency returns the commodity every posting is written in.
func (m *Mapper) Currency() string {
	return m.config.Currency
}

// IncomeAccount returns the account credits are booked against.
func (m *Mapper) IncomeAccount() string {
	return m.config.Income
}

// ExpenseAccount returns the expense account for a category. Unmapped
// categories land under Expenses:Unmapped.
func (m *Mapper) ExpenseAccount(c budget.Category) string {
	if account, ok := m.config.Categories[string(c)]; ok && account != "" {
		return account
	}
	return "Expenses:Unmapped:" + sanitizeAccountName(string(c))
}

// AssetAccount returns the account for a linked account, e.g.
// Assets:Bank:Checking:StudentChecking.
func (m *Mapper) AssetAccount(a budget.Account) string {
	parent, ok := m.config.Accounts[string(a.Type)]
	if !ok || parent == "" {
		parent = "Assets:Unknown"
	}
	return parent + ":" + sanitizeAccountName(a.Name)
}

// sanitizeAccountName turns free text into a Beancount account component:
// words are capitalised and joined, anything but letters and digits dropped.
func sanitizeAccountName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if r > unicode.MaxASCII {
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return "Unknown"
	}
	return sb.String()
}
