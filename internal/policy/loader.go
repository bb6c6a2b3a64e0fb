package policy

import (
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fintrail/fintrail/pkg/errors"
)

// yamlRule mirrors Rule for file loading; thresholds arrive as plain
// numbers and severities in any case.
type yamlRule struct {
	Name           string   `yaml:"name"`
	Text           string   `yaml:"text"`
	Severity       string   `yaml:"severity"`
	Threshold      *float64 `yaml:"threshold"`
	Currency       string   `yaml:"currency"`
	Countries      []string `yaml:"countries"`
	PaymentMethods []string `yaml:"payment_methods"`
	RiskCategories []string `yaml:"risk_categories"`
	Advisory       string   `yaml:"advisory"`
}

type policyFile struct {
	Rules []yamlRule `yaml:"rules"`
}

// Load reads a policy table from a YAML file. An empty path returns the
// built-in default table; a file with no rules is rejected so a botched
// override cannot silently disable monitoring.
func Load(path string) (Table, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Unavailable.Explain("reading policy file %s", path).Wrap(err)
	}

	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Invalid.Explain("parsing policy file %s", path).Wrap(err)
	}
	if len(file.Rules) == 0 {
		return nil, errors.Invalid.Explain("policy file %s defines no rules", path)
	}

	table := make(Table, 0, len(file.Rules))
	for _, yr := range file.Rules {
		if yr.Name == "" {
			return nil, errors.Invalid.Explain("policy file %s contains a rule without a name", path)
		}
		rule := Rule{
			Name:           yr.Name,
			Text:           yr.Text,
			Severity:       ParseSeverity(yr.Severity),
			Currency:       yr.Currency,
			Countries:      yr.Countries,
			PaymentMethods: yr.PaymentMethods,
			RiskCategories: yr.RiskCategories,
			Advisory:       yr.Advisory,
		}
		if yr.Threshold != nil {
			d := decimal.NewFromFloat(*yr.Threshold)
			rule.Threshold = &d
		}
		table = append(table, rule)
	}
	return table, nil
}
