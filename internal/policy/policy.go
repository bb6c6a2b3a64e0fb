// Package policy holds the static AML policy table, the rule engine that
// evaluates transactions against it, and the report aggregator.
package policy

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fintrail/fintrail/pkg/models"
)

// Severity grades a violation. Ordering is LOW < MEDIUM < HIGH < CRITICAL.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric position of the severity; unknown values rank
// below LOW.
func (s Severity) Rank() int {
	return severityRank[s]
}

// AtLeast reports whether s is equal to or more severe than threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// ParseSeverity normalizes a severity string. Unrecognized input maps to
// SeverityLow, mirroring how unrecognized queries map to the ALL intent.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToUpper(s)) {
	case SeverityMedium:
		return SeverityMedium
	case SeverityHigh:
		return SeverityHigh
	case SeverityCritical:
		return SeverityCritical
	default:
		return SeverityLow
	}
}

// Rule is one immutable policy entry. Each rule uses a subset of the
// predicate fields; empty sets and a nil threshold mean "no condition".
// All configured conditions must hold for the rule to fire.
type Rule struct {
	Name           string           `json:"name" yaml:"name"`
	Text           string           `json:"text" yaml:"text"`
	Severity       Severity         `json:"severity" yaml:"severity"`
	Threshold      *decimal.Decimal `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Currency       string           `json:"currency,omitempty" yaml:"currency,omitempty"`
	Countries      []string         `json:"countries,omitempty" yaml:"countries,omitempty"`
	PaymentMethods []string         `json:"payment_methods,omitempty" yaml:"payment_methods,omitempty"`
	RiskCategories []string         `json:"risk_categories,omitempty" yaml:"risk_categories,omitempty"`
	Advisory       string           `json:"advisory,omitempty" yaml:"advisory,omitempty"`
}

// Matches tests the rule predicate against one transaction. Thresholds are
// strict greater-than, never inclusive.
func (r Rule) Matches(t *models.Transaction) bool {
	if r.Threshold != nil && !t.Amount.GreaterThan(*r.Threshold) {
		return false
	}
	if len(r.Countries) > 0 && !containsFold(r.Countries, t.SupplierCountry) {
		return false
	}
	if len(r.PaymentMethods) > 0 && !containsFold(r.PaymentMethods, t.PaymentMethod) {
		return false
	}
	if len(r.RiskCategories) > 0 && !containsFold(r.RiskCategories, t.RiskCategory) {
		return false
	}
	return true
}

func containsFold(set []string, value string) bool {
	for _, s := range set {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

// Table is the ordered policy rule set. It is loaded once at process start
// and treated as read-only afterwards; evaluation preserves table order.
type Table []Rule

// Lookup returns the rule with the given name, if present.
func (tb Table) Lookup(name string) (Rule, bool) {
	for _, r := range tb {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Canonical rule names.
const (
	RuleHighValueTransaction = "high_value_transaction"
	RuleHighRiskCountry      = "high_risk_country"
	RuleCTRThreshold         = "ctr_threshold"
	RuleSARThreshold         = "sar_threshold"
	RulePEPTransaction       = "pep_transaction"
)

// HighRiskCountries is the fixed sanctioned / high-risk jurisdiction list.
var HighRiskCountries = []string{
	"North Korea", "Iran", "Syria", "Sudan", "Cuba",
	"Afghanistan", "Myanmar", "Russia", "Belarus", "Venezuela",
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// Default returns the built-in AML policy table. The order here is the
// canonical rule ordering used for violations and recommendations.
func Default() Table {
	return Table{
		{
			Name:      RuleHighValueTransaction,
			Text:      "High-value transactions require additional documentation",
			Severity:  SeverityHigh,
			Threshold: dec(100000),
			Currency:  "EUR",
			Advisory:  "Implement enhanced due diligence procedures for high-value transactions",
		},
		{
			Name:      RuleHighRiskCountry,
			Text:      "Transactions from high-risk countries require enhanced due diligence",
			Severity:  SeverityCritical,
			Countries: HighRiskCountries,
			Advisory:  "Establish additional monitoring for high-risk country transactions",
		},
		{
			Name:           RuleCTRThreshold,
			Text:           "Currency Transaction Report filing required",
			Severity:       SeverityMedium,
			Threshold:      dec(5000),
			Currency:       "EUR",
			PaymentMethods: []string{models.PaymentMethodCheck, models.PaymentMethodCash},
			Advisory:       "Ensure CTR reporting procedures are properly implemented",
		},
		{
			Name:           RuleSARThreshold,
			Text:           "Suspicious Activity Report triggered",
			Severity:       SeverityHigh,
			Threshold:      dec(3000),
			Currency:       "EUR",
			RiskCategories: []string{models.RiskCategoryHigh, models.RiskCategoryPEP},
			Advisory:       "Review SAR reporting thresholds and procedures",
		},
		{
			Name:           RulePEPTransaction,
			Text:           "Politically exposed person transaction requires enhanced monitoring",
			Severity:       SeverityHigh,
			Threshold:      dec(1000),
			Currency:       "EUR",
			RiskCategories: []string{models.RiskCategoryPEP},
			Advisory:       "Strengthen politically exposed person monitoring controls",
		},
	}
}
