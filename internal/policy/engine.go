package policy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fintrail/fintrail/pkg/models"
)

// Violation records a single rule trigger for a single transaction.
// A transaction can produce one violation per matching rule; violations
// are never merged or deduplicated across rules.
type Violation struct {
	TransactionID string   `json:"transaction_id"`
	Rule          string   `json:"rule"`
	Severity      Severity `json:"severity"`
	Description   string   `json:"description"`

	// Context for downstream display and audit exactness.
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Supplier      string          `json:"supplier"`
	Country       string          `json:"country"`
	PaymentMethod string          `json:"payment_method"`
}

// Engine evaluates transactions against a policy table. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	logger *zap.SugaredLogger
}

// NewEngine creates a rule engine.
func NewEngine(logger *zap.SugaredLogger) *Engine {
	return &Engine{logger: logger}
}

// Evaluate tests every rule against every transaction, in transaction
// order and table order within each transaction. It performs no I/O and
// never mutates its inputs, so repeated calls on the same list produce
// identical, order-stable results.
func (e *Engine) Evaluate(transactions []models.Transaction, table Table) []Violation {
	violations := make([]Violation, 0)

	for i := range transactions {
		t := &transactions[i]
		for _, rule := range table {
			if !rule.Matches(t) {
				continue
			}
			violations = append(violations, Violation{
				TransactionID: t.TransactionID,
				Rule:          rule.Name,
				Severity:      rule.Severity,
				Description:   describe(rule, t),
				Amount:        t.Amount,
				Currency:      t.Currency,
				Supplier:      t.SupplierName,
				Country:       t.SupplierCountry,
				PaymentMethod: t.PaymentMethod,
			})
		}
	}

	if e.logger != nil && len(violations) > 0 {
		e.logger.Infow("policy evaluation flagged transactions",
			"transactions", len(transactions),
			"violations", len(violations),
		)
	}
	return violations
}

// FilterBySeverity keeps violations at or above the given threshold,
// preserving order.
func FilterBySeverity(violations []Violation, threshold Severity) []Violation {
	filtered := make([]Violation, 0, len(violations))
	for _, v := range violations {
		if v.Severity.AtLeast(threshold) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// describe renders the audit description for one rule trigger. Threshold
// rules embed the exact transaction amount and the exact threshold
// breached; the country rule names the offending jurisdiction.
func describe(rule Rule, t *models.Transaction) string {
	if rule.Threshold == nil {
		return fmt.Sprintf("%s: supplier country %s is on the high-risk list", rule.Text, t.SupplierCountry)
	}
	return fmt.Sprintf("%s: %s transaction of €%s exceeds the €%s threshold",
		rule.Text, t.PaymentMethod, FormatAmount(t.Amount), FormatAmount(*rule.Threshold))
}

// FormatAmount renders a monetary amount with thousands separators and
// two decimal places, e.g. 150000 -> "150,000.00".
func FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}
