package policy

import (
	"time"

	"github.com/fintrail/fintrail/pkg/models"
)

// Compliance verdict values.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// Report is the aggregate outcome of one evaluation run. It is a pure
// function of its inputs and carries no independent lifecycle.
type Report struct {
	TotalTransactions int              `json:"total_transactions"`
	ViolationsFound   int              `json:"violations_found"`
	SeverityCounts    map[Severity]int `json:"severity_counts"`
	ComplianceStatus  string           `json:"compliance_status"`
	// ComplianceScore is (total - violations) / max(total, 1) * 100. It can
	// go negative when violations outnumber transactions; that behavior is
	// preserved pending a clamp decision from compliance stakeholders.
	ComplianceScore float64   `json:"compliance_score"`
	Recommendations []string  `json:"recommendations,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Aggregate combines transactions and violations into a report. The
// table must be the one the violations were evaluated against.
// Recommendations, when requested, carry one advisory per distinct fired
// rule, emitted in table order regardless of violation order.
func Aggregate(transactions []models.Transaction, violations []Violation, table Table, includeRecommendations bool) Report {
	report := Report{
		TotalTransactions: len(transactions),
		ViolationsFound:   len(violations),
		SeverityCounts:    make(map[Severity]int),
		ComplianceStatus:  StatusPass,
		GeneratedAt:       time.Now().UTC(),
	}

	for _, v := range violations {
		report.SeverityCounts[v.Severity]++
	}
	if report.ViolationsFound > 0 {
		report.ComplianceStatus = StatusFail
	}

	divisor := report.TotalTransactions
	if divisor < 1 {
		divisor = 1
	}
	report.ComplianceScore = float64(report.TotalTransactions-report.ViolationsFound) / float64(divisor) * 100

	if includeRecommendations {
		report.Recommendations = Recommendations(violations, table)
	}
	return report
}

// Recommendations returns the advisory for every distinct rule present
// among the violations, ordered by the given table. Advisories from an
// overridden table win over the built-in ones, and rules the table does
// not know about contribute nothing.
func Recommendations(violations []Violation, table Table) []string {
	fired := make(map[string]bool, len(violations))
	for _, v := range violations {
		fired[v.Rule] = true
	}

	var out []string
	for _, rule := range table {
		if fired[rule.Name] && rule.Advisory != "" {
			out = append(out, rule.Advisory)
		}
	}
	return out
}
