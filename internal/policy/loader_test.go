package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrail/fintrail/pkg/errors"
)

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	table, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), table)
}

func TestLoadPolicyFile(t *testing.T) {
	doc := `
rules:
  - name: high_value_transaction
    text: High-value transactions require additional documentation
    severity: high
    threshold: 250000
    currency: EUR
    advisory: Review large transfers weekly
  - name: embargoed_jurisdiction
    text: Embargoed jurisdictions are prohibited
    severity: critical
    countries: ["Atlantis"]
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	table, err := Load(path)
	require.NoError(t, err)
	require.Len(t, table, 2)

	rule, ok := table.Lookup("high_value_transaction")
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, rule.Severity)
	require.NotNil(t, rule.Threshold)
	assert.Equal(t, "250000", rule.Threshold.String())
	assert.Equal(t, "Review large transfers weekly", rule.Advisory)

	rule, ok = table.Lookup("embargoed_jurisdiction")
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, rule.Severity)
	assert.Nil(t, rule.Threshold)
	assert.Equal(t, []string{"Atlantis"}, rule.Countries)
}

func TestLoadRejectsEmptyRuleSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.Invalid))
}

func TestLoadRejectsUnnamedRule(t *testing.T) {
	doc := "rules:\n  - severity: high\n"
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.Unavailable))
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: [[[["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityCritical, ParseSeverity("critical"))
	assert.Equal(t, SeverityHigh, ParseSeverity("HIGH"))
	assert.Equal(t, SeverityMedium, ParseSeverity("Medium"))
	assert.Equal(t, SeverityLow, ParseSeverity("low"))
	assert.Equal(t, SeverityLow, ParseSeverity("whatever"))
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityLow))
	assert.True(t, SeverityHigh.AtLeast(SeverityHigh))
	assert.False(t, SeverityMedium.AtLeast(SeverityHigh))
}
