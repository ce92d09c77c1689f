package sds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCustomRulesMerges(t *testing.T) {
	rs := DefaultRuleSet()
	builtin := len(rs.FieldLabels[FieldProductName])

	path := writeRulesFile(t, `{
		"field_labels": {
			"product_name": ["Produktname"]
		},
		"noise_words": ["beispiel"],
		"preferred_date_keys": ["ausgabe"]
	}`)

	require.NoError(t, rs.LoadCustomRules(path))

	// Custom labels are prepended so they outrank the stock ones.
	labels := rs.FieldLabels[FieldProductName]
	require.Len(t, labels, builtin+1)
	assert.Equal(t, "Produktname", labels[0])

	assert.Contains(t, rs.NoiseWords, "beispiel")
	assert.Equal(t, []string{"ausgabe"}, rs.PreferredDateKeys)
}

func TestLoadCustomRulesDrivesExtraction(t *testing.T) {
	rs := DefaultRuleSet()
	path := writeRulesFile(t, `{
		"field_labels": {
			"product_name": ["Produktname"]
		}
	}`)
	require.NoError(t, rs.LoadCustomRules(path))

	p, err := NewParser(rs)
	require.NoError(t, err)

	result := p.ParseText("Produktname: Reinigungsmittel Extra\n", ExtractionInfo{})
	assert.Equal(t, "Reinigungsmittel Extra", result.FieldValue(FieldProductName))
}

func TestLoadCustomRulesRejectsUnknownKeys(t *testing.T) {
	rs := DefaultRuleSet()
	path := writeRulesFile(t, `{"totally_unknown_key": []}`)

	err := rs.LoadCustomRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid custom rules")
}

func TestLoadCustomRulesRejectsWrongTypes(t *testing.T) {
	rs := DefaultRuleSet()
	path := writeRulesFile(t, `{"noise_words": "not-an-array"}`)

	require.Error(t, rs.LoadCustomRules(path))
}

func TestLoadCustomRulesRejectsBadJSON(t *testing.T) {
	rs := DefaultRuleSet()
	path := writeRulesFile(t, `{unquoted: true}`)

	require.Error(t, rs.LoadCustomRules(path))
}

func TestLoadCustomRulesMissingFile(t *testing.T) {
	rs := DefaultRuleSet()
	require.Error(t, rs.LoadCustomRules("/nonexistent/rules.json"))
}
