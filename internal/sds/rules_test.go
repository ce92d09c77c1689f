package sds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleSetCompiles(t *testing.T) {
	cr, err := DefaultRuleSet().compile()
	require.NoError(t, err)

	for _, field := range FieldNames() {
		if field == FieldIssueDate {
			// The issue date is resolved by its own scanner, not labels.
			continue
		}
		assert.NotEmpty(t, cr.labelsFor(field), "no labels for %s", field)
	}
}

func TestCompileRejectsBadFieldLabel(t *testing.T) {
	rs := DefaultRuleSet()
	rs.FieldLabels[FieldManufacturer] = []string{`(?P<broken`}

	_, err := rs.compile()
	require.Error(t, err)
}

func TestIsBareLabel(t *testing.T) {
	cr, err := DefaultRuleSet().compile()
	require.NoError(t, err)

	assert.True(t, cr.isBareLabel("Product Name:"))
	assert.True(t, cr.isBareLabel("Supplier"))
	assert.True(t, cr.isBareLabel("Trade name -"))
	assert.False(t, cr.isBareLabel("Product Name: Acetone"))
	assert.False(t, cr.isBareLabel("Acetone"))
}

func TestMatchesAnyLabel(t *testing.T) {
	cr, err := DefaultRuleSet().compile()
	require.NoError(t, err)

	assert.True(t, cr.matchesAnyLabel("Supplier: Acme"))
	assert.True(t, cr.matchesAnyLabel("Recommended use follows"))
	assert.False(t, cr.matchesAnyLabel("Methylated Spirits"))
}

func TestIsNotApplicable(t *testing.T) {
	cr, err := DefaultRuleSet().compile()
	require.NoError(t, err)

	for _, s := range []string{"Not regulated", "not applicable", "N/A", "NA", "None", "Not assigned", "Not subject to ADG"} {
		assert.True(t, cr.isNotApplicable(s), "expected not-applicable: %q", s)
	}
	for _, s := range []string{"3", "II", "Regulated"} {
		assert.False(t, cr.isNotApplicable(s), "expected applicable: %q", s)
	}
}

func TestIsHeaderContinuation(t *testing.T) {
	cr, err := DefaultRuleSet().compile()
	require.NoError(t, err)

	assert.True(t, cr.isHeaderContinuation("of the chemical and restrictions on use"))
	assert.True(t, cr.isHeaderContinuation("or supplier's details"))
	assert.False(t, cr.isHeaderContinuation("Chemtools Pty Ltd"))
}
