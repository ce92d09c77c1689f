package sds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// customRulesSchema constrains user-supplied rule files: every list member
// must be a string, and only known keys are accepted. Validating up front
// gives a clear error instead of a regexp compile failure deep in the parser.
const customRulesSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"field_labels": {
			"type": "object",
			"additionalProperties": {"type": "array", "items": {"type": "string"}}
		},
		"common_labels": {"type": "array", "items": {"type": "string"}},
		"noise_phrases": {"type": "array", "items": {"type": "string"}},
		"noise_words": {"type": "array", "items": {"type": "string"}},
		"country_names": {"type": "array", "items": {"type": "string"}},
		"header_continuations": {"type": "array", "items": {"type": "string"}},
		"contact_markers": {"type": "array", "items": {"type": "string"}},
		"not_applicable_phrases": {"type": "array", "items": {"type": "string"}},
		"preferred_date_keys": {"type": "array", "items": {"type": "string"}}
	}
}`

// LoadCustomRules reads a JSON rules file and merges it into rs. Custom
// entries are appended after the defaults so built-in labels keep their
// priority; custom field label lists are prepended so a caller can make a
// locale-specific label outrank the stock ones.
func (rs *RuleSet) LoadCustomRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read custom rules: %w", err)
	}

	schema, err := jsonschema.CompileString("rules.schema.json", customRulesSchema)
	if err != nil {
		return fmt.Errorf("compile rules schema: %w", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse custom rules %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid custom rules %s: %w", path, err)
	}

	var custom RuleSet
	if err := json.Unmarshal(data, &custom); err != nil {
		return fmt.Errorf("decode custom rules %s: %w", path, err)
	}

	rs.merge(&custom)
	return nil
}

func (rs *RuleSet) merge(custom *RuleSet) {
	for field, labels := range custom.FieldLabels {
		rs.FieldLabels[field] = append(append([]string{}, labels...), rs.FieldLabels[field]...)
	}
	rs.CommonLabels = append(rs.CommonLabels, custom.CommonLabels...)
	rs.NoisePhrases = append(rs.NoisePhrases, custom.NoisePhrases...)
	rs.NoiseWords = append(rs.NoiseWords, custom.NoiseWords...)
	rs.CountryNames = append(rs.CountryNames, custom.CountryNames...)
	rs.HeaderContinuations = append(rs.HeaderContinuations, custom.HeaderContinuations...)
	rs.ContactMarkers = append(rs.ContactMarkers, custom.ContactMarkers...)
	rs.NotApplicable = append(rs.NotApplicable, custom.NotApplicable...)
	if len(custom.PreferredDateKeys) > 0 {
		rs.PreferredDateKeys = custom.PreferredDateKeys
	}
}
