package sds

import (
	"encoding/json"
	"fmt"
)

// Field names present in every ParseResult.
const (
	FieldProductName         = "product_name"
	FieldManufacturer        = "manufacturer"
	FieldDescription         = "description"
	FieldProductUse          = "product_use"
	FieldDangerousGoodsClass = "dangerous_goods_class"
	FieldSubsidiaryRisk      = "subsidiary_risk"
	FieldPackingGroup        = "packing_group"
	FieldIssueDate           = "issue_date"
)

// FieldNames lists all extracted fields in output order.
func FieldNames() []string {
	return []string{
		FieldProductName,
		FieldManufacturer,
		FieldDescription,
		FieldProductUse,
		FieldDangerousGoodsClass,
		FieldSubsidiaryRisk,
		FieldPackingGroup,
		FieldIssueDate,
	}
}

// FieldResult is a single extracted field value. Confidence is binary in the
// current design: 1.0 when a value was found and validated, 0.0 otherwise.
type FieldResult struct {
	Value      *string `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ExtractionInfo describes how the source text was obtained.
type ExtractionInfo struct {
	TextLength       int             `json:"text_length"`
	AvailableMethods map[string]bool `json:"available_methods"`
	ExtractionMode   string          `json:"extraction_mode"`
	UsedOCR          bool            `json:"used_ocr"`
	ImageOnly        bool            `json:"is_image_only"`
}

// ParseResult maps each field name to its extraction result. Every field key
// is always present, even when the value is absent; callers must treat a nil
// value as "not found in this document", not as a parse failure.
//
// The JSON form is flat: each field name sits at the top level next to
// extraction_info, so consumers read result["product_name"], not a nested
// container.
type ParseResult struct {
	Fields         map[string]FieldResult
	ExtractionInfo ExtractionInfo
}

// MarshalJSON flattens the field map so each field name is a top-level key
// alongside extraction_info.
func (r *ParseResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for name, fr := range r.Fields {
		out[name] = fr
	}
	out["extraction_info"] = r.ExtractionInfo
	return json.Marshal(out)
}

// UnmarshalJSON reverses the flat form. Every top-level key other than
// extraction_info is read as a field result.
func (r *ParseResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Fields = make(map[string]FieldResult, len(raw))
	for name, msg := range raw {
		if name == "extraction_info" {
			if err := json.Unmarshal(msg, &r.ExtractionInfo); err != nil {
				return err
			}
			continue
		}
		var fr FieldResult
		if err := json.Unmarshal(msg, &fr); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		r.Fields[name] = fr
	}
	return nil
}

// newParseResult returns a result with every field key present and empty.
func newParseResult(info ExtractionInfo) *ParseResult {
	fields := make(map[string]FieldResult, len(FieldNames()))
	for _, name := range FieldNames() {
		fields[name] = FieldResult{}
	}
	return &ParseResult{Fields: fields, ExtractionInfo: info}
}

// setField records a field value, deriving the binary confidence.
func (r *ParseResult) setField(name, value string) {
	if value == "" {
		r.Fields[name] = FieldResult{}
		return
	}
	v := value
	r.Fields[name] = FieldResult{Value: &v, Confidence: 1.0}
}

// clearField nulls a field, typically after a late validation pass.
func (r *ParseResult) clearField(name string) {
	r.Fields[name] = FieldResult{}
}

// FieldValue returns the value for a field, or "" when absent.
func (r *ParseResult) FieldValue(name string) string {
	if fr, ok := r.Fields[name]; ok && fr.Value != nil {
		return *fr.Value
	}
	return ""
}
