package elasticsearch

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/document"
)

// StandardMetField and StandardFAANG select documents meeting the FAANG standard.
const (
	StandardMetField = "standardMet"
	StandardFAANG    = "FAANG"
)

// Condition is a term equality filter on one field.
type Condition struct {
	Field string
	Value string
}

// FAANGStandard is the condition every audited document must satisfy.
func FAANGStandard() Condition {
	return Condition{Field: StandardMetField, Value: StandardFAANG}
}

// IndexName joins an index prefix and a document type.
func IndexName(prefix, docType string) string {
	return prefix + "_" + docType
}

// buildTermQuery returns {"query": {"term": {field: value}}}.
func buildTermQuery(cond Condition) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"term": map[string]any{
				cond.Field: cond.Value,
			},
		},
	}
}

func encodeBody(body map[string]any) (*bytes.Reader, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return bytes.NewReader(data), nil
}

// searchResponse is the subset of a search response the auditor reads.
type searchResponse struct {
	Hits struct {
		Total totalHits `json:"total"`
		Hits  []struct {
			ID     string         `json:"_id"`
			Source document.Value `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// totalHits accepts both the legacy integer form and the {value, relation} object.
type totalHits struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

func (t *totalHits) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		t.Value = n
		t.Relation = "eq"
		return nil
	}

	type object totalHits
	var o object
	if err := json.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("decode hits.total: %w", err)
	}
	*t = totalHits(o)
	return nil
}
