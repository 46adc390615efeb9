package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// RecordVersion is stamped on every aggregated record.
const RecordVersion = "2.0.0"

// ExtractionResult is the outcome of one schema extraction: either a typed
// value or an error, never both.
type ExtractionResult struct {
	Schema SchemaName
	Value  any
	Err    *ExtractionError
}

// Succeeded builds the success variant.
func Succeeded(schema SchemaName, value any) ExtractionResult {
	return ExtractionResult{Schema: schema, Value: value}
}

// Failed builds the error variant. A non-ExtractionError cause is wrapped.
func Failed(schema SchemaName, err error) ExtractionResult {
	xe, ok := err.(*ExtractionError)
	if !ok {
		xe = &ExtractionError{Schema: schema, Attempts: 1, Err: err}
	}
	return ExtractionResult{Schema: schema, Err: xe}
}

// OK reports whether the result holds a value.
func (r ExtractionResult) OK() bool {
	return r.Err == nil && r.Value != nil
}

// cause is the text recorded for a failed result.
func (r ExtractionResult) cause() string {
	if r.Err == nil {
		return ""
	}
	if r.Err.Err != nil {
		return r.Err.Err.Error()
	}
	return r.Err.Error()
}

// PipelineState is a stage of the extraction state machine.
type PipelineState string

const (
	StateNormalizing        PipelineState = "normalizing"
	StateChunking           PipelineState = "chunking"
	StateIndexing           PipelineState = "indexing"
	StateExtractingSections PipelineState = "extracting_sections"
	StateClassifying        PipelineState = "classifying"
	StateDone               PipelineState = "done"
	StateFailed             PipelineState = "failed"
)

// RecordMetadata describes how a record was produced.
type RecordMetadata struct {
	ExtractedAt     time.Time
	Model           string
	ChunksProcessed int
	Version         string
}

// AggregatedRecord collects the per-section results for one document.
// It is built once by the orchestrator and not modified afterwards.
type AggregatedRecord struct {
	Sections       map[SchemaName]ExtractionResult
	Classification ExtractionResult
	Metadata       RecordMetadata
}

// NewAggregatedRecord returns an empty record ready to be filled.
func NewAggregatedRecord() *AggregatedRecord {
	return &AggregatedRecord{Sections: make(map[SchemaName]ExtractionResult)}
}

// IsEmpty reports whether nothing was extracted or attempted.
func (r *AggregatedRecord) IsEmpty() bool {
	return r == nil || (len(r.Sections) == 0 && r.Classification.Schema == "")
}

// Section returns the result for a schema.
func (r *AggregatedRecord) Section(name SchemaName) (ExtractionResult, bool) {
	if r == nil {
		return ExtractionResult{}, false
	}
	res, ok := r.Sections[name]
	return res, ok
}

// Failures returns the schemas whose extraction failed, in extraction order.
func (r *AggregatedRecord) Failures() []SchemaName {
	if r == nil {
		return nil
	}
	var out []SchemaName
	for _, d := range sectionSchemas {
		if res, ok := r.Sections[d.Name]; ok && res.Err != nil {
			out = append(out, d.Name)
		}
	}
	if r.Classification.Err != nil {
		out = append(out, SchemaClassification)
	}
	return out
}

// ToMap renders the record as a plain mapping for persistence and display.
// Failed sections are rendered as an error marker string.
func (r *AggregatedRecord) ToMap() (map[string]any, error) {
	out := make(map[string]any)
	if r.IsEmpty() {
		return out, nil
	}
	for name, res := range r.Sections {
		v, err := resultValue(res)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		if res.Err != nil {
			v = fmt.Sprintf("Error extracting %s: %s", name, res.cause())
		}
		out[string(name)] = v
	}
	if r.Classification.Schema != "" {
		if r.Classification.Err != nil {
			out[string(SchemaClassification)] = "Error during classification: " + r.Classification.cause()
		} else {
			v, err := resultValue(r.Classification)
			if err != nil {
				return nil, fmt.Errorf("render classification: %w", err)
			}
			out[string(SchemaClassification)] = v
		}
	}
	out["metadata"] = map[string]any{
		"extraction_timestamp": r.Metadata.ExtractedAt.Format(time.RFC3339Nano),
		"model_used":           r.Metadata.Model,
		"chunks_processed":     r.Metadata.ChunksProcessed,
		"version":              r.Metadata.Version,
	}
	return out, nil
}

func resultValue(res ExtractionResult) (any, error) {
	if res.Value == nil {
		return nil, nil
	}
	b, err := json.Marshal(res.Value)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
