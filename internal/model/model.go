// Package model defines the core protein evaluation data types.
package model

import "time"

// Criteria are the acceptance thresholds applied to every structure evaluation.
// They are fixed for the lifetime of a registry; changing them does not
// re-evaluate entries already recorded.
type Criteria struct {
	MaxResolution float64 `json:"max_resolution" yaml:"max_resolution"`
	MinLength     int     `json:"min_length" yaml:"min_length"`
	MaxLength     int     `json:"max_length" yaml:"max_length"`
	// RequireFunctionAnnotation is recorded with the criteria but not
	// enforced: annotation presence is not derivable from structure file
	// headers, so every evaluation reports it as false.
	RequireFunctionAnnotation bool `json:"require_function_annotation" yaml:"require_function_annotation"`
}

// DefaultCriteria returns the standard dataset-selection thresholds.
func DefaultCriteria() Criteria {
	return Criteria{
		MaxResolution:             2.5,
		MinLength:                 50,
		MaxLength:                 300,
		RequireFunctionAnnotation: true,
	}
}

// FunctionSummary is header-derived structure metadata, best-effort only.
// Fields absent from the source file stay empty/nil. ECNumbers is always
// empty: enzyme classification is not derivable from this source.
type FunctionSummary struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Resolution  *float64 `json:"resolution"`
	Method      string   `json:"method"`
	Keywords    []string `json:"keywords"`
	ECNumbers   []string `json:"ec_numbers"`
}

// ValidationInfo carries the detail of a validation outcome. Reason is set
// on failure; the remaining fields are set on success.
type ValidationInfo struct {
	Reason                string   `json:"reason,omitempty"`
	Resolution            *float64 `json:"resolution,omitempty"`
	ResidueCount          *int     `json:"residue_count,omitempty"`
	HasFunctionAnnotation *bool    `json:"has_function_annotation,omitempty"`
}

// ValidationResult is the outcome of evaluating one structure against
// selection criteria. A false Passed is a normal result, not an error.
type ValidationResult struct {
	Passed bool
	Info   ValidationInfo
}

// Evaluation is the persisted record for one protein. Re-evaluation replaces
// the record wholesale; there is no merging. When the evaluation itself
// failed (fetch or decode error outside the validation path), Error holds the
// message and the info fields are nil.
type Evaluation struct {
	ProteinID      string           `json:"protein_id"`
	MeetsCriteria  bool             `json:"meets_criteria"`
	ValidationInfo *ValidationInfo  `json:"validation_info,omitempty"`
	FunctionInfo   *FunctionSummary `json:"function_info,omitempty"`
	Error          string           `json:"error,omitempty"`
	EvaluatedAt    time.Time        `json:"evaluated_at"`
}

// RecommendedProteins are well-characterized structures that make a good
// starter set: small, solved at high resolution, and widely studied.
func RecommendedProteins() []string {
	return []string{
		"1lyz", // lysozyme
		"1tim", // triose phosphate isomerase
		"1crn", // crambin
		"1hrd", // glutamate dehydrogenase
		"1gox", // glycolate oxidase
		"1cax", // carbonic anhydrase
	}
}
