package models

// ValidationResult is the outcome of one data quality check.
type ValidationResult struct {
	IsValid  bool                   `json:"is_valid"`
	Errors   []string               `json:"errors"`
	Warnings []string               `json:"warnings"`
	Stats    map[string]interface{} `json:"stats"`
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() ValidationResult {
	return ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
		Stats:    make(map[string]interface{}),
	}
}

// AddError records a fatal problem and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// AddWarning records a non-fatal problem.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
