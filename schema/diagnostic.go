package schema

// DiagnosticReason tags why a pipeline run produced reduced or empty output.
type DiagnosticReason string

const (
	// ReasonOK means the pipeline produced a usable series.
	ReasonOK DiagnosticReason = "ok"
	// ReasonNoData means no loadable file matched the requested scope.
	ReasonNoData DiagnosticReason = "no-data"
	// ReasonMissingColumns means the loaded dataset lacks required columns.
	ReasonMissingColumns DiagnosticReason = "missing-columns"
	// ReasonNoCompleteYears means coverage filtering left zero usable periods.
	ReasonNoCompleteYears DiagnosticReason = "no-complete-years"
	// ReasonBelowThreshold means threshold filtering left zero usable rows.
	ReasonBelowThreshold DiagnosticReason = "below-threshold"
)

// Diagnostic is the structured, non-fatal description of a pipeline run.
// Data-quality conditions are captured here as data, never as errors, so the
// renderer can degrade to an explanatory message instead of failing a page.
type Diagnostic struct {
	Reason           DiagnosticReason `json:"reason"`
	MissingColumns   []string         `json:"missing_columns,omitempty"`
	AvailableColumns []string         `json:"available_columns,omitempty"`
	RowsBefore       int              `json:"rows_before"`
	RowsAfter        int              `json:"rows_after"`
	// Sampled is true when the adaptive sampler actually reduced the row
	// count, so the renderer can annotate "data sampled" for the user.
	Sampled bool `json:"sampled"`
}

// ValidationResult reports which required columns a dataset is missing.
// Validation never fails: absent columns are data, not errors.
type ValidationResult struct {
	OK        bool     `json:"ok"`
	Missing   []string `json:"missing,omitempty"`
	Available []string `json:"available"`
}

// PlotResult is the tagged outcome of an assembler run: either a ready-to-
// render series with its diagnostic, or a diagnostic-only result when the
// pipeline short-circuited. Callers must check OK before using Series.
type PlotResult struct {
	Series     *Dataset   `json:"-"`
	Diagnostic Diagnostic `json:"diagnostic"`
}

// OK reports whether the result carries a usable series.
func (r *PlotResult) OK() bool {
	return r != nil && r.Series != nil && r.Diagnostic.Reason == ReasonOK
}
