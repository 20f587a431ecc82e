// Package diag implements the diagnostics collector used by schema
// validation. Errors and warnings are accumulated across an entire pass
// instead of aborting on the first failure, so one response reports all
// problems across all blocks. Merging is associative and order-preserving.
package diag

// Diagnostics accumulates errors and warnings across a validation pass.
// The zero value is ready to use.
type Diagnostics struct {
	Errors   []DatamodelError
	Warnings []Warning
}

// New returns an empty diagnostics collector.
func New() Diagnostics {
	return Diagnostics{}
}

// HasErrors reports whether any hard error was collected. Warnings never
// fail a pass.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// PushError appends a hard error.
func (d *Diagnostics) PushError(err DatamodelError) {
	d.Errors = append(d.Errors, err)
}

// PushWarning appends a soft warning.
func (d *Diagnostics) PushWarning(w Warning) {
	d.Warnings = append(d.Warnings, w)
}

// AppendWarnings appends a batch of warnings, preserving order.
func (d *Diagnostics) AppendWarnings(ws []Warning) {
	d.Warnings = append(d.Warnings, ws...)
}

// Merge appends all errors and warnings from other, preserving order.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// ErrorMessages returns the collected error messages in order.
func (d *Diagnostics) ErrorMessages() []string {
	messages := make([]string, 0, len(d.Errors))
	for _, err := range d.Errors {
		messages = append(messages, err.Message)
	}
	return messages
}
