package diagnostic

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"facade-generator/internal/common"
)

// Severity orders diagnostics from informational to fatal.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// At locates a diagnostic. Type is a foreign type name; Member is a member
// name or a configuration path such as "members[2].outcome".
type At struct {
	Type   string
	Member string
}

// Diagnostic is one finding, identified by a stable snake_case code.
type Diagnostic struct {
	At
	Severity Severity
	Code     string
	Message  string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Type != "" {
		b.WriteString(d.Type)
	}
	if d.Member != "" {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(d.Member)
	}
	if b.Len() > 0 {
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	if d.Code != "" {
		fmt.Fprintf(&b, " (%s)", d.Code)
	}

	return b.String()
}

// Diagnostics collects findings of one run, bucketed by severity.
// The zero value is ready to use.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Errorf records an error.
func (d *Diagnostics) Errorf(at At, code, format string, args ...any) {
	d.add(SeverityError, at, code, fmt.Sprintf(format, args...))
}

// Warnf records a warning.
func (d *Diagnostics) Warnf(at At, code, format string, args ...any) {
	d.add(SeverityWarning, at, code, fmt.Sprintf(format, args...))
}

// Infof records an informational finding.
func (d *Diagnostics) Infof(at At, code, format string, args ...any) {
	d.add(SeverityInfo, at, code, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) add(severity Severity, at At, code, message string) {
	diag := Diagnostic{At: at, Severity: severity, Code: code, Message: message}

	switch severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// All returns every diagnostic, errors first, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// Codes returns the code of every diagnostic in All order.
func (d *Diagnostics) Codes() []string {
	var codes []string
	for _, diag := range d.All() {
		codes = append(codes, diag.Code)
	}

	return codes
}

// Error folds the recorded errors into one error, or returns nil.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	lines := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		lines[i] = e.String()
	}

	return errors.Newf("%d problem(s): %s", len(lines), strings.Join(lines, "; "))
}
