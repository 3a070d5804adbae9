package domain

import (
	"fmt"
	"strings"
)

// Severity grades a problem. Severities are totally ordered and are used
// for sorting and highlighting only; they never take part in problem identity.
type Severity int

const (
	// SeverityNone problems are not highlighted but are still reported.
	SeverityNone Severity = iota
	// SeverityInfo problems are suggestions that do not criticise the text.
	SeverityInfo
	// SeverityWarning problems mark areas that work but may be unacceptable.
	SeverityWarning
	// SeverityError problems prevent the document from compiling correctly.
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a lowercase severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSeverity(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a severity name to its Severity value.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return SeverityNone, nil
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityNone, fmt.Errorf("unknown severity %q", name)
	}
}
