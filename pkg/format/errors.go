package format

import "fmt"

// UnsupportedError reports a statement kind or clause shape the formatter
// does not know how to lay out. The caller decides whether this is fatal or
// degrades to the parser library's own serialization.
type UnsupportedError struct {
	// Kind is the statement tag of the offending node, e.g. "INSERT".
	Kind string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported construct: %s", e.Kind)
}
