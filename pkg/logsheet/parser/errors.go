package parser

import (
	"errors"
	"fmt"
)

// ErrMissingHeader indicates the document has no field declaration
// directive anywhere.
var ErrMissingHeader = errors.New("no field declaration found")

// ErrEmptyData indicates the document has no data rows after comment and
// blank-line filtering.
var ErrEmptyData = errors.New("no data rows found")

// InconsistentRowsError reports every retained row whose token count
// disagrees with the declared schema. Positions are 1-based among
// retained lines. One inconsistent row disqualifies the whole document.
type InconsistentRowsError struct {
	Positions []int
}

func (e *InconsistentRowsError) Error() string {
	return fmt.Sprintf("inconsistent rows at positions %v", e.Positions)
}
