package runner

import "fmt"

// MismatchError reports an EXPECT directive whose pattern compiled but did
// not match the retained device response. It ends the run.
type MismatchError struct {
	Line     int
	Pattern  string
	Response string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("line %d: expected response matching \"%s\", got \"%s\"", e.Line, e.Pattern, e.Response)
}

// PatternError reports an EXPECT directive whose pattern is not a valid
// regular expression. It ends the run.
type PatternError struct {
	Line    int
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("line %d: invalid EXPECT pattern \"%s\": %v", e.Line, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
