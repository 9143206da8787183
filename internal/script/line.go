// Package script implements the line-level syntax of bridgerun command
// scripts: comment stripping, NAME=VALUE assignments, the EXPECT directive
// keyword, and the variable store used for substitution.
package script

import "strings"

// Line is a single script line after comment stripping.
type Line struct {
	Number  int    // 1-based position in the script file
	Command string // text before the first '#', trimmed; empty for blank lines
	Comment string // text after the first '#', trimmed
}

// Split strips the comment portion from a raw script line and returns the
// resulting Line. Everything after the first '#' is the comment; everything
// before it is the command candidate. Both sides are whitespace-trimmed. A
// line that is empty, or empty once its comment is removed, yields an empty
// Command but still carries the comment for logging.
func Split(raw string, number int) Line {
	trimmed := strings.TrimSpace(raw)

	command := trimmed
	comment := ""
	if idx := strings.Index(trimmed, "#"); idx >= 0 {
		command = strings.TrimSpace(trimmed[:idx])
		comment = strings.TrimSpace(trimmed[idx+1:])
	}

	return Line{Number: number, Command: command, Comment: comment}
}

// IsBlank reports whether the line carries no command to dispatch.
func (l Line) IsBlank() bool {
	return l.Command == ""
}

// ParseAssignment splits a command of the form NAME=VALUE on its first '='.
// Both sides are trimmed, and a value wrapped in a matching pair of double
// quotes loses exactly that pair. ok is false when the command contains no
// '=' at all. Any command containing '=' is consumed as an assignment, even
// one that looks like a device command ("SET A=1" assigns "1" to "SET A");
// the script language has no quoting that makes '=' literal.
func ParseAssignment(command string) (name, value string, ok bool) {
	idx := strings.Index(command, "=")
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(command[:idx])
	value = Unquote(strings.TrimSpace(command[idx+1:]))
	return name, value, true
}

// expectKeyword is the directive prefix, matched case-insensitively. The
// trailing space is part of the match: a bare "EXPECT" is a device command.
const expectKeyword = "EXPECT "

// ExpectPattern returns the trimmed pattern text of an EXPECT directive, with
// one optional pair of surrounding double quotes stripped. ok is false when
// the command is not an EXPECT directive.
func ExpectPattern(command string) (pattern string, ok bool) {
	if len(command) < len(expectKeyword) {
		return "", false
	}
	if !strings.EqualFold(command[:len(expectKeyword)], expectKeyword) {
		return "", false
	}
	return Unquote(strings.TrimSpace(command[len(expectKeyword):])), true
}

// Unquote strips exactly one pair of surrounding double quotes, if both are
// present. There is no escape processing: inner quotes survive untouched.
func Unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
