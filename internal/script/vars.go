package script

import "strings"

// Vars is an insertion-ordered variable store. Order matters: substitution
// applies variables one after another in first-assignment order, so the
// result of overlapping names or values depends on which variable was
// defined first. That order dependence is part of the script language, not
// an implementation accident.
type Vars struct {
	names  []string
	values map[string]string
}

// NewVars returns an empty variable store.
func NewVars() *Vars {
	return &Vars{values: make(map[string]string)}
}

// Set stores a value under name. Reassignment overwrites the value but keeps
// the name's original position in the substitution order.
func (v *Vars) Set(name, value string) {
	if _, exists := v.values[name]; !exists {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

// Get returns the current value for name.
func (v *Vars) Get(name string) (string, bool) {
	value, ok := v.values[name]
	return value, ok
}

// Len returns the number of distinct variable names defined so far.
func (v *Vars) Len() int {
	return len(v.names)
}

// Expand replaces every occurrence of every variable name in s with its
// value. Replacement is plain substring substitution, one variable at a
// time in insertion order, in a single pass: text introduced by an earlier
// variable is visible to later variables in the same pass, but the pass is
// never restarted.
func (v *Vars) Expand(s string) string {
	for _, name := range v.names {
		if name == "" {
			continue
		}
		s = strings.ReplaceAll(s, name, v.values[name])
	}
	return s
}
