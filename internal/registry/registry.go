// Package registry holds the static allow-list of known blueprint names.
//
// The list is a compile-time constant on purpose: unknown names must fail
// before any network or filesystem work happens, so membership can never
// depend on a remote catalog lookup.
package registry

// UnknownBlueprintError reports a name outside the allow-list.
type UnknownBlueprintError struct {
	Name string
}

func (e *UnknownBlueprintError) Error() string {
	return "unknown blueprint name: " + e.Name
}

var blueprints = map[string]struct{}{
	"quick_start":   {},
	"food_ordering": {},
}

// Validate returns an UnknownBlueprintError if name is not a known blueprint.
func Validate(name string) error {
	if _, ok := blueprints[name]; !ok {
		return &UnknownBlueprintError{Name: name}
	}
	return nil
}

// Names returns the known blueprint names in no particular order.
func Names() []string {
	out := make([]string, 0, len(blueprints))
	for name := range blueprints {
		out = append(out, name)
	}
	return out
}
