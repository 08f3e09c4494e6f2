package schema

import "sort"

// BuildShowOnVariableMap derives the clearing map from the schema list. Every
// variable referenced by a field's show_on, or by the show_on of one of its
// options, lists that field as a dependent: when the controlling variable
// changes the dependent value is no longer trustworthy and must be cleared.
func BuildShowOnVariableMap(schemas Schemas) ShowOnVariableMap {
	out := make(ShowOnVariableMap)
	seen := make(map[string]map[string]struct{})

	add := func(controller, dependent string) {
		if controller == "" || dependent == "" {
			return
		}
		if seen[controller] == nil {
			seen[controller] = make(map[string]struct{})
		}
		if _, ok := seen[controller][dependent]; ok {
			return
		}
		seen[controller][dependent] = struct{}{}
		out[controller] = append(out[controller], dependent)
	}

	for _, field := range schemas {
		if field == nil {
			continue
		}
		base := field.Base()
		for _, item := range base.ShowOn {
			add(item.Variable, base.Variable)
		}
		for _, option := range OptionsOf(field) {
			for _, item := range option.ShowOn {
				add(item.Variable, base.Variable)
			}
		}
	}
	return out
}

// Dependents returns the variables to clear when key changes.
func (m ShowOnVariableMap) Dependents(key string) []string {
	if m == nil {
		return nil
	}
	return m[key]
}

// Cycle returns a chain of variables that clear each other in a loop, such as
// a -> b -> a, or nil when the map is acyclic. A field whose show_on names
// itself is not reported.
func (m ShowOnVariableMap) Cycle() []string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(m))
	var stack []string
	var found []string

	controllers := make([]string, 0, len(m))
	for controller := range m {
		controllers = append(controllers, controller)
	}
	sort.Strings(controllers)

	var visit func(string) bool
	visit = func(node string) bool {
		state[node] = active
		stack = append(stack, node)
		for _, next := range m[node] {
			if next == node {
				continue
			}
			switch state[next] {
			case active:
				for idx, v := range stack {
					if v == next {
						found = append(append([]string{}, stack[idx:]...), next)
						break
					}
				}
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		return false
	}

	for _, controller := range controllers {
		if state[controller] == unvisited && visit(controller) {
			return found
		}
	}
	return nil
}
