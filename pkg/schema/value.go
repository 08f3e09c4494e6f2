package schema

// FormValue maps field variables to their current value. A nil pointer and an
// absent key both mean "undefined". FormValue is treated as an immutable
// snapshot: the helpers below return new maps and never write to the receiver.
type FormValue map[string]*string

// Str returns a pointer to v, convenient for building FormValue literals.
func Str(v string) *string {
	return &v
}

// Get returns the value stored under key and whether it is defined.
func (v FormValue) Get(key string) (string, bool) {
	if v == nil {
		return "", false
	}
	ptr, ok := v[key]
	if !ok || ptr == nil {
		return "", false
	}
	return *ptr, true
}

// Clone copies the map. Pointers are copied too so the snapshot cannot be
// mutated through the clone.
func (v FormValue) Clone() FormValue {
	out := make(FormValue, len(v))
	for key, ptr := range v {
		if ptr == nil {
			out[key] = nil
			continue
		}
		out[key] = Str(*ptr)
	}
	return out
}

// With returns a copy of v where key holds value.
func (v FormValue) With(key, value string) FormValue {
	out := v.Clone()
	out[key] = Str(value)
	return out
}

// Without returns a copy of v where every key is present but undefined.
func (v FormValue) Without(keys ...string) FormValue {
	out := v.Clone()
	for _, key := range keys {
		out[key] = nil
	}
	return out
}

// Equal compares two snapshots, treating absent and nil entries as the same
// undefined value.
func (v FormValue) Equal(other FormValue) bool {
	for key := range v {
		if !sameEntry(v, other, key) {
			return false
		}
	}
	for key := range other {
		if !sameEntry(v, other, key) {
			return false
		}
	}
	return true
}

// Strings flattens the defined entries into a plain map.
func (v FormValue) Strings() map[string]string {
	out := make(map[string]string, len(v))
	for key, ptr := range v {
		if ptr != nil {
			out[key] = *ptr
		}
	}
	return out
}

// FromStrings builds a FormValue from a plain map.
func FromStrings(values map[string]string) FormValue {
	out := make(FormValue, len(values))
	for key, value := range values {
		out[key] = Str(value)
	}
	return out
}

func sameEntry(a, b FormValue, key string) bool {
	av, aok := a.Get(key)
	bv, bok := b.Get(key)
	return aok == bok && av == bv
}
