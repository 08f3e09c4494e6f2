package visibility

import "github.com/goliatone/go-credform/pkg/schema"

// Evaluator determines whether an entity guarded by conds should be visible
// given the current value snapshot.
type Evaluator interface {
	Visible(conds []schema.ShowOnItem, values schema.FormValue) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(conds []schema.ShowOnItem, values schema.FormValue) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(conds []schema.ShowOnItem, values schema.FormValue) bool {
	return fn(conds, values)
}

// Conjunction is the default evaluator: an empty condition list is always
// visible, otherwise every {variable, value} pair must match the snapshot
// using strict string equality. Undefined values never match.
type Conjunction struct{}

// Visible implements Evaluator.
func (Conjunction) Visible(conds []schema.ShowOnItem, values schema.FormValue) bool {
	for _, cond := range conds {
		current, ok := values.Get(cond.Variable)
		if !ok || current != cond.Value {
			return false
		}
	}
	return true
}

// Default returns the conjunctive evaluator.
func Default() Evaluator {
	return Conjunction{}
}

// FieldVisible evaluates a field's own show_on list.
func FieldVisible(eval Evaluator, field schema.Field, values schema.FormValue) bool {
	if field == nil {
		return false
	}
	if eval == nil {
		eval = Default()
	}
	return eval.Visible(field.Base().ShowOn, values)
}

// FilterOptions returns the options whose show_on list currently holds, in
// declaration order.
func FilterOptions(eval Evaluator, options []schema.Option, values schema.FormValue) []schema.Option {
	if len(options) == 0 {
		return nil
	}
	if eval == nil {
		eval = Default()
	}
	out := make([]schema.Option, 0, len(options))
	for _, option := range options {
		if eval.Visible(option.ShowOn, values) {
			out = append(out, option)
		}
	}
	return out
}
