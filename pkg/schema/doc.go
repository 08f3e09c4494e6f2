// Package schema defines the credential form schema: the four field kinds
// (text-input, secret-input, radio, select) as a sealed sum type, the show_on
// visibility conditions, the FormValue snapshot owned by the parent, and the
// clearing map that invalidates dependent values when a controlling field
// changes. Schemas decode from JSON or YAML using the `type` discriminator;
// unrecognised kinds decode into *Unknown and are skipped by renderers.
package schema
