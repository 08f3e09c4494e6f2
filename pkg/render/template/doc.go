// Package template defines the engine-agnostic template contract used by the
// HTML renderers. The pongo subpackage provides the default implementation.
package template
