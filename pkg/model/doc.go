// Package model defines the view model renderers consume. A FormModel is the
// output of one render pass of the credential form: only visible fields, only
// visible options, labels resolved for the active locale, and per-field flags
// for edit-mode locking and the validating indicator. Renderers never look at
// the schema or the value map directly.
package model
