// Package form is the field record store: one reactive cell per named field
// and one for the aggregate Status, recomputed once per batch whenever any
// field changes.
//
// Fields are written copy-modify-write:
//
//	cell, _ := f.Field("email")
//	rec := cell.Read()
//	rec.IsDisabled = true
//	rec.Version++
//	cell.Write(rec)
//
// Bindings (package binding) are the normal writers; hosts use the bulk
// operations TouchAllInputs, DisableForm and ForEachInput, and the lifecycle
// operations in package orchestrator.
package form
