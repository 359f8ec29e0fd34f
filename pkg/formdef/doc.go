// Package formdef loads form definitions from YAML or JSON documents and turns
// them into forms, bindings and orchestrator options.
//
// A definition lists its fields as a mapping; the document order of that
// mapping is the field order of the built form:
//
//	name: signup
//	fields:
//	  email: {type: email, required: true}
//	  password: {type: password, min: 8}
//	  passwordConfirm: {type: password}
//	same:
//	  - [password, passwordConfirm]
//	submit:
//	  preventAction: true
package formdef
