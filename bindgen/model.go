// Package bindgen introspects Go packages and generates Ember bridge
// registrations for their exported API.
package bindgen

import "go/types"

// PackageModel is the bindable surface of one Go package: the exported
// types, functions, and constants the generator can register.
type PackageModel struct {
	ImportPath string
	Name       string // short package name (e.g., "json")
	Functions  []FunctionModel
	Types      []TypeModel
	Constants  []ConstantModel
}

// TypeModel is one exported type: its fields (for structs) and its
// pointer-receiver methods.
type TypeModel struct {
	Name     string
	GoType   types.Type
	IsStruct bool
	Fields   []FieldModel
	Methods  []FunctionModel
}

// FunctionModel is one function or method signature, reduced to what
// dispatch needs: parameter and result types, whether the last result is
// an error, and variadic-ness (variadic signatures are not bindable).
type FunctionModel struct {
	Name       string
	IsMethod   bool
	Params     []ParamModel
	Results    []ParamModel
	ReturnsErr bool
	Variadic   bool
}

// ParamModel is one parameter or result position. Only the type matters
// for marshaling; names play no part in dispatch.
type ParamModel struct {
	GoType types.Type
}

// FieldModel is one exported struct field.
type FieldModel struct {
	Name   string
	GoType types.Type
}

// ConstantModel is one exported constant, carried as its literal text plus
// the type string that decides its script representation.
type ConstantModel struct {
	Name    string
	TypeStr string
	Value   string
}
