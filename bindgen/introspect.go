package bindgen

import (
	"fmt"
	"go/constant"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// IntrospectPackage loads a Go package by import path and models its
// exported API. The includeFilter, if non-nil, restricts which exported
// names are included.
func IntrospectPackage(importPath string, includeFilter map[string]bool) (*PackageModel, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, importPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", importPath, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %s", importPath)
	}
	if len(pkgs[0].Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkgs[0].Errors)
	}

	pkg := pkgs[0]
	if pkg.Types == nil {
		return nil, fmt.Errorf("type information not available for %s", importPath)
	}

	model := &PackageModel{
		ImportPath: importPath,
		Name:       pkg.Name,
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		if includeFilter != nil && !includeFilter[name] {
			continue
		}

		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}

		switch o := obj.(type) {
		case *types.Func:
			sig := o.Type().(*types.Signature)
			model.Functions = append(model.Functions, signatureModel(o.Name(), sig, false))

		case *types.TypeName:
			if tm := typeModel(o); tm != nil {
				model.Types = append(model.Types, *tm)
			}

		case *types.Const:
			model.Constants = append(model.Constants, constantModel(o))
		}
	}

	return model, nil
}

func typeModel(tn *types.TypeName) *TypeModel {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil
	}

	tm := &TypeModel{
		Name:   tn.Name(),
		GoType: tn.Type(),
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		tm.IsStruct = true
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if f.Exported() && !f.Anonymous() {
				tm.Fields = append(tm.Fields, FieldModel{Name: f.Name(), GoType: f.Type()})
			}
		}
	}

	// Pointer-receiver method set, skipping promoted methods: those reach
	// script through the base class binding and the prototype chain.
	mset := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < mset.Len(); i++ {
		sel := mset.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		if len(sel.Index()) > 1 {
			continue
		}
		sig := fn.Type().(*types.Signature)
		tm.Methods = append(tm.Methods, signatureModel(fn.Name(), sig, true))
	}

	return tm
}

func constantModel(c *types.Const) ConstantModel {
	val := c.Val()
	valStr := val.ExactString()
	if val.Kind() == constant.String {
		valStr = constant.StringVal(val)
	}
	return ConstantModel{
		Name:    c.Name(),
		TypeStr: c.Type().String(),
		Value:   valStr,
	}
}

func signatureModel(name string, sig *types.Signature, isMethod bool) FunctionModel {
	fm := FunctionModel{
		Name:     name,
		IsMethod: isMethod,
		Variadic: sig.Variadic(),
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		fm.Params = append(fm.Params, ParamModel{GoType: params.At(i).Type()})
	}

	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		fm.Results = append(fm.Results, ParamModel{GoType: results.At(i).Type()})
	}
	if n := results.Len(); n > 0 && isErrorType(results.At(n-1).Type()) {
		fm.ReturnsErr = true
	}

	return fm
}

var universeError = types.Universe.Lookup("error").Type()

func isErrorType(t types.Type) bool {
	return types.Identical(t, universeError)
}
