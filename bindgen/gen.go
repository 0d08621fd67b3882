package bindgen

import (
	"fmt"
	"go/format"
	"go/types"
	"strings"
)

// Generate emits a Go source file that registers a package's exported API
// with the bridge. Struct types become classes (methods, fields, and the
// prototype surface), package functions become globals, and simple
// constants become global values. Generated classes declare no
// constructor: instances are wrapped from native code, never built from
// script.
func Generate(model *PackageModel) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by ember bindgen. DO NOT EDIT.\n")
	fmt.Fprintf(&b, "// Source package: %s\n\n", model.ImportPath)
	fmt.Fprintf(&b, "package bind_%s\n\n", sanitizePkgName(model.Name))

	body, usesBridge, usesPkg := generateBody(model)

	b.WriteString("import (\n")
	if usesBridge {
		b.WriteString("\t\"github.com/emberhq/ember/bridge\"\n")
	}
	b.WriteString("\t\"github.com/emberhq/ember/runtime\"\n")
	if usesPkg {
		fmt.Fprintf(&b, "\n\tpkg %q\n", model.ImportPath)
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(&b, "// %s binds the exported API of %s into rt.\n",
		RegisterFuncName(model.Name), model.ImportPath)
	fmt.Fprintf(&b, "func %s(rt *runtime.Runtime) {\n", RegisterFuncName(model.Name))
	b.WriteString(body)
	b.WriteString("}\n")

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return "", fmt.Errorf("formatting generated code for %s: %w", model.ImportPath, err)
	}
	return string(src), nil
}

// generateBody renders the registration statements and reports which
// imports they reference, so the import block never carries unused names.
func generateBody(model *PackageModel) (body string, usesBridge, usesPkg bool) {
	var b strings.Builder

	for _, tm := range model.Types {
		lines := classLines(&tm)
		if len(lines) == 0 {
			continue
		}
		usesBridge, usesPkg = true, true
		fmt.Fprintf(&b, "\tbridge.NewClass[pkg.%s](rt)", tm.Name)
		for _, line := range lines {
			b.WriteString(".\n\t\t")
			b.WriteString(line)
		}
		b.WriteString("\n\n")
	}

	for _, fn := range model.Functions {
		if !supportedFunc(&fn) {
			continue
		}
		usesBridge, usesPkg = true, true
		fmt.Fprintf(&b, "\tbridge.Global(rt, %q, pkg.%s)\n",
			GoNameToScriptName(fn.Name), fn.Name)
	}

	for _, c := range model.Constants {
		if expr := constantExpr(&c); expr != "" {
			fmt.Fprintf(&b, "\trt.Globals[%q] = %s\n", GoNameToScriptName(c.Name), expr)
		}
	}

	return b.String(), usesBridge, usesPkg
}

// classLines builds the chained registration calls for one type, or nil
// when the type has no bindable surface.
func classLines(tm *TypeModel) []string {
	var lines []string

	for _, m := range tm.Methods {
		if !supportedFunc(&m) {
			continue
		}
		lines = append(lines, fmt.Sprintf("Method(%q, (*pkg.%s).%s)",
			GoNameToScriptName(m.Name), tm.Name, m.Name))
	}

	for _, f := range tm.Fields {
		if !bindableFieldType(f.GoType) {
			continue
		}
		lines = append(lines, fmt.Sprintf("Field(%q, %q, false)",
			GoNameToScriptName(f.Name), f.Name))
	}

	return lines
}

// supportedFunc reports whether a function's signature can be dispatched
// through the converter: no variadics, no channel or function parameters,
// at most one non-error result.
func supportedFunc(fn *FunctionModel) bool {
	if fn.Variadic {
		return false
	}
	for _, p := range fn.Params {
		if !marshalable(p.GoType) {
			return false
		}
	}
	results := fn.Results
	if fn.ReturnsErr {
		results = results[:len(results)-1]
	}
	if len(results) > 1 {
		return false
	}
	for _, r := range results {
		if !marshalable(r.GoType) {
			return false
		}
	}
	return true
}

func marshalable(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Chan, *types.Signature:
		return false
	case *types.Pointer:
		_, isStruct := u.Elem().Underlying().(*types.Struct)
		return isStruct
	}
	return true
}

// bindableFieldType limits generated field accessors to scalar and string
// fields; anything richer is better exposed through a method.
func bindableFieldType(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return false
	}
	return basic.Info()&(types.IsBoolean|types.IsInteger|types.IsFloat|types.IsString) != 0
}

// constantExpr renders a constant as a runtime value literal, or "" when
// the constant's type has no script representation.
func constantExpr(c *ConstantModel) string {
	switch {
	case c.TypeStr == "string" || strings.HasSuffix(c.TypeStr, "untyped string"):
		return fmt.Sprintf("runtime.String(%q)", c.Value)
	case strings.Contains(c.TypeStr, "float"):
		return fmt.Sprintf("runtime.Float(%s)", c.Value)
	case strings.Contains(c.TypeStr, "int") || strings.HasSuffix(c.TypeStr, "untyped rune"):
		if strings.Contains(c.Value, "/") || strings.Contains(c.Value, ".") {
			return ""
		}
		return fmt.Sprintf("runtime.Int(%s)", c.Value)
	case c.TypeStr == "bool" || strings.HasSuffix(c.TypeStr, "untyped bool"):
		return fmt.Sprintf("runtime.Boolean(%s)", c.Value)
	}
	return ""
}

func sanitizePkgName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
