package bindgen

import (
	"go/types"
	"strings"
	"testing"
)

func queueModel() *PackageModel {
	str := types.Typ[types.String]
	num := types.Typ[types.Int]
	errType := types.Universe.Lookup("error").Type()

	return &PackageModel{
		ImportPath: "example.com/queue",
		Name:       "queue",
		Functions: []FunctionModel{
			{
				Name:       "Connect",
				Params:     []ParamModel{{GoType: str}},
				Results:    []ParamModel{{GoType: errType}},
				ReturnsErr: true,
			},
			{
				Name:     "Join",
				Params:   []ParamModel{{GoType: types.NewSlice(str)}},
				Results:  []ParamModel{{GoType: str}},
				Variadic: true,
			},
		},
		Types: []TypeModel{
			{
				Name:     "Client",
				IsStruct: true,
				Fields: []FieldModel{
					{Name: "Addr", GoType: str},
					{Name: "Retries", GoType: num},
					{Name: "Callback", GoType: types.NewSignatureType(nil, nil, nil, nil, nil, false)},
				},
				Methods: []FunctionModel{
					{
						Name:       "Send",
						IsMethod:   true,
						Params:     []ParamModel{{GoType: str}},
						Results:    []ParamModel{{GoType: errType}},
						ReturnsErr: true,
					},
				},
			},
			{
				Name:     "Marker",
				IsStruct: true,
			},
		},
		Constants: []ConstantModel{
			{Name: "MaxRetries", TypeStr: "untyped int", Value: "5"},
			{Name: "DefaultAddr", TypeStr: "untyped string", Value: "localhost:9000"},
		},
	}
}

func TestGenerate(t *testing.T) {
	code, err := Generate(queueModel())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wants := []string{
		"Code generated by ember bindgen. DO NOT EDIT.",
		"package bind_queue",
		`pkg "example.com/queue"`,
		"func RegisterQueueClasses(rt *runtime.Runtime)",
		"bridge.NewClass[pkg.Client](rt)",
		`Method("send", (*pkg.Client).Send)`,
		`Field("addr", "Addr", false)`,
		`Field("retries", "Retries", false)`,
		`bridge.Global(rt, "connect", pkg.Connect)`,
		`rt.Globals["maxRetries"] = runtime.Int(5)`,
		`rt.Globals["defaultAddr"] = runtime.String("localhost:9000")`,
	}
	for _, want := range wants {
		if !strings.Contains(code, want) {
			t.Errorf("generated code missing %q", want)
		}
	}

	// Variadic functions, function-typed fields, and surface-less types
	// have no script representation.
	for _, reject := range []string{"Join", "Callback", "Marker"} {
		if strings.Contains(code, reject) {
			t.Errorf("generated code mentions unsupported %q", reject)
		}
	}
}

func TestGenerateEmptyModel(t *testing.T) {
	code, err := Generate(&PackageModel{ImportPath: "empty/pkg", Name: "pkg"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(code, "func RegisterPkgClasses(rt *runtime.Runtime)") {
		t.Error("empty package lost its registration function")
	}
	if strings.Contains(code, "bridge") {
		t.Error("empty package imports the bridge it never uses")
	}
}

func TestGenerateImportsFollowUsage(t *testing.T) {
	// A constant whose value happens to contain the import tokens must
	// not pull in imports the code never references.
	code, err := Generate(&PackageModel{
		ImportPath: "example.com/tokens",
		Name:       "tokens",
		Constants: []ConstantModel{
			{Name: "Sample", TypeStr: "untyped string", Value: "pkg.bridge.NewClass"},
		},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(code, `rt.Globals["sample"] = runtime.String("pkg.bridge.NewClass")`) {
		t.Error("constant with import-like value not emitted")
	}
	if strings.Contains(code, `pkg "example.com/tokens"`) {
		t.Error("unused package import emitted")
	}
	if strings.Contains(code, "emberhq/ember/bridge") {
		t.Error("unused bridge import emitted")
	}
}

func TestGenerateHyphenatedPackage(t *testing.T) {
	code, err := Generate(&PackageModel{ImportPath: "example.com/rate-limit", Name: "rate-limit"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(code, "package bind_rate_limit") {
		t.Error("hyphenated package name not sanitized")
	}
	if !strings.Contains(code, "RegisterRateLimitClasses") {
		t.Error("registration function name not pascalized")
	}
}
