package bindgen

import "testing"

func TestGoNameToScriptName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Contains", "contains"},
		{"ReadAll", "readAll"},
		{"HasPrefix", "hasPrefix"},
		{"URL", "url"},
		{"ID", "id"},
		{"HTTPServer", "httpServer"},
		{"Write", "write"},
		{"alreadyLower", "alreadyLower"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GoNameToScriptName(tt.name)
			if got != tt.expected {
				t.Errorf("GoNameToScriptName(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestGoTypeToScriptClass(t *testing.T) {
	tests := []struct {
		typeName string
		expected string
	}{
		{"Server", "Server"},
		{"Decoder", "Decoder"},
		{"rateLimiter", "RateLimiter"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got := GoTypeToScriptClass(tt.typeName)
			if got != tt.expected {
				t.Errorf("GoTypeToScriptClass(%q) = %q, want %q", tt.typeName, got, tt.expected)
			}
		})
	}
}

func TestRegisterFuncName(t *testing.T) {
	tests := []struct {
		pkgName  string
		expected string
	}{
		{"json", "RegisterJsonClasses"},
		{"strings", "RegisterStringsClasses"},
		{"httptest", "RegisterHttptestClasses"},
	}
	for _, tt := range tests {
		t.Run(tt.pkgName, func(t *testing.T) {
			got := RegisterFuncName(tt.pkgName)
			if got != tt.expected {
				t.Errorf("RegisterFuncName(%q) = %q, want %q", tt.pkgName, got, tt.expected)
			}
		})
	}
}

func TestToPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"json", "Json"},
		{"http-server", "HttpServer"},
		{"my_lib", "MyLib"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := toPascal(tt.input)
			if got != tt.expected {
				t.Errorf("toPascal(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
