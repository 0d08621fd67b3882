package bindgen

import (
	"strings"
	"unicode"
)

// GoNameToScriptName converts a Go exported name to the camelCase form
// used for script-visible methods, fields, and properties.
// e.g., "ReadAll" → "readAll", "URL" → "url", "HTTPServer" → "httpServer"
func GoNameToScriptName(name string) string {
	if name == "" {
		return name
	}

	runes := []rune(name)
	// Lowercase the leading run of uppercase letters, but keep the last
	// one of the run capitalized when it starts the next word
	// (e.g., "HTTPServer" → "httpServer", not "hTTPServer").
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n == len(runes):
		return strings.ToLower(name)
	case n == 1:
		return strings.ToLower(string(runes[0])) + string(runes[1:])
	default:
		return strings.ToLower(string(runes[:n-1])) + string(runes[n-1:])
	}
}

// GoTypeToScriptClass converts a Go type name to its script class name.
// Type names keep their Go capitalization.
// e.g., "Server" → "Server", "rateLimiter" → "RateLimiter"
func GoTypeToScriptClass(typeName string) string {
	if typeName == "" {
		return typeName
	}
	return strings.ToUpper(typeName[:1]) + typeName[1:]
}

// RegisterFuncName returns the name of the generated registration function
// for a package. e.g., "json" → "RegisterJsonClasses"
func RegisterFuncName(pkgName string) string {
	return "Register" + toPascal(pkgName) + "Classes"
}

// toPascal converts a string to PascalCase. Handles hyphenated and
// underscore-separated names.
func toPascal(s string) string {
	if len(s) == 0 {
		return s
	}

	var b strings.Builder
	nextUpper := true
	for _, r := range s {
		if r == '-' || r == '_' {
			nextUpper = true
			continue
		}
		if nextUpper {
			b.WriteRune(unicode.ToUpper(r))
			nextUpper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
