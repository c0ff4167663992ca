package parse

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/turbot/go-kit/helpers"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// ParseConfig parses HCL config into a new T, which must be a struct with hcl tags whose pointer implements Config.
// The config may refer to environment variables as env.<NAME>.
// Validation is left to the caller, which may need to apply defaults first.
func ParseConfig[T any, PT configPtr[T]](hclBytes []byte, filename string) (PT, error) {
	target := PT(new(T))

	file, diags := hclsyntax.ParseConfig(hclBytes, filename, hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		slog.Warn("failed to parse config", "filename", filename)
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
		Functions: make(map[string]function.Function),
	}

	diags = decodeBody(file.Body, evalCtx, target)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}

	return target, nil
}

// ParseConfigFile reads and parses the HCL file at path
func ParseConfigFile[T any, PT configPtr[T]](path string) (PT, error) {
	hclBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig[T, PT](hclBytes, path)
}

func decodeBody(body hcl.Body, evalCtx *hcl.EvalContext, target any) (diags hcl.Diagnostics) {
	// gohcl panics on targets it cannot decode into
	defer func() {
		if r := recover(); r != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "unexpected error decoding config",
				Detail:   helpers.ToError(r).Error()})
		}
	}()

	return gohcl.DecodeBody(body, evalCtx, target)
}

// envObject exposes the process environment to config expressions
func envObject() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
