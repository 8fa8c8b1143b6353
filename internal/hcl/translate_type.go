// This file contains the logic for parsing HCL signal-type expressions
// (e.g., `bool`, `uint(16)`) into their corresponding bundle.SignalType
// values.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/wirebundle/internal/bundle"
	"github.com/vk/wirebundle/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// typeExprToSignalType converts an HCL type expression into its
// bundle.SignalType equivalent.
func typeExprToSignalType(ctx context.Context, expr hcl.Expression) (bundle.SignalType, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return bundle.SignalType{}, fmt.Errorf("missing type expression")
	}

	// A type switch over the concrete expression types is the correct way
	// to distinguish keyword types from width-parameterized constructors.
	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing signal type expression as a constructor call.", "call", v.Name)
		if len(v.Args) != 1 {
			return bundle.SignalType{}, fmt.Errorf("signal type constructors (uint, sint) require exactly one width argument, got %d", len(v.Args))
		}

		width, err := evalWidth(v.Args[0])
		if err != nil {
			return bundle.SignalType{}, err
		}

		switch v.Name {
		case "uint":
			return bundle.UIntType(width), nil
		case "sint":
			return bundle.SIntType(width), nil
		default:
			return bundle.SignalType{}, fmt.Errorf("unknown signal type constructor %q", v.Name)
		}

	case *hclsyntax.ScopeTraversalExpr:
		// This handles keyword types like `bool` or `bit`.
		if len(v.Traversal) != 1 {
			return bundle.SignalType{}, fmt.Errorf("invalid signal type keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		logger.Debug("Parsing signal type expression as a keyword.", "keyword", rootName)
		switch rootName {
		case "bool":
			return bundle.BoolType, nil
		case "bit":
			return bundle.BitType, nil
		default:
			return bundle.SignalType{}, fmt.Errorf("unknown signal type %q", rootName)
		}

	default:
		// Fallback for any other kind of expression.
		return bundle.SignalType{}, fmt.Errorf("unsupported expression for signal type definition: %T", v)
	}
}

// evalWidth evaluates a width argument down to a positive integer.
func evalWidth(expr hcl.Expression) (int, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("invalid width expression: %w", diags)
	}
	if val.Type() != cty.Number {
		return 0, fmt.Errorf("signal width must be a number, got %s", val.Type().FriendlyName())
	}

	var width int
	if err := gocty.FromCtyValue(val, &width); err != nil {
		return 0, fmt.Errorf("signal width must be an integer: %w", err)
	}
	if width < 1 {
		return 0, fmt.Errorf("signal width must be at least 1, got %d", width)
	}
	return width, nil
}
