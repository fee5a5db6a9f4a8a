package hclflow

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
)

// ref is a name used in an attribute together with where it was written.
type ref struct {
	Name  string
	Range hcl.Range
}

// isUnset reports whether expr is the null placeholder gohcl assigns to an
// absent optional attribute.
func isUnset(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	if len(expr.Variables()) > 0 {
		return false
	}
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull()
}

// decodeName evaluates a single name. A bare identifier like approve is
// taken literally; anything else must evaluate to a string, so "approve"
// and var.target both work.
func decodeName(expr hcl.Expression, ctx *hcl.EvalContext) (ref, hcl.Diagnostics) {
	if trav, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() && len(trav) == 1 {
		if !hasVar(ctx, trav.RootName()) {
			return ref{Name: trav.RootName(), Range: expr.Range()}, nil
		}
	}

	var name string
	diags := gohcl.DecodeExpression(expr, ctx, &name)
	if diags.HasErrors() {
		return ref{}, diags
	}
	if name == "" {
		return ref{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Empty reference",
			Detail:   "A node or callback name must not be empty.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	return ref{Name: name, Range: expr.Range()}, nil
}

// decodeNames evaluates a reference list. A single name is accepted in
// place of a one-element list. An unset attribute yields no names.
func decodeNames(expr hcl.Expression, ctx *hcl.EvalContext) ([]ref, hcl.Diagnostics) {
	if isUnset(expr) {
		return nil, nil
	}

	if elems, listDiags := hcl.ExprList(expr); !listDiags.HasErrors() {
		var (
			out   []ref
			diags hcl.Diagnostics
		)
		for _, elem := range elems {
			r, d := decodeName(elem, ctx)
			diags = append(diags, d...)
			if !d.HasErrors() {
				out = append(out, r)
			}
		}
		return out, diags
	}

	v, diags := expr.Value(ctx)
	if diags.HasErrors() {
		// Possibly a bare identifier used on its own.
		r, d := decodeName(expr, ctx)
		if d.HasErrors() {
			return nil, diags
		}
		return []ref{r}, nil
	}
	if v.IsNull() {
		return nil, nil
	}
	if v.Type() == cty.String {
		r, d := decodeName(expr, ctx)
		if d.HasErrors() {
			return nil, d
		}
		return []ref{r}, nil
	}

	var names []string
	if d := gohcl.DecodeExpression(expr, ctx, &names); d.HasErrors() {
		return nil, d
	}
	out := make([]ref, 0, len(names))
	for _, n := range names {
		out = append(out, ref{Name: n, Range: expr.Range()})
	}
	return out, nil
}

// decodeOptionalName is decodeName for attributes that may be absent.
func decodeOptionalName(expr hcl.Expression, ctx *hcl.EvalContext) (*ref, hcl.Diagnostics) {
	if isUnset(expr) {
		return nil, nil
	}
	r, diags := decodeName(expr, ctx)
	if diags.HasErrors() {
		return nil, diags
	}
	return &r, nil
}

func hasVar(ctx *hcl.EvalContext, name string) bool {
	for ; ctx != nil; ctx = ctx.Parent() {
		if _, ok := ctx.Variables[name]; ok {
			return true
		}
	}
	return false
}
