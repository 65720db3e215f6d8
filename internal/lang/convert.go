package lang

import (
	"mica/internal/diag"
	"mica/internal/token"
)

// MaybeConvertTo is the single chokepoint for implicit coercion. It returns
// e unchanged when its type already is target, wraps it in a Cast when a
// conversion rule exists, and otherwise records a diagnostic and degrades to
// the invalid marker.
//
// An Invalid source or target passes through untouched: an Invalid source
// already carries a diagnostic, and an Invalid target means the caller has
// no expectation (e.g. a repeater model expression).
func MaybeConvertTo(e Expr, target Type, span token.Span, d *diag.Diagnostics) Expr {
	ty := e.Ty()
	if IsInvalid(target) || IsInvalid(ty) || Equal(ty, target) {
		return e
	}
	if CanConvert(ty, target) {
		return &Cast{From: e, To: target}
	}
	d.Errorf(span, "cannot convert expression of type %s to %s", ty, target)
	return &InvalidExpr{}
}
