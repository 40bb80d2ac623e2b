// Package ident normalises raw input identifiers into canonical binding
// tokens.
//
// Every path that turns "something the user pressed" into a string that
// is compared against stored bindings goes through Normalize, so two
// presses of the same physical control always produce the same token:
//
//	"LALT+JS1_Button3 "      -> "lalt+js1_button3"
//	"kb_u+lshift"            -> "lshift+kb1_u"
//	"rshift+lalt+kb1_a"      -> "lalt+rshift+kb1_a"
//	"js1_axis1_positive"     -> "js1_x"        (with an AxisConverter)
//	"js1_button4" @ js2      -> "js2_button4"  (with a TargetPrefix)
//
// Normalize is idempotent: feeding its output back in returns the same
// token. Identifiers that carry no binding (empty, whitespace or a
// cleared slot such as "js1_ ") return ok=false.
package ident
