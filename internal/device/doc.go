// Package device maps physical controllers onto logical joystick slots.
//
// A Remapper rewrites the js<N>/gp<N> prefix of captured inputs using a
// Table persisted in the preference store, so that a stick enumerated
// second by the OS can still be bound as js1, or ignored entirely.
//
// A Database describes known controllers and their axis profiles. It
// feeds a ProfileConverter, which names numeric axes ("axis3" -> "rotz")
// per device during normalisation.
package device
