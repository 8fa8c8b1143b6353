// Package connect implements bulk connection of two bundle instances: a
// lock-step walk of both leaf sets that matches leaves by qualified path,
// validates directional polarity for the declared topology, and expands
// into one primitive leaf-to-leaf connection per valid pair.
//
// A bulk connection is sugar for the full set of leaf connections it
// expands to, never a single opaque multi-wire link. Connect is a pure
// function of its arguments: it mutates neither instance and produces the
// same byte-identical result for identical inputs, which is what makes
// elaboration reproducible and results comparable in tests.
package connect
