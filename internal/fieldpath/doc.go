// internal/fieldpath/doc.go

/*
Package fieldpath provides a structured, type-safe representation for
qualified field paths within a bundle instance, based on the canonical
format `name[index].sub.leaf`.

The format is defined as a dot-separated sequence of segments, where a
segment is a field name optionally followed by a vec index,
e.g., `lane[2].data`.

This package enforces the path schema and centralizes all formatting and
parsing logic so every component renders and compares paths identically.
*/
package fieldpath
