// Package registry turns a loaded config.Model into live schema and port
// instances: it reserves every bundle name up front, defines each bundle
// in declaration order, resolves name references, and instantiates ports.
//
// Schema-time problems (duplicate fields, cyclic references, unknown
// bundle names) are fatal: no meaningful instance can be built from an
// inconsistent schema, so Build reports them as error diagnostics and
// returns no registry.
package registry
