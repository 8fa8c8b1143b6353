// Package config defines the format-agnostic declaration model for the
// application, along with the Loader interface for producing it from a
// concrete source format.
//
// The `config.Model` is the single source of truth for the `registry`
// package: bundle declarations in source order, the ports to instantiate,
// and the connect plan to elaborate. The concrete HCL implementation of
// the Loader interface lives in the `hcl` package.
package config
