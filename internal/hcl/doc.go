// Package hcl provides the concrete HCL implementation of the
// configuration loading interface defined in the `config` package. It is
// responsible for file parsing, ordered extraction of bundle field blocks,
// signal-type expression parsing, and HCL-to-model translation.
package hcl
