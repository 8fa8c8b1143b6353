package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/wirebundle/internal/bundle"
	"github.com/vk/wirebundle/internal/config"
	"github.com/vk/wirebundle/internal/ctxlog"
	"github.com/vk/wirebundle/internal/diag"
	"github.com/vk/wirebundle/internal/fieldpath"
)

// Registry holds the defined schemas and instantiated ports for a single
// elaboration run. Once Build returns, a Registry is read-only.
type Registry struct {
	Schemas *bundle.Registry

	ports     map[string]*bundle.Instance
	portOrder []string
}

// Build constructs a Registry from the loaded model. It returns error
// diagnostics for every schema-level problem it finds; if any are
// reported, the registry is not usable and is returned nil.
func Build(ctx context.Context, model *config.Model) (*Registry, diag.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building schema registry.", "bundles", len(model.Bundles), "ports", len(model.Ports))

	reg := &Registry{
		Schemas: bundle.NewRegistry(),
		ports:   make(map[string]*bundle.Instance),
	}
	var diags diag.Diagnostics

	// Reserve every bundle name first so declarations may reference each
	// other regardless of order, and so cycles surface as cycles. Entries
	// whose reservation failed are tracked by index: a duplicate name still
	// resolves in ids, but its own body must not be defined.
	ids := make(map[string]bundle.SchemaID, len(model.Bundles))
	reserved := make([]bundle.SchemaID, len(model.Bundles))
	for i, b := range model.Bundles {
		id, err := reg.Schemas.Reserve(b.Name)
		if err != nil {
			diags = append(diags, diag.Diagnostic{
				Kind:     diag.DuplicateField,
				Severity: diag.SeverityError,
				Path:     b.Name,
				Detail:   err.Error(),
			})
			reserved[i] = bundle.InvalidSchema
			continue
		}
		ids[b.Name] = id
		reserved[i] = id
	}

	for i, b := range model.Bundles {
		id := reserved[i]
		if id == bundle.InvalidSchema {
			continue // Reservation failed, already reported.
		}

		fields, fieldDiags := translateFields(b, ids)
		diags = append(diags, fieldDiags...)
		if len(fieldDiags) > 0 {
			continue
		}

		var err error
		if b.Extends != "" {
			base, found := ids[b.Extends]
			if !found {
				diags = append(diags, diag.Diagnostic{
					Kind:     diag.UnknownBundle,
					Severity: diag.SeverityError,
					Path:     b.Name,
					Detail:   fmt.Sprintf("extends unknown bundle %q", b.Extends),
				})
				continue
			}
			err = reg.Schemas.DefineExtended(id, base, fields)
		} else {
			err = reg.Schemas.Define(id, fields)
		}
		if err != nil {
			diags = append(diags, defineDiagnostic(b.Name, err))
		}
	}

	for _, p := range model.Ports {
		if _, dup := reg.ports[p.Name]; dup {
			diags = append(diags, diag.Diagnostic{
				Kind:     diag.DuplicateField,
				Severity: diag.SeverityError,
				Path:     p.Name,
				Detail:   fmt.Sprintf("port %q declared twice", p.Name),
			})
			continue
		}

		id, ok := ids[p.Bundle]
		if !ok {
			diags = append(diags, diag.Diagnostic{
				Kind:     diag.UnknownBundle,
				Severity: diag.SeverityError,
				Path:     p.Name,
				Detail:   fmt.Sprintf("port %q references unknown bundle %q", p.Name, p.Bundle),
			})
			continue
		}

		inst, err := reg.Schemas.Instantiate(id)
		if err != nil {
			diags = append(diags, diag.Diagnostic{
				Kind:     diag.UnknownBundle,
				Severity: diag.SeverityError,
				Path:     p.Name,
				Detail:   fmt.Sprintf("port %q: %v", p.Name, err),
			})
			continue
		}

		reg.ports[p.Name] = inst
		reg.portOrder = append(reg.portOrder, p.Name)
	}

	if diags.HasErrors() {
		logger.Debug("Registry build failed.", "diagnostics", len(diags))
		return nil, diags
	}

	logger.Debug("Registry build complete.", "ports", len(reg.portOrder))
	return reg, diags
}

// translateFields resolves a bundle definition's field list against the
// reserved name table.
func translateFields(b *config.BundleDefinition, ids map[string]bundle.SchemaID) ([]bundle.FieldSpec, diag.Diagnostics) {
	var diags diag.Diagnostics
	fields := make([]bundle.FieldSpec, 0, len(b.Fields))

	for _, f := range b.Fields {
		switch f.Kind {
		case bundle.FieldLeaf:
			fields = append(fields, bundle.LeafField(f.Name, f.Dir, f.Signal))
		case bundle.FieldGroup, bundle.FieldVec:
			sub, ok := ids[f.Bundle]
			if !ok {
				diags = append(diags, diag.Diagnostic{
					Kind:     diag.UnknownBundle,
					Severity: diag.SeverityError,
					Path:     b.Name + "." + f.Name,
					Detail:   fmt.Sprintf("references unknown bundle %q", f.Bundle),
				})
				continue
			}
			if f.Kind == bundle.FieldGroup {
				fields = append(fields, bundle.GroupField(f.Name, sub, f.Flip))
			} else {
				fields = append(fields, bundle.VecField(f.Name, sub, f.Count, f.Flip))
			}
		}
	}

	return fields, diags
}

// defineDiagnostic maps a schema definition error onto its diagnostic kind.
func defineDiagnostic(bundleName string, err error) diag.Diagnostic {
	d := diag.Diagnostic{
		Severity: diag.SeverityError,
		Path:     bundleName,
		Detail:   err.Error(),
	}

	var dup *bundle.DuplicateFieldError
	var cyc *bundle.CyclicSchemaError
	switch {
	case errors.As(err, &dup):
		d.Kind = diag.DuplicateField
		d.Path = dup.Schema + "." + dup.Field
	case errors.As(err, &cyc):
		d.Kind = diag.CyclicSchema
		d.Path = cyc.Schema
	default:
		d.Kind = diag.UnknownBundle
	}
	return d
}

// Port returns the named port instance.
func (r *Registry) Port(name string) (*bundle.Instance, bool) {
	inst, ok := r.ports[name]
	return inst, ok
}

// Ports returns every port name in declaration order.
func (r *Registry) Ports() []string {
	return r.portOrder
}

// ResolveEndpoint resolves a connect-block endpoint reference of the form
// "port" or "port.field.path" to an instance handle rooted at the
// referenced subtree.
func (r *Registry) ResolveEndpoint(ref string) (*bundle.Instance, error) {
	if ref == "" {
		return nil, fmt.Errorf("endpoint reference cannot be empty")
	}

	portName, rest, _ := strings.Cut(ref, ".")
	inst, ok := r.ports[portName]
	if !ok {
		return nil, fmt.Errorf("unknown port %q in endpoint %q", portName, ref)
	}
	if rest == "" {
		return inst, nil
	}

	path, err := fieldpath.Parse(rest)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", ref, err)
	}

	sub, err := inst.At(path)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", ref, err)
	}
	return sub, nil
}
