// This file contains the logic for translating raw `bundle` block bodies
// into the format-agnostic configuration model defined in the config
// package. Field blocks are read through hcl.Body.Content because their
// source order is the canonical field order of the schema.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/wirebundle/internal/bundle"
	"github.com/vk/wirebundle/internal/config"
	"github.com/vk/wirebundle/internal/ctxlog"
	"github.com/vk/wirebundle/internal/schema"
)

// translateBundle converts one HCL bundle block into the agnostic model.
func (l *Loader) translateBundle(ctx context.Context, b *schema.Bundle) (*config.BundleDefinition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Translating bundle block.", "bundle", b.Name)

	content, diags := b.Body.Content(schema.BundleBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid bundle %q: %w", b.Name, diags)
	}

	def := &config.BundleDefinition{Name: b.Name}

	if attr, exists := content.Attributes["description"]; exists {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &def.Description); diags.HasErrors() {
			return nil, fmt.Errorf("bundle %q: invalid description: %w", b.Name, diags)
		}
	}
	if attr, exists := content.Attributes["extends"]; exists {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &def.Extends); diags.HasErrors() {
			return nil, fmt.Errorf("bundle %q: invalid extends: %w", b.Name, diags)
		}
	}

	// content.Blocks preserves source order across all block types.
	for _, block := range content.Blocks {
		field, err := l.translateField(ctx, b.Name, block)
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, field)
	}

	return def, nil
}

// translateField converts one field block (`input`, `output`, `group`, or
// `vec`) into a FieldDefinition.
func (l *Loader) translateField(ctx context.Context, bundleName string, block *hcl.Block) (*config.FieldDefinition, error) {
	name := block.Labels[0]

	switch block.Type {
	case "input", "output":
		content, diags := block.Body.Content(schema.LeafBodySchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("bundle %q, %s %q: %w", bundleName, block.Type, name, diags)
		}

		typeAttr, exists := content.Attributes["type"]
		if !exists {
			return nil, fmt.Errorf("bundle %q, %s %q: missing required attribute 'type'", bundleName, block.Type, name)
		}
		signal, err := typeExprToSignalType(ctx, typeAttr.Expr)
		if err != nil {
			return nil, fmt.Errorf("bundle %q, %s %q: %w", bundleName, block.Type, name, err)
		}

		dir := bundle.Input
		if block.Type == "output" {
			dir = bundle.Output
		}
		return &config.FieldDefinition{
			Name:   name,
			Kind:   bundle.FieldLeaf,
			Dir:    dir,
			Signal: signal,
		}, nil

	case "group":
		content, diags := block.Body.Content(schema.GroupBodySchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("bundle %q, group %q: %w", bundleName, name, diags)
		}

		field := &config.FieldDefinition{Name: name, Kind: bundle.FieldGroup}
		if err := decodeCompositeAttrs(bundleName, name, content, field); err != nil {
			return nil, err
		}
		return field, nil

	case "vec":
		content, diags := block.Body.Content(schema.VecBodySchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("bundle %q, vec %q: %w", bundleName, name, diags)
		}

		field := &config.FieldDefinition{Name: name, Kind: bundle.FieldVec}
		if err := decodeCompositeAttrs(bundleName, name, content, field); err != nil {
			return nil, err
		}

		countAttr, exists := content.Attributes["count"]
		if !exists {
			return nil, fmt.Errorf("bundle %q, vec %q: missing required attribute 'count'", bundleName, name)
		}
		if diags := gohcl.DecodeExpression(countAttr.Expr, nil, &field.Count); diags.HasErrors() {
			return nil, fmt.Errorf("bundle %q, vec %q: invalid count: %w", bundleName, name, diags)
		}
		if field.Count < 0 {
			return nil, fmt.Errorf("bundle %q, vec %q: count cannot be negative, got %d", bundleName, name, field.Count)
		}
		return field, nil

	default:
		// Unreachable: BundleBodySchema rejects other block types.
		return nil, fmt.Errorf("bundle %q: unsupported block type %q", bundleName, block.Type)
	}
}

// decodeCompositeAttrs reads the attributes shared by group and vec
// blocks: the referenced bundle name and the optional flip marker.
func decodeCompositeAttrs(bundleName, fieldName string, content *hcl.BodyContent, field *config.FieldDefinition) error {
	bundleAttr, exists := content.Attributes["bundle"]
	if !exists {
		return fmt.Errorf("bundle %q, field %q: missing required attribute 'bundle'", bundleName, fieldName)
	}
	if diags := gohcl.DecodeExpression(bundleAttr.Expr, nil, &field.Bundle); diags.HasErrors() {
		return fmt.Errorf("bundle %q, field %q: invalid bundle reference: %w", bundleName, fieldName, diags)
	}

	if flipAttr, exists := content.Attributes["flip"]; exists {
		if diags := gohcl.DecodeExpression(flipAttr.Expr, nil, &field.Flip); diags.HasErrors() {
			return fmt.Errorf("bundle %q, field %q: invalid flip: %w", bundleName, fieldName, diags)
		}
	}
	return nil
}
