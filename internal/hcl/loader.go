package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/wirebundle/internal/config"
	"github.com/vk/wirebundle/internal/ctxlog"
	"github.com/vk/wirebundle/internal/fsutil"
	"github.com/vk/wirebundle/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL declaration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL loading process. It is agnostic to the
// origin of the paths and accepts any mix of bundle, port, and connect
// blocks from any file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	var files []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, f := range found {
			if _, wasSeen := seen[f]; !wasSeen {
				files = append(files, f)
				seen[f] = struct{}{}
			}
		}
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.Root
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, b := range root.Bundles {
			def, err := l.translateBundle(ctx, b)
			if err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
			model.Bundles = append(model.Bundles, def)
		}
		for _, p := range root.Ports {
			model.Ports = append(model.Ports, &config.PortDefinition{
				Name:   p.Name,
				Bundle: p.Bundle,
			})
		}
		for _, c := range root.Connects {
			model.Connects = append(model.Connects, &config.ConnectDefinition{
				Name:     c.Name,
				Left:     c.Left,
				Right:    c.Right,
				Topology: c.Topology,
			})
		}

		logger.Debug("Loaded declarations from HCL file.", "file", file)
	}

	logger.Debug("HCL loading complete.",
		"bundles", len(model.Bundles),
		"ports", len(model.Ports),
		"connects", len(model.Connects),
	)
	return model, nil
}
