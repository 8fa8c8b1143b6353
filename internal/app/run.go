package app

import (
	"context"
	"fmt"

	"github.com/vk/wirebundle/internal/connect"
	"github.com/vk/wirebundle/internal/ctxlog"
	"github.com/vk/wirebundle/internal/diag"
	"github.com/vk/wirebundle/internal/netlist"
	"github.com/vk/wirebundle/internal/registry"
)

// Run executes the main application logic based on the provided configuration.
// It builds the schema registry from the loaded model, elaborates every
// connect block into primitive connections, realizes them against an
// in-memory netlist store, and reports diagnostics.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	reg, buildDiags := registry.Build(ctx, a.model)
	if buildDiags.HasErrors() {
		for _, d := range buildDiags {
			a.logger.Error(d.String())
		}
		return fmt.Errorf("failed to build schema registry: %w", buildDiags)
	}
	a.logger.Debug("Schema registry built.", "ports", len(reg.Ports()))

	store := netlist.NewMemStore()
	var all diag.Diagnostics

	for _, c := range a.model.Connects {
		left, err := reg.ResolveEndpoint(c.Left)
		if err != nil {
			return fmt.Errorf("connect %q: %w", c.Name, err)
		}
		right, err := reg.ResolveEndpoint(c.Right)
		if err != nil {
			return fmt.Errorf("connect %q: %w", c.Name, err)
		}
		topo, err := connect.ParseTopology(c.Topology)
		if err != nil {
			return fmt.Errorf("connect %q: %w", c.Name, err)
		}

		res := connect.Connect(ctx, left, right, topo)

		fmt.Fprintf(a.outW, "connect %q (%s): %d connections\n", c.Name, topo, len(res.Connections))
		for _, conn := range res.Connections {
			srcRef := endpointRef(c.Left, c.Right, conn.Source)
			sinkRef := endpointRef(c.Left, c.Right, conn.Sink)

			src := store.AllocateNode(srcRef, conn.Signal)
			sink := store.AllocateNode(sinkRef, conn.Signal)
			if err := store.Link(src, sink); err != nil {
				return fmt.Errorf("connect %q: %w", c.Name, err)
			}

			fmt.Fprintf(a.outW, "  %s -> %s\n", srcRef, sinkRef)
		}

		for _, d := range res.Diagnostics {
			if d.Severity == diag.SeverityError {
				a.logger.Error(d.String(), "connect", c.Name)
			} else {
				a.logger.Warn(d.String(), "connect", c.Name)
			}
		}
		all = append(all, res.Diagnostics...)
	}

	a.logger.Info("Elaboration finished.",
		"connects", len(a.model.Connects),
		"nodes", len(store.Nodes()),
		"links", len(store.Links()),
		"diagnostics", len(all),
	)

	if all.HasErrors() {
		return fmt.Errorf("elaboration completed with errors: %w", all)
	}
	if appConfig.Strict && len(all) > 0 {
		return fmt.Errorf("elaboration completed with diagnostics in strict mode: %w", all)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// endpointRef renders the fully qualified path of a connection endpoint by
// prefixing the leaf path with the connect block's own side reference.
func endpointRef(leftRef, rightRef string, e connect.Endpoint) string {
	ref := leftRef
	if e.Side == connect.SideRight {
		ref = rightRef
	}
	if len(e.Path) == 0 {
		return ref
	}
	return ref + "." + e.Path.String()
}
