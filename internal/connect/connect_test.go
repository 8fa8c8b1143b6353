package connect

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/wirebundle/internal/bundle"
	"github.com/vk/wirebundle/internal/diag"
	"github.com/vk/wirebundle/internal/fieldpath"
)

func mustPath(t *testing.T, raw string) fieldpath.Path {
	t.Helper()
	p, err := fieldpath.Parse(raw)
	require.NoError(t, err)
	return p
}

// plinkRegistry builds the canonical test registry: plink (two output
// leaves) and filter_io (a flipped and an unflipped plink group).
func plinkRegistry(t *testing.T) (*bundle.Registry, bundle.SchemaID, bundle.SchemaID) {
	t.Helper()
	r := bundle.NewRegistry()

	plink, err := r.Declare("plink", []bundle.FieldSpec{
		bundle.LeafField("data", bundle.Output, bundle.UIntType(16)),
		bundle.LeafField("valid", bundle.Output, bundle.BoolType),
	})
	require.NoError(t, err)

	filterIO, err := r.Declare("filter_io", []bundle.FieldSpec{
		bundle.GroupField("x", plink, true),
		bundle.GroupField("y", plink, false),
	})
	require.NoError(t, err)

	return r, plink, filterIO
}

func instantiate(t *testing.T, r *bundle.Registry, id bundle.SchemaID) *bundle.Instance {
	t.Helper()
	inst, err := r.Instantiate(id)
	require.NoError(t, err)
	return inst
}

// pathsOf projects a connection list into "source@side -> sink@side" strings.
func pathsOf(conns []Connection) []string {
	out := make([]string, 0, len(conns))
	for _, c := range conns {
		out = append(out, c.Source.String()+" -> "+c.Sink.String())
	}
	return out
}

func TestConnect_FlippedSiblingExample(t *testing.T) {
	r, plink, filterIO := plinkRegistry(t)
	ctx := context.Background()

	filter := instantiate(t, r, filterIO)
	link := instantiate(t, r, plink)

	// The filter's flipped x side against a bare plink: flip made the x
	// leaves inputs, so the plink drives every leaf.
	left, err := filter.At(mustPath(t, "x"))
	require.NoError(t, err)

	res := Connect(ctx, left, link, Sibling)

	assert.Empty(t, res.Diagnostics)
	want := []string{
		"data@right -> data@left",
		"valid@right -> valid@left",
	}
	assert.Empty(t, cmp.Diff(want, pathsOf(res.Connections)))
}

func TestConnect_SameSchemaSiblingMismatchesEverywhere(t *testing.T) {
	r, plink, _ := plinkRegistry(t)
	ctx := context.Background()

	a := instantiate(t, r, plink)
	b := instantiate(t, r, plink)

	res := Connect(ctx, a, b, Sibling)

	// Identical schemas mean identical directions at every leaf, which
	// sibling topology forbids.
	assert.Empty(t, res.Connections)
	require.Len(t, res.Diagnostics, 2)
	for _, d := range res.Diagnostics {
		assert.Equal(t, diag.DirectionMismatch, d.Kind)
		assert.Equal(t, diag.SeverityError, d.Severity)
	}
	assert.Equal(t, "data", res.Diagnostics[0].Path)
	assert.Equal(t, "valid", res.Diagnostics[1].Path)
}

func TestConnect_SiblingSwapIsSymmetric(t *testing.T) {
	r, plink, filterIO := plinkRegistry(t)
	ctx := context.Background()

	filter := instantiate(t, r, filterIO)
	left, err := filter.At(mustPath(t, "x"))
	require.NoError(t, err)
	link := instantiate(t, r, plink)

	ab := Connect(ctx, left, link, Sibling)
	ba := Connect(ctx, link, left, Sibling)

	require.Len(t, ba.Connections, len(ab.Connections))
	for i, c := range ab.Connections {
		swapped := ba.Connections[i]
		// Same leaf pair, same driver, with side labels exchanged.
		assert.True(t, c.Source.Path.Equal(swapped.Source.Path))
		assert.NotEqual(t, c.Source.Side, swapped.Source.Side)
		assert.NotEqual(t, c.Sink.Side, swapped.Sink.Side)
	}
}

func TestConnect_ParentChildPolarity(t *testing.T) {
	r, plink, _ := plinkRegistry(t)
	ctx := context.Background()

	parent := instantiate(t, r, plink)
	child := instantiate(t, r, plink)

	res := Connect(ctx, parent, child, ParentChild)

	// Matching directions are required and the child's output drives.
	assert.Empty(t, res.Diagnostics)
	want := []string{
		"data@right -> data@left",
		"valid@right -> valid@left",
	}
	assert.Empty(t, cmp.Diff(want, pathsOf(res.Connections)))
}

func TestConnect_ParentChildMismatch(t *testing.T) {
	r, plink, filterIO := plinkRegistry(t)
	ctx := context.Background()

	filter := instantiate(t, r, filterIO)
	flipped, err := filter.At(mustPath(t, "x"))
	require.NoError(t, err)
	child := instantiate(t, r, plink)

	res := Connect(ctx, flipped, child, ParentChild)

	assert.Empty(t, res.Connections)
	require.Len(t, res.Diagnostics, 2)
	for _, d := range res.Diagnostics {
		assert.Equal(t, diag.DirectionMismatch, d.Kind)
	}
}

func TestConnect_UnmatchedLeavesAreReportedNotFatal(t *testing.T) {
	r, plink, _ := plinkRegistry(t)
	ctx := context.Background()

	wide, err := r.Extend("wide_plink", plink, []bundle.FieldSpec{
		bundle.LeafField("parity", bundle.Output, bundle.BitType),
	})
	require.NoError(t, err)

	narrowFlipped, err := r.Declare("narrow_flipped", []bundle.FieldSpec{
		bundle.GroupField("p", plink, true),
	})
	require.NoError(t, err)

	a := instantiate(t, r, wide)
	b, err := instantiate(t, r, narrowFlipped).At(mustPath(t, "p"))
	require.NoError(t, err)

	res := Connect(ctx, a, b, Sibling)

	// The shared leaves still connect; the extra one is a warning.
	assert.Len(t, res.Connections, 2)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.Unmatched, res.Diagnostics[0].Kind)
	assert.Equal(t, diag.SeverityWarning, res.Diagnostics[0].Severity)
	assert.Equal(t, "parity", res.Diagnostics[0].Path)
	assert.False(t, res.Diagnostics.HasErrors())
}

func TestConnect_LeafVersusCompositeIsStructural(t *testing.T) {
	r, plink, _ := plinkRegistry(t)
	ctx := context.Background()

	// One side declares `link` as a leaf where the other nests a plink.
	flat, err := r.Declare("flat", []bundle.FieldSpec{
		bundle.LeafField("link", bundle.Output, bundle.UIntType(17)),
	})
	require.NoError(t, err)
	nested, err := r.Declare("nested", []bundle.FieldSpec{
		bundle.GroupField("link", plink, true),
	})
	require.NoError(t, err)

	res := Connect(ctx, instantiate(t, r, flat), instantiate(t, r, nested), Sibling)

	assert.Empty(t, res.Connections)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.StructuralMismatch, res.Diagnostics[0].Kind)
	assert.Equal(t, diag.SeverityError, res.Diagnostics[0].Severity)
	assert.Equal(t, "link", res.Diagnostics[0].Path)
	assert.True(t, res.Diagnostics.HasErrors())
}

func TestConnect_VecToVecByIndex(t *testing.T) {
	r, plink, _ := plinkRegistry(t)
	ctx := context.Background()

	lanes, err := r.Declare("lanes", []bundle.FieldSpec{
		bundle.VecField("lane", plink, 3, false),
	})
	require.NoError(t, err)
	lanesFlipped, err := r.Declare("lanes_flipped", []bundle.FieldSpec{
		bundle.VecField("lane", plink, 3, true),
	})
	require.NoError(t, err)

	res := Connect(ctx, instantiate(t, r, lanes), instantiate(t, r, lanesFlipped), Sibling)

	assert.Empty(t, res.Diagnostics)
	want := []string{
		"lane[0].data@left -> lane[0].data@right",
		"lane[0].valid@left -> lane[0].valid@right",
		"lane[1].data@left -> lane[1].data@right",
		"lane[1].valid@left -> lane[1].valid@right",
		"lane[2].data@left -> lane[2].data@right",
		"lane[2].valid@left -> lane[2].valid@right",
	}
	assert.Empty(t, cmp.Diff(want, pathsOf(res.Connections)))
}

func TestConnect_MismatchedVecLengths(t *testing.T) {
	r, plink, _ := plinkRegistry(t)
	ctx := context.Background()

	three, err := r.Declare("three", []bundle.FieldSpec{
		bundle.VecField("lane", plink, 3, false),
	})
	require.NoError(t, err)
	two, err := r.Declare("two", []bundle.FieldSpec{
		bundle.VecField("lane", plink, 2, true),
	})
	require.NoError(t, err)

	res := Connect(ctx, instantiate(t, r, three), instantiate(t, r, two), Sibling)

	// Indices 0 and 1 connect; index 2 has no counterpart.
	assert.Len(t, res.Connections, 4)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, "lane[2].data", res.Diagnostics[0].Path)
	assert.Equal(t, "lane[2].valid", res.Diagnostics[1].Path)
	for _, d := range res.Diagnostics {
		assert.Equal(t, diag.Unmatched, d.Kind)
	}
}

func TestConnect_IsDeterministic(t *testing.T) {
	r, plink, _ := plinkRegistry(t)
	ctx := context.Background()

	lanes, err := r.Declare("lanes", []bundle.FieldSpec{
		bundle.VecField("lane", plink, 4, false),
	})
	require.NoError(t, err)
	lanesFlipped, err := r.Declare("lanes_flipped", []bundle.FieldSpec{
		bundle.VecField("lane", plink, 4, true),
	})
	require.NoError(t, err)

	left := instantiate(t, r, lanes)
	right := instantiate(t, r, lanesFlipped)

	first := Connect(ctx, left, right, Sibling)
	second := Connect(ctx, left, right, Sibling)

	assert.Empty(t, cmp.Diff(pathsOf(first.Connections), pathsOf(second.Connections)))
}

func TestParseTopology(t *testing.T) {
	topo, err := ParseTopology("sibling")
	require.NoError(t, err)
	assert.Equal(t, Sibling, topo)

	topo, err = ParseTopology("")
	require.NoError(t, err)
	assert.Equal(t, Sibling, topo)

	topo, err = ParseTopology("parent_child")
	require.NoError(t, err)
	assert.Equal(t, ParentChild, topo)

	_, err = ParseTopology("cousin")
	assert.ErrorContains(t, err, "unknown topology")
}
