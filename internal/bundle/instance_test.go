package bundle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/wirebundle/internal/fieldpath"
)

// leafDirs flattens an instance's leaves into a path->direction map.
func leafDirs(i *Instance) map[string]Direction {
	out := make(map[string]Direction, len(i.Leaves()))
	for _, l := range i.Leaves() {
		out[l.Path.String()] = l.Dir
	}
	return out
}

func TestInstantiate_EffectiveDirections(t *testing.T) {
	r := NewRegistry()
	plink := declarePLink(t, r)
	filterIO, err := r.Declare("filter_io", []FieldSpec{
		GroupField("x", plink, true),
		GroupField("y", plink, false),
	})
	require.NoError(t, err)

	inst, err := r.Instantiate(filterIO)
	require.NoError(t, err)

	want := map[string]Direction{
		"x.data":  Input, // flipped
		"x.valid": Input,
		"y.data":  Output,
		"y.valid": Output,
	}
	assert.Empty(t, cmp.Diff(want, leafDirs(inst)))
}

func TestInstantiate_NestedFlipsCompose(t *testing.T) {
	r := NewRegistry()
	plink := declarePLink(t, r)
	inner, err := r.Declare("inner", []FieldSpec{
		GroupField("fwd", plink, false),
		GroupField("rev", plink, true),
	})
	require.NoError(t, err)
	outer, err := r.Declare("outer", []FieldSpec{
		GroupField("straight", inner, false),
		GroupField("mirror", inner, true),
	})
	require.NoError(t, err)

	inst, err := r.Instantiate(outer)
	require.NoError(t, err)

	// Effective direction is declared direction XOR the flips on the path.
	want := map[string]Direction{
		"straight.fwd.data":  Output,
		"straight.fwd.valid": Output,
		"straight.rev.data":  Input,
		"straight.rev.valid": Input,
		"mirror.fwd.data":    Input,
		"mirror.fwd.valid":   Input,
		"mirror.rev.data":    Output,
		"mirror.rev.valid":   Output,
	}
	assert.Empty(t, cmp.Diff(want, leafDirs(inst)))
}

func TestInstantiate_FlipIsInvolutive(t *testing.T) {
	r := NewRegistry()
	plink := declarePLink(t, r)
	once, err := r.Declare("once", []FieldSpec{GroupField("p", plink, true)})
	require.NoError(t, err)
	twice, err := r.Declare("twice", []FieldSpec{GroupField("q", once, true)})
	require.NoError(t, err)

	plain, err := r.Instantiate(plink)
	require.NoError(t, err)
	doubled, err := r.Instantiate(twice)
	require.NoError(t, err)

	// Two flips cancel: every leaf is back to its declared direction.
	for _, l := range doubled.Leaves() {
		orig, ok := plain.Leaf(l.Path[2:].String())
		require.True(t, ok)
		assert.Equal(t, orig.Dir, l.Dir, "leaf %s", l.Path)
	}
}

func TestInstantiate_ResolutionIsStable(t *testing.T) {
	r := NewRegistry()
	plink := declarePLink(t, r)
	filterIO, err := r.Declare("filter_io", []FieldSpec{
		GroupField("x", plink, true),
		GroupField("y", plink, false),
	})
	require.NoError(t, err)

	a, err := r.Instantiate(filterIO)
	require.NoError(t, err)
	b, err := r.Instantiate(filterIO)
	require.NoError(t, err)

	// Two instantiations resolve identically, and repeated reads of one
	// instance always return the same leaves.
	assert.Empty(t, cmp.Diff(leafDirs(a), leafDirs(b)))
	assert.Empty(t, cmp.Diff(leafDirs(a), leafDirs(a)))
}

func TestInstantiate_VecExpansion(t *testing.T) {
	r := NewRegistry()
	plink := declarePLink(t, r)
	xbar, err := r.Declare("xbar_io", []FieldSpec{
		VecField("lane", plink, 3, true),
		VecField("spare", plink, 0, false),
	})
	require.NoError(t, err)

	inst, err := r.Instantiate(xbar)
	require.NoError(t, err)

	// 3 lanes x 2 leaves; the zero-count vec contributes nothing.
	require.Len(t, inst.Leaves(), 6)

	dirs := leafDirs(inst)
	for i := 0; i < 3; i++ {
		prefix := fieldpath.Path{fieldpath.NewIndexed("lane", i)}
		assert.Equal(t, Input, dirs[prefix.Child(fieldpath.New("data")).String()])
		assert.Equal(t, Input, dirs[prefix.Child(fieldpath.New("valid")).String()])
	}
}

func TestExpandVec(t *testing.T) {
	r := NewRegistry()
	plink := declarePLink(t, r)
	xbar, err := r.Declare("xbar_io", []FieldSpec{
		VecField("lane", plink, 4, true),
	})
	require.NoError(t, err)

	inst, err := r.Instantiate(xbar)
	require.NoError(t, err)

	elems, err := inst.ExpandVec("lane")
	require.NoError(t, err)
	require.Len(t, elems, 4)

	// All elements are structurally identical modulo the index.
	first := leafDirs(elems[0])
	for i, elem := range elems {
		assert.Empty(t, cmp.Diff(first, leafDirs(elem)), "element %d", i)
		assert.Equal(t, plink, elem.Schema())
		assert.True(t, elem.Flipped())
	}

	_, err = inst.ExpandVec("nope")
	assert.ErrorContains(t, err, "no field")
}

func TestInstance_At(t *testing.T) {
	r := NewRegistry()
	plink := declarePLink(t, r)
	filterIO, err := r.Declare("filter_io", []FieldSpec{
		GroupField("x", plink, true),
		GroupField("y", plink, false),
	})
	require.NoError(t, err)
	top, err := r.Declare("top_io", []FieldSpec{
		GroupField("filter", filterIO, false),
		VecField("lane", plink, 2, false),
	})
	require.NoError(t, err)

	inst, err := r.Instantiate(top)
	require.NoError(t, err)

	t.Run("group subtree carries flip state", func(t *testing.T) {
		path, err := fieldpath.Parse("filter.x")
		require.NoError(t, err)
		sub, err := inst.At(path)
		require.NoError(t, err)

		want := map[string]Direction{"data": Input, "valid": Input}
		assert.Empty(t, cmp.Diff(want, leafDirs(sub)))
	})

	t.Run("vec element by index", func(t *testing.T) {
		path, err := fieldpath.Parse("lane[1]")
		require.NoError(t, err)
		sub, err := inst.At(path)
		require.NoError(t, err)
		assert.Equal(t, plink, sub.Schema())
	})

	t.Run("empty path returns the same handle", func(t *testing.T) {
		sub, err := inst.At(nil)
		require.NoError(t, err)
		assert.Same(t, inst, sub)
	})

	t.Run("error cases", func(t *testing.T) {
		for _, raw := range []string{"nope", "filter.x.data", "filter[0]", "lane", "lane[5]"} {
			path, err := fieldpath.Parse(raw)
			require.NoError(t, err)
			_, err = inst.At(path)
			assert.Error(t, err, "path %s", raw)
		}
	})
}

func TestGender(t *testing.T) {
	r := NewRegistry()
	plink := declarePLink(t, r)
	flipped, err := r.Declare("flipped_plink", []FieldSpec{GroupField("p", plink, true)})
	require.NoError(t, err)
	duplex, err := r.Declare("duplex", []FieldSpec{
		GroupField("tx", plink, false),
		GroupField("rx", plink, true),
	})
	require.NoError(t, err)

	male, err := r.Instantiate(plink)
	require.NoError(t, err)
	female, err := r.Instantiate(flipped)
	require.NoError(t, err)
	mixed, err := r.Instantiate(duplex)
	require.NoError(t, err)

	assert.Equal(t, Male, male.Gender())
	assert.Equal(t, Female, female.Gender())
	assert.Equal(t, Mixed, mixed.Gender())
}
