// internal/fieldpath/path_test.go
package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_String(t *testing.T) {
	testCases := []struct {
		name        string
		path        Path
		expectedStr string
	}{
		{
			name:        "simple path",
			path:        Path{New("x"), New("data")},
			expectedStr: "x.data",
		},
		{
			name:        "path with indices",
			path:        Path{New("io"), NewIndexed("lane", 0), NewIndexed("word", 15)},
			expectedStr: "io.lane[0].word[15]",
		},
		{
			name:        "empty path",
			path:        nil,
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.path.String())
		})
	}
}

func TestPath_Child(t *testing.T) {
	parent := Path{New("io")}
	a := parent.Child(New("x"))
	b := parent.Child(New("y"))

	// Children built from the same parent must not alias each other.
	assert.Equal(t, "io.x", a.String())
	assert.Equal(t, "io.y", b.String())
	assert.Equal(t, "io", parent.String())
}

func TestPath_IsPrefixOf(t *testing.T) {
	lane0data := Path{NewIndexed("lane", 0), New("data")}

	assert.True(t, Path{NewIndexed("lane", 0)}.IsPrefixOf(lane0data))
	assert.True(t, Path{New("lane")}.IsPrefixOf(lane0data), "unindexed segment prefixes its indexed form")
	assert.True(t, lane0data.IsPrefixOf(lane0data))
	assert.False(t, Path{NewIndexed("lane", 1)}.IsPrefixOf(lane0data))
	assert.False(t, Path{New("data")}.IsPrefixOf(lane0data))
	assert.False(t, lane0data.IsPrefixOf(Path{NewIndexed("lane", 0)}))
}

func TestPath_RoundTrip(t *testing.T) {
	testPaths := []string{
		"x.data",
		"io.lane[0].word[15]",
		"out_valid",
	}

	for _, raw := range testPaths {
		t.Run(raw, func(t *testing.T) {
			path, err := Parse(raw)
			require.NoError(t, err)

			roundTrip := path.String()
			assert.Equal(t, raw, roundTrip)

			roundTripPath, err := Parse(roundTrip)
			require.NoError(t, err)
			assert.True(t, path.Equal(roundTripPath))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		rawID string
	}{
		{name: "empty path", rawID: ""},
		{name: "empty segment", rawID: "a..b"},
		{name: "bad index", rawID: "lane[x]"},
		{name: "leading digit", rawID: "0lane"},
		{name: "negative index", rawID: "lane[-1]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.rawID)
			assert.Error(t, err)
		})
	}
}
