package geometry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fancy_chessboard/internal/shared"
)

const piecesOBJ = `# pieces
o tower
v -0.3 -0.3 0
v 0.3 0.3 1.0
f 1 2 1
o knight
v -0.3 -0.3 0
v 0.3 0.3 1.1
o bishop
v -0.3 -0.3 0
v 0.3 0.3 1.2
vn 0 0 1
o queen
v -0.3 -0.3 0
v 0.3 0.3 1.4
o king
v -0.3 -0.3 0
v 0.3 0.3 1.5
g pawn
v -0.25 -0.25 0
v 0.25 0.25 0.75
v 0 0 0.8
`

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	for _, pt := range shared.AllPieceTypes {
		d := c.Get(pt)
		assert.Equal(t, pt, d.Type)
		assert.Greater(t, d.Height(), float32(0), pt.String())
		assert.Greater(t, d.Volume(), float32(0), pt.String())
	}
	assert.InDelta(t, 0.8, c.Get(shared.Pawn).Height(), 1e-6)
	assert.InDelta(t, 0.5*0.5*0.8, c.Get(shared.Pawn).Volume(), 1e-6)
}

func TestFromOBJBoundingBoxes(t *testing.T) {
	c, err := FromOBJ(strings.NewReader(piecesOBJ), nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.1, c.Get(shared.Knight).Height(), 1e-6)
	assert.InDelta(t, 0.8, c.Get(shared.Pawn).Height(), 1e-6)
	size := c.Get(shared.Pawn).Size()
	assert.InDelta(t, 0.5, size.X, 1e-6)
	assert.InDelta(t, 0.5, size.Y, 1e-6)
}

func TestFromOBJMissingPiece(t *testing.T) {
	src := strings.Replace(piecesOBJ, "o king", "o emperor", 1)
	_, err := FromOBJ(strings.NewReader(src), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPiece)
	assert.Contains(t, err.Error(), "king")
}

func TestDecodeOBJDuplicateNames(t *testing.T) {
	dec, err := DecodeOBJ(strings.NewReader("o a\nv 0 0 0\no a\nv 1 1 1\nfoo bar\n"))
	require.NoError(t, err)
	require.Len(t, dec.Objects, 2)
	_, ok := dec.Object("a_1")
	assert.True(t, ok)
	assert.Len(t, dec.Warnings, 2)
}

func TestDecodeOBJBadVertex(t *testing.T) {
	_, err := DecodeOBJ(strings.NewReader("o a\nv 0 zero 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line:2")
}

func TestDecodeOBJKeepsUnnamedVertices(t *testing.T) {
	dec, err := DecodeOBJ(strings.NewReader("v 0 0 0\nv 1 2 3\n"))
	require.NoError(t, err)
	ob, ok := dec.Object("")
	require.True(t, ok)
	assert.Equal(t, 2, ob.Vertices)
	assert.InDelta(t, 3, ob.Bounds.Size().Z, 1e-6)
}
