package geometry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"

	"fancy_chessboard/internal/shared"
)

// DefaultNames maps piece types to the object names looked up in a mesh file.
var DefaultNames = map[shared.PieceType]string{
	shared.Tower:  "tower",
	shared.Knight: "knight",
	shared.Bishop: "bishop",
	shared.Queen:  "queen",
	shared.King:   "king",
	shared.Pawn:   "pawn",
}

// Object is one named object of an OBJ file, reduced to its bounding box.
type Object struct {
	Name     string
	Bounds   math32.Box3
	Vertices int
}

// Decoder reads the subset of Wavefront OBJ needed for bounding boxes:
// object/group names and vertex positions. Faces, normals and texture
// coordinates are accepted and ignored.
type Decoder struct {
	Objects  []Object
	Warnings []string

	index   map[string]int
	current int
	line    uint
}

// DecodeOBJ parses r and returns its objects.
func DecodeOBJ(r io.Reader) (*Decoder, error) {
	dec := &Decoder{index: make(map[string]int)}
	dec.startObject("")
	bufin := bufio.NewReader(r)
	dec.line = 1
	for {
		line, err := bufin.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if perr := dec.parseLine(strings.TrimSpace(line)); perr != nil {
			return nil, perr
		}
		if err == io.EOF {
			break
		}
		dec.line++
	}
	if dec.Objects[0].Vertices == 0 {
		dec.Objects = dec.Objects[1:]
		delete(dec.index, "")
		for name, i := range dec.index {
			dec.index[name] = i - 1
		}
	}
	return dec, nil
}

// Object returns the named object.
func (dec *Decoder) Object(name string) (Object, bool) {
	i, ok := dec.index[name]
	if !ok {
		return Object{}, false
	}
	return dec.Objects[i], true
}

func (dec *Decoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "o", "g":
		if len(fields) < 2 {
			return dec.formatError("object line with no name")
		}
		dec.startObject(fields[1])
	case "v":
		return dec.parseVertex(fields[1:])
	case "vn", "vt", "f", "s", "usemtl", "mtllib", "l":
	default:
		dec.appendWarn("field not supported: " + fields[0])
	}
	return nil
}

func (dec *Decoder) startObject(name string) {
	unique := name
	for n := 1; ; n++ {
		if _, taken := dec.index[unique]; !taken {
			break
		}
		unique = fmt.Sprintf("%s_%d", name, n)
	}
	if unique != name {
		dec.appendWarn(fmt.Sprintf("duplicate object %q available as %q", name, unique))
	}
	dec.Objects = append(dec.Objects, Object{Name: unique, Bounds: math32.B3Empty()})
	dec.current = len(dec.Objects) - 1
	dec.index[unique] = dec.current
}

// v <x> <y> <z> [w]
func (dec *Decoder) parseVertex(fields []string) error {
	if len(fields) < 3 {
		return dec.formatError("less than 3 coordinates in 'v' line")
	}
	var xyz [3]float32
	for i, f := range fields[:3] {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return dec.formatError(err.Error())
		}
		xyz[i] = float32(val)
	}
	ob := &dec.Objects[dec.current]
	ob.Bounds.ExpandByPoint(math32.Vec3(xyz[0], xyz[1], xyz[2]))
	ob.Vertices++
	return nil
}

func (dec *Decoder) formatError(msg string) error {
	return fmt.Errorf("obj: %s in line:%d", msg, dec.line)
}

func (dec *Decoder) appendWarn(msg string) {
	dec.Warnings = append(dec.Warnings, fmt.Sprintf("obj(%d): %s", dec.line, msg))
}

// FromOBJ builds a catalog from the objects of an OBJ stream. names maps
// each piece type to its object name; nil uses DefaultNames.
func FromOBJ(r io.Reader, names map[shared.PieceType]string) (*Catalog, error) {
	if names == nil {
		names = DefaultNames
	}
	dec, err := DecodeOBJ(r)
	if err != nil {
		return nil, err
	}
	c := NewCatalog()
	var missing []error
	for _, pt := range shared.AllPieceTypes {
		ob, ok := dec.Object(names[pt])
		if !ok || ob.Vertices == 0 {
			missing = append(missing, fmt.Errorf("%w: %s (object %q)", ErrMissingPiece, pt, names[pt]))
			continue
		}
		c.Set(pt, ob.Bounds)
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}
	return c, c.Validate()
}

// LoadFile reads a catalog from an OBJ file on disk.
func LoadFile(path string, names map[shared.PieceType]string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := FromOBJ(f, names)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}
