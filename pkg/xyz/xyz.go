// Package xyz reads plain-text point clouds.
//
// An XYZ stream is a sequence of whitespace-separated records of four fields:
//
//	x y z color
//
// Coordinates may be integers or floating-point numbers; color is an integer
// palette index. There is no header. Line breaks carry no meaning beyond being
// whitespace, so a record may in principle span lines.
//
// Reading stops, without error, at the first record that does not parse or at
// a trailing partial record. Everything read up to that point is returned.
// This mirrors how the point clouds exported by common scanning tools are
// usually terminated by a footer or a blank trailer.
//
// Each coordinate is quantized as round(c / unit), rounding half away from
// zero, so 2.5 becomes 3 and -2.5 becomes -3.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/matzehuels/voxgen/pkg/errors"
	"github.com/matzehuels/voxgen/pkg/voxel"
)

// Cloud is the quantized content of an XYZ stream.
type Cloud struct {
	// Voxels in input order. Duplicates are kept.
	Voxels []voxel.Voxel

	// Bounds is the exact component-wise min/max of the quantized positions.
	// Empty when Voxels is empty.
	Bounds voxel.Bounds

	// Truncated is set when reading stopped at a record that did not parse,
	// as opposed to a clean end of input.
	Truncated bool
}

// Len returns the number of voxels read.
func (c *Cloud) Len() int { return len(c.Voxels) }

// Quantize maps a raw coordinate to the integer lattice of edge length unit.
func Quantize(c, unit float64) int {
	return int(math.Round(c / unit))
}

// Read parses records from r and quantizes them with unit.
//
// Read returns an error only when unit is not a positive finite number or the
// underlying reader fails. Malformed content terminates reading silently; see
// the package documentation. Read does not close r.
func Read(r io.Reader, unit float64) (*Cloud, error) {
	if !(unit > 0) || math.IsInf(unit, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "voxel size must be a positive number, got %g", unit)
	}

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	cloud := &Cloud{Bounds: voxel.NewBounds()}
	var fields [4]string
	for {
		n := 0
		for n < len(fields) && sc.Scan() {
			fields[n] = sc.Text()
			n++
		}
		if n == 0 {
			break
		}
		if n < len(fields) {
			cloud.Truncated = true
			break
		}

		v, ok := parseRecord(fields, unit)
		if !ok {
			cloud.Truncated = true
			break
		}
		cloud.Voxels = append(cloud.Voxels, v)
		cloud.Bounds.Extend(v.Pos)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return cloud, nil
}

// ReadFile opens path, parses it with [Read] and closes it.
func ReadFile(path string, unit float64) (*Cloud, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, unit)
}

func parseRecord(fields [4]string, unit float64) (voxel.Voxel, bool) {
	var v voxel.Voxel
	for i := 0; i < 3; i++ {
		c, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
			return v, false
		}
		q := c / unit
		if q > math.MaxInt32 || q < math.MinInt32 {
			return v, false
		}
		v.Pos[i] = Quantize(c, unit)
	}

	color, err := strconv.Atoi(fields[3])
	if err != nil {
		return v, false
	}
	// Out-of-range indices keep their low byte.
	v.Color = uint8(color)
	return v, true
}
