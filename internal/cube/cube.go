// Package cube reads and writes 3D lookup tables in the .cube text format.
package cube

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxSize is the largest accepted LUT_3D_SIZE.
const MaxSize = 256

// Table is a parsed 3D LUT. Data holds Size^3 RGB triplets with red varying
// fastest and blue slowest.
type Table struct {
	Title string
	Size  int
	Data  []float32
	// Count is the number of data lines actually read. It differs from Size^3
	// when the source is truncated or has extra lines; Data is zero-padded or
	// truncated accordingly.
	Count int
}

// Expected returns the number of data lines a complete table of this size holds.
func (t *Table) Expected() int {
	return t.Size * t.Size * t.Size
}

// Complete reports whether the source held exactly Size^3 data lines.
func (t *Table) Complete() bool {
	return t.Count == t.Expected()
}

// ParseError describes an unusable .cube source.
type ParseError struct {
	Line int // 1-based, 0 when not tied to a line
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("cube: line %d: %s", e.Line, e.Msg)
	}
	return "cube: " + e.Msg
}

// Is lets errors.Is(err, ErrNoSize) match a missing-size ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrNoSize && e.Msg == ErrNoSize.Error()
}

// ErrNoSize is matched by the ParseError returned when LUT_3D_SIZE is missing.
var ErrNoSize = errors.New("LUT_3D_SIZE not found")

// Parse reads a .cube source.
func Parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	t := &Table{}
	var triples [][3]float32
	count, lineNo := 0, 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "LUT_3D_SIZE":
			if len(fields) < 2 {
				return nil, &ParseError{Line: lineNo, Msg: "LUT_3D_SIZE without value"}
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: "invalid LUT_3D_SIZE " + strconv.Quote(fields[1])}
			}
			if n < 2 || n > MaxSize {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("LUT_3D_SIZE %d out of range [2, %d]", n, MaxSize)}
			}
			t.Size = n
			continue
		case "TITLE":
			t.Title = strings.Trim(strings.TrimSpace(line[len(fields[0]):]), `"`)
			continue
		case "DOMAIN_MIN", "DOMAIN_MAX", "LUT_1D_SIZE", "LUT_1D_INPUT_RANGE", "LUT_3D_INPUT_RANGE":
			continue
		}
		if len(fields) < 3 {
			continue
		}
		var rgb [3]float32
		valid := true
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				valid = false
				break
			}
			rgb[i] = float32(v)
		}
		if !valid {
			continue
		}
		count++
		if t.Size == 0 || len(triples) < t.Expected() {
			triples = append(triples, rgb)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cube: read: %w", err)
	}
	if t.Size == 0 {
		return nil, &ParseError{Msg: ErrNoSize.Error()}
	}

	t.Count = count
	expected := t.Expected()
	t.Data = make([]float32, expected*3)
	for i, rgb := range triples {
		if i >= expected {
			break
		}
		copy(t.Data[i*3:i*3+3], rgb[:])
	}
	return t, nil
}

// Write encodes t as .cube text.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	if t.Title != "" {
		fmt.Fprintf(bw, "TITLE %q\n", t.Title)
	}
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", t.Size)
	fmt.Fprintln(bw, "DOMAIN_MIN 0.0 0.0 0.0")
	fmt.Fprintln(bw, "DOMAIN_MAX 1.0 1.0 1.0")
	n := t.Expected()
	for i := 0; i < n && i*3+2 < len(t.Data); i++ {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", t.Data[i*3], t.Data[i*3+1], t.Data[i*3+2])
	}
	return bw.Flush()
}
