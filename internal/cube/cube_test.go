package cube

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	src := `# Created by hand
TITLE "Two"
DOMAIN_MIN 0 0 0
DOMAIN_MAX 1 1 1

LUT_3D_SIZE 2
0 0 0
1 0 0
0 1 0
1 1 0
# midway comment
0 0 1
1 0 1
0 1 1
1 1 1
`
	tbl, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Title != "Two" || tbl.Size != 2 || tbl.Count != 8 || !tbl.Complete() {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if len(tbl.Data) != 24 {
		t.Fatalf("data len %d", len(tbl.Data))
	}
	if tbl.Data[3] != 1 || tbl.Data[4] != 0 || tbl.Data[23] != 1 {
		t.Fatalf("unexpected lattice order: %v", tbl.Data)
	}
}

func TestParseMissingSize(t *testing.T) {
	_, err := Parse(strings.NewReader("0 0 0\n"))
	if !errors.Is(err, ErrNoSize) {
		t.Fatalf("expected ErrNoSize, got %v", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Line != 0 {
		t.Fatalf("expected line-less ParseError, got %#v", err)
	}
}

func TestParseInvalidSize(t *testing.T) {
	for _, src := range []string{
		"LUT_3D_SIZE 1\n",
		"LUT_3D_SIZE 257\n",
		"# c\nLUT_3D_SIZE abc\n",
		"LUT_3D_SIZE\n",
	} {
		_, err := Parse(strings.NewReader(src))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%q: expected ParseError, got %v", src, err)
		}
		if pe.Line == 0 || errors.Is(err, ErrNoSize) {
			t.Fatalf("%q: unexpected error %v", src, err)
		}
	}
}

func TestParseCountMismatch(t *testing.T) {
	short, err := Parse(strings.NewReader("LUT_3D_SIZE 2\n0.5 0.5 0.5\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if short.Complete() || short.Count != 1 || short.Expected() != 8 || len(short.Data) != 24 {
		t.Fatalf("unexpected short table: %+v", short)
	}
	for _, v := range short.Data[3:] {
		if v != 0 {
			t.Fatalf("not zero padded: %v", short.Data)
		}
	}

	var b strings.Builder
	b.WriteString("LUT_3D_SIZE 2\n")
	for i := 0; i < 10; i++ {
		b.WriteString("1 1 1\n")
	}
	long, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if long.Complete() || long.Count != 10 || len(long.Data) != 24 {
		t.Fatalf("unexpected long table: %+v", long)
	}
}

func TestParseOversized(t *testing.T) {
	var b strings.Builder
	b.WriteString("LUT_3D_SIZE 2\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "%d 0 0\n", i)
	}
	for i := 0; i < 50000; i++ {
		b.WriteString("9 9 9\n")
	}

	tbl, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Count != 50008 || len(tbl.Data) != 24 {
		t.Fatalf("unexpected table: count %d, data %d", tbl.Count, len(tbl.Data))
	}
	for i := 0; i < 8; i++ {
		if tbl.Data[i*3] != float32(i) {
			t.Fatalf("entry %d: got %v", i, tbl.Data[i*3:i*3+3])
		}
	}
}

func TestParseSizeAfterData(t *testing.T) {
	tbl, err := Parse(strings.NewReader("0.25 0.5 0.75\nLUT_3D_SIZE 2\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Count != 1 || tbl.Data[0] != 0.25 || tbl.Data[2] != 0.75 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
}

func TestParseSkipsGarbage(t *testing.T) {
	tbl, err := Parse(strings.NewReader("LUT_3D_SIZE 2\nLUT_1D_SIZE 4\nfoo bar baz\n1 2\n0.1 0.2 0.3\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Count != 1 || tbl.Data[0] != 0.1 || tbl.Data[2] != 0.3 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
}

func TestWrite(t *testing.T) {
	in := &Table{Title: "Ramp", Size: 2, Count: 8, Data: make([]float32, 24)}
	for i := range in.Data {
		in.Data[i] = float32(i) / 23
	}

	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4+8 || lines[0] != `TITLE "Ramp"` || lines[1] != "LUT_3D_SIZE 2" {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	out, err := Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i := range in.Data {
		if d := out.Data[i] - in.Data[i]; d > 1e-6 || d < -1e-6 {
			t.Fatalf("value %d: got %v want %v", i, out.Data[i], in.Data[i])
		}
	}
}
