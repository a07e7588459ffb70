package catalog

import(
	"bytes"
	"compress/gzip"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"
)

type ledaRow struct {
	RA   float64 `fits:"RA"`
	Dec  float64 `fits:"DEC"`
	PA   float64 `fits:"PA"`
	D25  float64 `fits:"D25"`
	BA   float64 `fits:"BA"`
}

type decapsRow struct {
	RA    float32 `fits:"ra"`
	Dec   float32 `fits:"dec"`
	Theta float32 `fits:"theta"`
	Diam  float32 `fits:"diam"`
	BA    float32 `fits:"ba"`
}

// writeTableFITS writes a primary HDU and then one binary table, holding
// the rows (pointers to structs with fits tags). cols==nil writes just
// the primary HDU.
func writeTableFITS(t *testing.T, filename string, cols []fitsio.Column, rows []interface{}, gz bool) {
	t.Helper()

	buf := bytes.Buffer{}
	f, err := fitsio.Create(&buf)
	if err != nil {
		t.Fatal(err)
	}
	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Write(phdu); err != nil {
		t.Fatal(err)
	}

	if cols != nil {
		tbl, err := fitsio.NewTable("CATALOG", cols, fitsio.BINARY_TBL)
		if err != nil {
			t.Fatal(err)
		}
		for i, row := range rows {
			if err := tbl.Write(row); err != nil {
				t.Fatalf("row %d: %v", i, err)
			}
		}
		if err := f.Write(tbl); err != nil {
			t.Fatal(err)
		}
	}
	f.Close()

	out := buf.Bytes()
	if gz {
		zbuf := bytes.Buffer{}
		zw := gzip.NewWriter(&zbuf)
		if _, err := zw.Write(out); err != nil {
			t.Fatal(err)
		}
		if err := zw.Close(); err != nil {
			t.Fatal(err)
		}
		out = zbuf.Bytes()
	}

	if err := os.WriteFile(filename, out, 0644); err != nil {
		t.Fatal(err)
	}
}

func columns(format string, names ...string) []fitsio.Column {
	cols := []fitsio.Column{}
	for _, n := range names {
		cols = append(cols, fitsio.Column{Name: n, Format: format})
	}
	return cols
}

func ledaRows() []interface{} {
	return []interface{}{
		&ledaRow{RA: 10.5, Dec: -3.25, PA: 45, D25: 36, BA: 0.5},
		&ledaRow{RA: 11, Dec: 1, PA: NoPositionAngle, D25: 18, BA: 0.3},
		&ledaRow{RA: 12, Dec: 2, PA: 170, D25: 7.2, BA: 0},
	}
}

func TestLoadLEDA(t *testing.T) {
	dir := t.TempDir()
	cols := columns("D", "RA", "DEC", "PA", "D25", "BA")

	for _, name := range []string{"leda-logd25-0.05.fits", "leda-logd25-0.05.fits.gz"} {
		file := filepath.Join(dir, name)
		writeTableFITS(t, file, cols, ledaRows(), strings.HasSuffix(name, ".gz"))

		cat, err := Load(file, LEDA)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(cat) != 3 {
			t.Fatalf("%s: got %d entries, want 3", name, len(cat))
		}

		want := Catalog{
			{RA: 10.5, Dec: -3.25, Theta: 45, Diam: 0.01, BA: 0.5},
			{RA: 11, Dec: 1, Theta: 0, Diam: 0.005, BA: 1},     // no PA, so round
			{RA: 12, Dec: 2, Theta: 170, Diam: 0.002, BA: 1},
		}
		for i, w := range want {
			e := cat[i]
			if e.RA != w.RA || e.Dec != w.Dec || e.Theta != w.Theta || e.BA != w.BA || math.Abs(e.Diam-w.Diam) > 1e-15 {
				t.Errorf("%s: entry %d is %+v, want %+v", name, i, e, w)
			}
		}
	}
}

func TestLoadDecaps(t *testing.T) {
	file := filepath.Join(t.TempDir(), "leda-decaps.fits")
	rows := []interface{}{
		&decapsRow{RA: 200.5, Dec: -45.25, Theta: 30, Diam: 0.01, BA: 0.75},
		&decapsRow{RA: 201, Dec: -46, Theta: NoPositionAngle, Diam: 0.02, BA: 0},
	}
	writeTableFITS(t, file, columns("E", "ra", "dec", "theta", "diam", "ba"), rows, false)

	cat, err := Load(file, LEDADecaps)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat) != 2 {
		t.Fatalf("got %d entries, want 2", len(cat))
	}
	if cat[0].RA != 200.5 || cat[0].Dec != -45.25 || cat[0].Diam != float64(float32(0.01)) || cat[0].BA != 0.75 {
		t.Errorf("unexpected first entry %+v", cat[0])
	}
	// Already clean, so sentinels are left alone
	if cat[1].Theta != NoPositionAngle || cat[1].BA != 0 {
		t.Errorf("decaps entries should not be sanitized, got %+v", cat[1])
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	// decaps columns, read as LEDA: there's no PA column
	wrongCols := filepath.Join(dir, "decaps.fits")
	writeTableFITS(t, wrongCols, columns("E", "ra", "dec", "theta", "diam", "ba"), []interface{}{&decapsRow{RA: 1}}, false)
	if _, err := Load(wrongCols, LEDA); err == nil || !strings.Contains(err.Error(), "column 'PA'") {
		t.Errorf("want a missing column error, got %v", err)
	}

	noTable := filepath.Join(dir, "image.fits")
	writeTableFITS(t, noTable, nil, nil, false)
	if _, err := Load(noTable, LEDA); err == nil || !strings.Contains(err.Error(), "no table") {
		t.Errorf("want a no table error, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.fits.gz"), LEDA); err == nil {
		t.Errorf("missing file should fail")
	}
}
