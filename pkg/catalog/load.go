package catalog

import(
	"fmt"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/abworrall/galaxy-mask/pkg/skyproj"
)

// A Format says which binary table columns hold what, for one flavour of
// catalog file.
type Format struct {
	Name         string
	RA, Dec      string
	Theta        string
	Diam         string
	BA           string

	DiamToDeg    float64  // multiply the diameter column by this to get degrees
	Sanitize     bool     // whether the file uses the sentinel conventions
}

var(
	// HyperLEDA, with D25 in arcsec and -999 for missing PAs
	LEDA = Format{Name:"leda", RA:"RA", Dec:"DEC", Theta:"PA", Diam:"D25", BA:"BA", DiamToDeg:1.0/3600.0, Sanitize:true}

	// The DECaPS cut of LEDA, already cleaned up, diameters in degrees
	LEDADecaps = Format{Name:"decaps", RA:"ra", Dec:"dec", Theta:"theta", Diam:"diam", BA:"ba", DiamToDeg:1.0}
)

func ListFormats() string { return strings.Join([]string{LEDA.Name, LEDADecaps.Name}, ",") }

func GetFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "leda": return LEDA, nil
	case "decaps":   return LEDADecaps, nil
	default:
		return Format{}, fmt.Errorf("no catalog format named '%s' (want one of %s)", name, ListFormats())
	}
}

// Load reads the first binary table extension of a FITS catalog, which
// may be gzipped.
func Load(filename string, f Format) (Catalog, error) {
	ff, err := skyproj.OpenFITS(filename)
	if err != nil {
		return nil, err
	}
	defer ff.Close()

	var table *fitsio.Table
	for _, hdu := range ff.HDUs() {
		if t, ok := hdu.(*fitsio.Table); ok {
			table = t
			break
		}
	}
	if table == nil {
		return nil, fmt.Errorf("catalog '%s': no table HDU", filename)
	}

	cat, err := readTable(table, f)
	if err != nil {
		return nil, fmt.Errorf("catalog '%s': %w", filename, err)
	}
	if f.Sanitize {
		cat.Sanitize()
	}

	return cat, nil
}

func readTable(table *fitsio.Table, f Format) (Catalog, error) {
	rows, err := table.Read(0, table.NumRows())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cat := make(Catalog, 0, table.NumRows())
	row := map[string]interface{}{}

	for rows.Next() {
		if err := rows.Scan(&row); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(cat), err)
		}

		e := Entry{}
		cols := []struct{
			name string
			dst  *float64
		}{
			{f.RA, &e.RA}, {f.Dec, &e.Dec}, {f.Theta, &e.Theta}, {f.Diam, &e.Diam}, {f.BA, &e.BA},
		}
		for _, c := range cols {
			v, ok := lookupFold(row, c.name)
			if !ok {
				return nil, fmt.Errorf("no column '%s' (format %s)", c.name, f.Name)
			}
			if *c.dst, ok = toFloat(v); !ok {
				return nil, fmt.Errorf("column '%s' has non-numeric type %T", c.name, v)
			}
		}
		e.Diam *= f.DiamToDeg

		cat = append(cat, e)
	}

	return cat, rows.Err()
}

// lookupFold finds a column by name, ignoring case; FITS writers don't
// agree on it.
func lookupFold(row map[string]interface{}, name string) (interface{}, bool) {
	if v, ok := row[name]; ok {
		return v, true
	}
	for k, v := range row {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// toFloat deals with whatever the table decoder hands back, values or
// pointers to values.
func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:  return x, true
	case float32:  return float64(x), true
	case int16:    return float64(x), true
	case int32:    return float64(x), true
	case int64:    return float64(x), true
	case *float64: return *x, true
	case *float32: return float64(*x), true
	case *int16:   return float64(*x), true
	case *int32:   return float64(*x), true
	case *int64:   return float64(*x), true
	}
	return 0, false
}
