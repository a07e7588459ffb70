package skyproj

import(
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
)

// A Header holds the FITS header cards we need, keyed by upper case
// keyword. Values are whatever the FITS (or YAML) decoder produced:
// float64, int-ish, string or bool.
type Header map[string]interface{}

func (h Header)Has(key string) bool {
	_, exists := h[strings.ToUpper(key)]
	return exists
}

// Float returns a numeric card as a float64
func (h Header)Float(key string) (float64, bool) {
	switch v := h[strings.ToUpper(key)].(type) {
	case float64: return v, true
	case float32: return float64(v), true
	case int:     return float64(v), true
	case int8:    return float64(v), true
	case int16:   return float64(v), true
	case int32:   return float64(v), true
	case int64:   return float64(v), true
	case uint8:   return float64(v), true
	case uint16:  return float64(v), true
	case uint32:  return float64(v), true
	case uint64:  return float64(v), true
	}
	return 0, false
}

func (h Header)Int(key string) (int, bool) {
	f, ok := h.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Text returns a string card, trimmed of the padding FITS likes to add
func (h Header)Text(key string) (string, bool) {
	s, ok := h[strings.ToUpper(key)].(string)
	return strings.TrimSpace(s), ok
}

// OpenFITS reads a whole FITS file into memory. Gzipped files (as the
// HyperLEDA dumps are usually shipped) are spotted by their magic bytes,
// whatever they are called.
func OpenFITS(filename string) (*fitsio.File, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %w", filename, err)
	}
	defer r.Close()

	br := bufio.NewReader(r)
	var in io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gunzip '%s': %w", filename, err)
		}
		defer zr.Close()
		in = zr
	}

	f, err := fitsio.Open(in)
	if err != nil {
		return nil, fmt.Errorf("fits parsing '%s': %w", filename, err)
	}
	return f, nil
}

// LoadHeader reads the header of one HDU of a FITS file. The image
// dimensions end up in NAXIS1/NAXIS2 whether or not the FITS decoder
// hands them back as ordinary cards.
func LoadHeader(filename string, hdu int) (Header, error) {
	f, err := OpenFITS(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdus := f.HDUs()
	if hdu < 0 || hdu >= len(hdus) {
		return nil, fmt.Errorf("fits '%s': no HDU %d (file has %d)", filename, hdu, len(hdus))
	}

	fh := hdus[hdu].Header()
	h := Header{}
	for _, key := range fh.Keys() {
		if card := fh.Get(key); card != nil {
			h[strings.ToUpper(key)] = card.Value
		}
	}

	for i, n := range fh.Axes() {
		h[fmt.Sprintf("NAXIS%d", i+1)] = n
	}

	return h, nil
}
