package galmask

import(
	"fmt"

	"github.com/abworrall/galaxy-mask/pkg/catalog"
	"github.com/abworrall/galaxy-mask/pkg/emath"
	"github.com/abworrall/galaxy-mask/pkg/skyproj"
)

// A Candidate is a catalog entry that might overlap the image, along
// with where its center lands in pixel coordinates.
type Candidate struct {
	Index int            // position in the catalog
	catalog.Entry
	Pixel emath.Vec2
}

// CornerRadius returns the largest angular distance (degrees) from the
// tangent point to any of the four corner pixels. It bounds the image's
// footprint on the sky, whatever the rotation or distortion.
func CornerRadius(frame ImageFrame) (float64, error) {
	w, h := float64(frame.Width-1), float64(frame.Height-1)
	corners, err := frame.Projector.PixelToSky([]emath.Vec2{{0, 0}, {0, h}, {w, 0}, {w, h}})
	if err != nil {
		return 0, fmt.Errorf("corners of '%s': %w", frame.Name, err)
	}

	dac := 0.0
	for _, c := range corners {
		if sep := frame.Projector.Separation(frame.Tangent, c); sep > dac {
			dac = sep
		}
	}
	return dac, nil
}

// FilterCandidates picks out the entries close enough to the tangent
// point that they might overlap the image: those whose separation is
// less than the corner radius plus their own diameter. It is a loose
// bound; the pixel bounding box test does the real work later. Only
// the survivors get projected into pixel coordinates. Catalog order is
// preserved.
func FilterCandidates(frame ImageFrame, cat catalog.Catalog) ([]Candidate, error) {
	dac, err := CornerRadius(frame)
	if err != nil {
		return nil, err
	}

	cands := []Candidate{}
	sky := []skyproj.SkyCoord{}
	for i, e := range cat {
		if dangle := frame.Projector.Separation(frame.Tangent, e.Sky()); dangle < dac + e.Diam {
			cands = append(cands, Candidate{Index: i, Entry: e})
			sky = append(sky, e.Sky())
		}
	}

	if len(cands) == 0 {
		return cands, nil
	}

	pix, err := frame.Projector.SkyToPixel(sky)
	if err != nil {
		return nil, fmt.Errorf("projecting candidates onto '%s': %w", frame.Name, err)
	}
	if len(pix) != len(cands) {
		return nil, fmt.Errorf("projecting candidates onto '%s': got %d pixels for %d positions", frame.Name, len(pix), len(cands))
	}
	for i := range cands {
		cands[i].Pixel = pix[i]
	}

	return cands, nil
}
