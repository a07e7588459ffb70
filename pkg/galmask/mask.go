package galmask

import(
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/skypies/util/histogram"

	"github.com/abworrall/galaxy-mask/pkg/catalog"
	"github.com/abworrall/galaxy-mask/pkg/emath"
)

type Options struct {
	Verbosity int
}

// A MaskedGalaxy records what got painted for one catalog entry.
type MaskedGalaxy struct {
	Candidate
	Footprint
	AngleDeg float64  // major axis, in pixel coords
	Painted  image.Rectangle
}

func (mg MaskedGalaxy)String() string {
	return fmt.Sprintf("#%d %s -> %s angle=%.1f", mg.Index, mg.Entry, mg.Footprint, mg.AngleDeg)
}

// A Report describes how a mask was built.
type Report struct {
	Name           string
	CatalogSize    int
	Candidates     int  // passed the angular filter
	Overlapping    int  // footprint touches the image
	Masked         int  // ellipse painted into the mask
	Skipped        int  // orientation undefined
	MaskedPixels   int
	ArcsecPerPixel float64

	SizeHist       histogram.Histogram  // side length of each painted footprint
	Galaxies       []MaskedGalaxy
}

func NewReport(name string, catalogSize int) Report {
	return Report{
		Name:        name,
		CatalogSize: catalogSize,
		SizeHist:    histogram.Histogram{NumBuckets:32, ValMin:0, ValMax:512},
	}
}

func (r Report)String() string {
	str := fmt.Sprintf("%s: catalog %d, candidates %d, overlapping %d, masked %d, skipped %d\n",
		r.Name, r.CatalogSize, r.Candidates, r.Overlapping, r.Masked, r.Skipped)
	str += fmt.Sprintf("  %.3f arcsec/pixel, %d pixels masked\n", r.ArcsecPerPixel, r.MaskedPixels)
	if r.Masked > 0 {
		str += fmt.Sprintf("  footprint sizes: %v\n", r.SizeHist)
	}
	return str
}

// ComputeGalaxyMask returns a mask the size of the frame, with every
// pixel covered by a catalog galaxy set to true.
//
// Galaxies that can't be oriented (e.g. sitting on a celestial pole)
// are skipped and counted in the report. Having no galaxies near the
// image is not an error, just an empty mask. The only fatal problems
// are a bad frame, or a pixel scale that can't be inverted
// (ErrDegenerateGeometry).
func ComputeGalaxyMask(frame ImageFrame, cat catalog.Catalog, opts Options) (*emath.BoolGrid, Report, error) {
	rep := NewReport(frame.Name, len(cat))

	if err := frame.Validate(); err != nil {
		return nil, rep, err
	}

	mask := emath.NewBoolGrid(frame.Width, frame.Height)

	cands, err := FilterCandidates(frame, cat)
	if err != nil {
		return nil, rep, fmt.Errorf("filter '%s': %w", frame.Name, err)
	}
	rep.Candidates = len(cands)
	if len(cands) == 0 {
		if opts.Verbosity > 0 {
			log.Printf("[%s] no galaxies near the image\n", frame.Name)
		}
		return &mask, rep, nil
	}

	ps, err := ResolvePixelScale(frame.Projector.EffectivePixelScaleMatrix())
	if err != nil {
		return nil, rep, fmt.Errorf("pixel scale '%s': %w", frame.Name, err)
	}
	rep.ArcsecPerPixel = ps.ArcsecPerPixel

	for _, c := range cands {
		fp, ok := NewFootprint(c.Pixel, ps.MaskSize(c.Diam))
		if !ok || !fp.Overlaps(frame.Width, frame.Height) {
			continue
		}
		rep.Overlapping++

		un, ue, err := TangentUnitVectors(c.Sky(), frame.Tangent)
		if errors.Is(err, ErrOrientationUndefined) {
			rep.Skipped++
			if opts.Verbosity > 1 {
				log.Printf("[%s] skipping #%d: %v\n", frame.Name, c.Index, err)
			}
			continue
		} else if err != nil {
			return nil, rep, err
		}

		mg := MaskedGalaxy{
			Candidate: c,
			Footprint: fp,
			AngleDeg:  PositionAngleToPixel(un, ue, c.Theta, ps),
		}
		mg.Painted = PaintEllipse(&mask, fp, c.BA, mg.AngleDeg)

		rep.Masked++
		rep.SizeHist.Add(histogram.ScalarVal(fp.Size()))
		rep.Galaxies = append(rep.Galaxies, mg)

		if opts.Verbosity > 1 {
			log.Printf("[%s] %s\n", frame.Name, mg)
		}
	}

	rep.MaskedPixels = mask.Count()

	if opts.Verbosity > 0 {
		log.Printf("Masked Galaxies: %d\n", rep.Masked)
	}

	return &mask, rep, nil
}
