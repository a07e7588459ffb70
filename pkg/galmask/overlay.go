package galmask

import(
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/galaxy-mask/pkg/emath"
)

// An Overlay is a debug image: the mask, with the outline of every
// galaxy's ellipse and footprint drawn over it, so you can eyeball
// whether the orientation came out right.
type Overlay struct {
	dc      *gg.Context
	n       int
}

func NewOverlay(mask *emath.BoolGrid) *Overlay {
	return &Overlay{dc: gg.NewContextForImage(mask.ToGray())}
}

// PickColor steps around the hue wheel by the golden angle, so
// neighbouring galaxies don't end up the same colour.
func (o *Overlay)PickColor() colorful.Color {
	hue := math.Mod(float64(o.n) * 137.508, 360.0)
	return colorful.Hsv(hue, 0.8, 1.0)
}

func (o *Overlay)PlotGalaxy(mg MaskedGalaxy) {
	col := o.PickColor()
	o.n++

	cx, cy := float64(mg.Center.X) + 0.5, float64(mg.Center.Y) + 0.5
	a := math.Max(float64(mg.Half), 0.5)

	o.dc.SetColor(col)
	o.dc.SetLineWidth(1)

	o.dc.Push()
	o.dc.RotateAbout(gg.Radians(mg.AngleDeg), cx, cy)
	o.dc.DrawEllipse(cx, cy, a, math.Max(a*mg.BA, 0.5))
	o.dc.Stroke()
	o.dc.DrawLine(cx-a, cy, cx+a, cy) // major axis
	o.dc.Stroke()
	o.dc.Pop()

	o.PlotRectangle(mg.Bounds())
}

func (o *Overlay)PlotRectangle(r image.Rectangle) {
	o.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	o.dc.Stroke()
}

func (o *Overlay)Flush(filename string) error {
	return o.dc.SavePNG(filename)
}

// WriteOverlay draws everything in the report over the mask.
func WriteOverlay(mask *emath.BoolGrid, rep Report, filename string) error {
	o := NewOverlay(mask)
	for _, mg := range rep.Galaxies {
		o.PlotGalaxy(mg)
	}
	o.dc.SetRGB(1, 0, 0)
	o.dc.DrawString(fmt.Sprintf("%s: %d galaxies", rep.Name, rep.Masked), 10, 20)

	if err := o.Flush(filename); err != nil {
		return fmt.Errorf("overlay '%s': %w", filename, err)
	}
	return nil
}
