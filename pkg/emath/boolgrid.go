package emath

import(
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A BoolGrid is a fixed-size grid of booleans, indexed by [x,y] with x
// in [0,Dx) and y in [0,Dy). Used for masks.
type BoolGrid struct {
	stride int
	values []bool
}

// NewBoolGrid returns an all-false grid. Negative dimensions are
// treated as zero.
func NewBoolGrid(w, h int) BoolGrid {
	if w < 0 { w = 0 }
	if h < 0 { h = 0 }
	return BoolGrid{
		stride: w,
		values: make([]bool, w*h),
	}
}

func (bg *BoolGrid)Set(x, y int, v bool) { bg.values[bg.stride*y + x] = v }
func (bg *BoolGrid)Get(x, y int) bool    { return bg.values[bg.stride*y + x] }
func (bg *BoolGrid)Dx() int              { return bg.stride }
func (bg *BoolGrid)Bounds() image.Rectangle { return image.Rect(0, 0, bg.Dx(), bg.Dy()) }

func (bg *BoolGrid)Dy() int {
	if bg.stride == 0 {
		return 0
	}
	return len(bg.values) / bg.stride
}

// In reports whether [x,y] is a valid index
func (bg *BoolGrid)In(x, y int) bool {
	return x >= 0 && y >= 0 && x < bg.Dx() && y < bg.Dy()
}

func (g1 *BoolGrid)Copy() *BoolGrid {
	g2 := BoolGrid{stride: g1.stride, values:make([]bool, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// Count returns the number of true cells
func (bg *BoolGrid)Count() int {
	n := 0
	for _, v := range bg.values {
		if v { n++ }
	}
	return n
}

func (g1 *BoolGrid)Equal(g2 *BoolGrid) bool {
	if g1.stride != g2.stride || len(g1.values) != len(g2.values) {
		return false
	}
	for i := range g1.values {
		if g1.values[i] != g2.values[i] {
			return false
		}
	}
	return true
}

// Contains reports whether every true cell of g2 is also true in g1.
// Grids must be the same shape.
func (g1 *BoolGrid)Contains(g2 *BoolGrid) bool {
	if g1.stride != g2.stride || len(g1.values) != len(g2.values) {
		return false
	}
	for i := range g2.values {
		if g2.values[i] && !g1.values[i] {
			return false
		}
	}
	return true
}

// OrRegion ORs an r.Dx() x r.Dy() block of src, starting at srcMin,
// into g starting at r.Min. The caller has to have clipped r to both
// grids.
func (g *BoolGrid)OrRegion(r image.Rectangle, src *BoolGrid, srcMin image.Point) {
	for y:=0; y<r.Dy(); y++ {
		dst := g.values[g.stride*(r.Min.Y+y) + r.Min.X:]
		sv := src.values[src.stride*(srcMin.Y+y) + srcMin.X:]
		for x:=0; x<r.Dx(); x++ {
			if sv[x] {
				dst[x] = true
			}
		}
	}
}

func (bg *BoolGrid)Stats() string {
	return fmt.Sprintf("bg[%dx%d, %d set]", bg.Dx(), bg.Dy(), bg.Count())
}

// String renders small grids as rows of '#' and '.', handy in test failures.
func (bg *BoolGrid)String() string {
	str := ""
	for y:=0; y<bg.Dy(); y++ {
		for x:=0; x<bg.Dx(); x++ {
			if bg.Get(x,y) {
				str += "#"
			} else {
				str += "."
			}
		}
		str += "\n"
	}
	return str
}

// Implement image.Image, so a mask can be handed straight to the encoders.
// Masked pixels are white.
func (bg *BoolGrid)ColorModel() color.Model { return color.GrayModel }
func (bg *BoolGrid)At(x, y int) color.Color {
	if bg.In(x, y) && bg.Get(x, y) {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{}
}

// ToGray returns the grid as an 8 bit image, 0xff for set cells.
func (bg *BoolGrid)ToGray() *image.Gray {
	img := image.NewGray(bg.Bounds())
	for y:=0; y<bg.Dy(); y++ {
		for x:=0; x<bg.Dx(); x++ {
			if bg.Get(x,y) {
				img.Pix[y*img.Stride + x] = 0xff
			}
		}
	}
	return img
}

// ToImg saves a black and white PNG of the grid, with a title written
// in the top left corner.
func (bg *BoolGrid)ToImg(title, filename string) error {
	dc := gg.NewContextForImage(bg.ToGray())
	dc.SetRGB(1,0,0)
	dc.DrawString(title, 10, 20)
	return dc.SavePNG(filename)
}
