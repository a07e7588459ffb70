package galmask

// Writing masks out, as 8 bit grayscale images (masked pixels are 0xff)

import(
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/abworrall/galaxy-mask/pkg/emath"
)

// MaskFilename says where the mask for an image goes: same basename,
// with a -galmask suffix, in outputDir (or alongside the image).
func MaskFilename(imageFile, outputDir, format string) string {
	dir := filepath.Dir(imageFile)
	if outputDir != "" {
		dir = outputDir
	}
	base, ok := fitsStem(imageFile)
	if !ok {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ext := ".png"
	if strings.ToLower(format) == "tiff" {
		ext = ".tif"
	}
	return filepath.Join(dir, base + "-galmask" + ext)
}

func WriteMask(mask *emath.BoolGrid, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff": return WriteMaskTIFF(mask, filename)
	default:              return WritePNG(mask.ToGray(), filename)
	}
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %w", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

func WriteMaskTIFF(mask *emath.BoolGrid, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %w", filename, err)
	} else {
		defer writer.Close()
		return tiff.Encode(writer, mask.ToGray(), &tiff.Options{Compression: tiff.Deflate})
	}
}
