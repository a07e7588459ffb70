package galmask

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abworrall/galaxy-mask/pkg/skyproj"
)

// LoadFilesAndDirs walks the args, picking up a config from any .yaml
// file and queueing up any FITS images. Directories are recursed into.
// A config file replaces the whole config, so it should come first.
func (c *Config)LoadFilesAndDirs(args ...string) (error) {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %w", arg, err)

		case item.IsDir():
			contents, err := ioutil.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %w", arg, err)
			}
			for _, content := range contents {
				if err := c.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %w", arg, err)
				}
			}

		default: // is a file
			if err := c.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %w", arg, err)
			}
		}
	}

	return nil
}

// fitsStem strips the FITS extension off a filename, along with any
// compression suffix (foo.fits.fz, foo.fit.gz), and says whether there
// was one.
func fitsStem(filename string) (string, bool) {
	stem := filepath.Base(filename)
	switch strings.ToLower(filepath.Ext(stem)) {
	case ".gz", ".fz": stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	}
	switch strings.ToLower(filepath.Ext(stem)) {
	case ".fits", ".fit", ".fts": return strings.TrimSuffix(stem, filepath.Ext(stem)), true
	}
	return stem, false
}

func isFITS(filename string) bool {
	_, ok := fitsStem(filename)
	return ok
}

func (c *Config)loadFile(filename string) error {
	switch {
	case strings.ToLower(filepath.Ext(filename)) == ".yaml":
		images := c.Images
		cfg, err := LoadConfig(filename)
		if err != nil {
			return err
		}
		*c = cfg
		c.Images = append(images, c.Images...)
		log.Printf("Loaded base configuration from %s\n", filename)

	case isFITS(filename):
		// The catalog may well be sitting in the same dir
		if abs, _ := filepath.Abs(filename); c.CatalogFile != "" {
			if cat, _ := filepath.Abs(c.CatalogFile); cat == abs {
				return nil
			}
		}
		c.Images = append(c.Images, filename)
	}

	return nil
}

// LoadFrame reads the WCS header of one image, and builds its frame.
// Non-fatal header problems come back as warnings.
func LoadFrame(filename string, hdu int) (ImageFrame, []string, error) {
	h, err := skyproj.LoadHeader(filename, hdu)
	if err != nil {
		return ImageFrame{}, nil, err
	}

	t, err := skyproj.Open(h)
	if err != nil {
		return ImageFrame{}, nil, fmt.Errorf("wcs '%s': %w", filename, err)
	}

	return FrameFromTAN(filepath.Base(filename), t), t.Warnings(), nil
}
