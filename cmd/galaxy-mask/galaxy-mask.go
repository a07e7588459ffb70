package main

import(
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abworrall/galaxy-mask/pkg/catalog"
	"github.com/abworrall/galaxy-mask/pkg/galmask"
)

var(
	fVerbosity int
	fCatalogFile string
	fCatalogFormat string
	fHDU int
	fOutputDir string
	fOutputFormat string
	fDebugOverlay bool
	fWorkers int
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fCatalogFile, "catalog", "", "FITS galaxy catalog (required, here or in the config yaml)")
	flag.StringVar(&fCatalogFormat, "format", "leda", "catalog flavour: "+catalog.ListFormats())
	flag.IntVar(&fHDU, "hdu", 0, "which HDU of each image holds the WCS header")
	flag.StringVar(&fOutputDir, "outdir", "", "where to write masks (default: next to each image)")
	flag.StringVar(&fOutputFormat, "out", "png", "mask file format: png, tiff")
	flag.BoolVar(&fDebugOverlay, "overlay", false, "also write a PNG with the galaxy ellipses drawn on the mask")
	flag.IntVar(&fWorkers, "workers", 4, "how many images to mask at once")
	flag.Parse()

	log.Printf("galaxy-mask starting\n")
}

// Flags only override the config file if they were given
func applyFlags(cfg *galmask.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":       cfg.Verbosity = fVerbosity
		case "catalog": cfg.CatalogFile = fCatalogFile
		case "format":  cfg.CatalogFormat = fCatalogFormat
		case "hdu":     cfg.HDU = fHDU
		case "outdir":  cfg.OutputDir = fOutputDir
		case "out":     cfg.OutputFormat = fOutputFormat
		case "overlay": cfg.DebugOverlay = fDebugOverlay
		case "workers": cfg.Workers = fWorkers
		}
	})
}

func main() {
	cfg := galmask.NewConfig()
	applyFlags(&cfg) // so a catalog sitting among the images gets recognised
	if err := cfg.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}
	applyFlags(&cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("bad configuration: %v", err)
	}
	if len(cfg.Images) == 0 {
		log.Fatal("no FITS images given")
	}
	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			log.Fatal(err)
		}
	}

	nFailed := 0
	for _, job := range cfg.MaskFrames(galmask.JobsFromFiles(cfg.Images), cat) {
		if job.Err != nil {
			log.Printf("%s: %v\n", job.Filename, job.Err)
			nFailed++
			continue
		}

		if cfg.Verbosity > 0 {
			log.Print(job.Report)
		}

		filename := galmask.MaskFilename(job.Filename, cfg.OutputDir, cfg.OutputFormat)
		if err := galmask.WriteMask(job.Mask, filename); err != nil {
			log.Printf("%s: %v\n", job.Filename, err)
			nFailed++
			continue
		}

		if cfg.DebugOverlay {
			overlay := strings.TrimSuffix(filename, filepath.Ext(filename)) + "-overlay.png"
			if err := galmask.WriteOverlay(job.Mask, job.Report, overlay); err != nil {
				log.Printf("%s: %v\n", job.Filename, err)
			}
		}

		log.Printf("%s: %d galaxies, %d pixels -> %s\n", job.Frame.Name, job.Report.Masked, job.Report.MaskedPixels, filename)
	}

	if nFailed > 0 {
		log.Fatalf("%d of %d images failed", nFailed, len(cfg.Images))
	}
}
