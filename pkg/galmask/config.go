package galmask

import(
	"fmt"
	"io/ioutil"
	"log"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/galaxy-mask/pkg/catalog"
)

type Config struct {
	Verbosity     int

	CatalogFile   string   // required; there is no default catalog
	CatalogFormat string   // see catalog.ListFormats()
	HDU           int      // which HDU of each image holds the WCS header

	OutputDir     string   // blank means next to each image
	OutputFormat  string   // png, tiff
	DebugOverlay  bool     // also write a PNG with each galaxy's ellipse drawn on it

	Workers       int

	Images        []string `yaml:",omitempty"` // filled in from the command line
}

func NewConfig() Config {
	return Config{
		CatalogFormat: "leda",
		OutputFormat:  "png",
		Workers:       4,
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func LoadConfig(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %w", filename, err)
	}

	c, err := newConfigFromYaml(contents)
	if err != nil {
		return c, fmt.Errorf("config parse %s: %w", filename, err)
	}
	return c, nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func (c Config)Options() Options {
	return Options{Verbosity: c.Verbosity}
}

func (c Config)Validate() error {
	if c.CatalogFile == "" {
		return fmt.Errorf("no catalog file given")
	}
	if _, err := catalog.GetFormat(c.CatalogFormat); err != nil {
		return err
	}
	switch strings.ToLower(c.OutputFormat) {
	case "png", "tiff":
	default:
		return fmt.Errorf("output format '%s' not one of png, tiff", c.OutputFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("need at least one worker, not %d", c.Workers)
	}
	if c.HDU < 0 {
		return fmt.Errorf("bad HDU %d", c.HDU)
	}
	return nil
}

// LoadCatalog reads the configured catalog file, applying the sentinel
// conventions if its format uses them.
func (c Config)LoadCatalog() (catalog.Catalog, error) {
	f, err := catalog.GetFormat(c.CatalogFormat)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(c.CatalogFile, f)
	if err != nil {
		return nil, err
	}

	if c.Verbosity > 0 {
		log.Printf("Loaded %d galaxies from %s (%s)\n", len(cat), c.CatalogFile, f.Name)
	}
	return cat, nil
}
