// Package chart draws the class distribution bar chart of the demo with
// gonum/plot and keeps rendered images in an in-memory cache.
package chart

import (
	"bytes"
	"image/color"
	"time"

	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/dataset"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/patrickmn/go-cache"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart texts.
const (
	Title  = "Mantar Türlerine Göre Dağılım"
	XLabel = "Mantar Türü"
	YLabel = "Sayısı"
)

var (
	Red   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	Green = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	Gray  = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}
)

// Bar is one column of the chart.
type Bar struct {
	Label string
	Count int
	Color color.Color
}

// ClassDistribution turns class value counts into bars: poisonous red,
// edible green, anything else gray.
func ClassDistribution(counts []dataset.ValueCount) []Bar {
	bars := make([]Bar, len(counts))
	for i, c := range counts {
		col := Gray
		switch c.Value {
		case "p":
			col = Red
		case "e":
			col = Green
		}
		bars[i] = Bar{
			Label: catalog.Label(catalog.Class, c.Value),
			Count: c.Count,
			Color: col,
		}
	}
	return bars
}

// Size of the rendered image.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultSize fits the results column of the page.
var DefaultSize = Size{Width: 6 * vg.Inch, Height: 4 * vg.Inch}

// RenderPNG draws bars and returns the PNG bytes.
func RenderPNG(bars []Bar, size Size) ([]byte, error) {
	if len(bars) == 0 {
		return nil, errors.NewValueError("chart.RenderPNG", "no bars")
	}

	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.Y.Min = 0

	width := size.Width / vg.Length(len(bars)+1)
	names := make([]string, len(bars))
	for i, b := range bars {
		bc, err := plotter.NewBarChart(plotter.Values{float64(b.Count)}, width)
		if err != nil {
			return nil, errors.Wrapf(err, "bar %q", b.Label)
		}
		bc.XMin = float64(i)
		bc.Color = b.Color
		bc.LineStyle.Width = 0
		p.Add(bc)
		names[i] = b.Label
	}
	p.NominalX(names...)

	wt, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return nil, errors.Wrap(err, "create png writer")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "render png")
	}
	return buf.Bytes(), nil
}

// Renderer caches rendered charts by key. The dataset never changes while
// the process runs, so a chart is drawn once per expiration window.
type Renderer struct {
	cache *cache.Cache
	size  Size
}

// NewRenderer creates a Renderer whose entries live for ttl.
func NewRenderer(ttl time.Duration, size Size) *Renderer {
	return &Renderer{
		cache: cache.New(ttl, 2*ttl),
		size:  size,
	}
}

// PNG returns the cached image for key, drawing it from bars on a miss.
func (r *Renderer) PNG(key string, bars []Bar) ([]byte, error) {
	if x, found := r.cache.Get(key); found {
		return x.([]byte), nil
	}
	img, err := RenderPNG(bars, r.size)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, img, cache.DefaultExpiration)
	return img, nil
}

// Cached reports whether key is currently held.
func (r *Renderer) Cached(key string) bool {
	_, found := r.cache.Get(key)
	return found
}
