package web

import (
	"bytes"
	"fmt"

	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/chart"
	"github.com/YuminosukeSato/mantar/inference"
	"github.com/YuminosukeSato/mantar/pkg/log"
	"github.com/gofiber/fiber/v2"
)

const (
	pageTitle = "Mantar Sınıflandırıcı"
	chartKey  = "class-distribution"
)

// FAQ entries shown under the results.
var faq = []faqEntry{
	{"Mantar nasıl sınıflandırılır?", "Mantarlar, fiziksel özelliklerine göre sınıflandırılır."},
	{"Zehirli mantarları nasıl tanıyabilirim?", "Belirli özellikler, zehirli türlerin tanımlanmasında yardımcı olabilir."},
	{"Yenilebilir mantarlar nelerdir?", "Kullanıcı, belirli özellikleri girerek bu mantarları öğrenebilir."},
}

type faqEntry struct {
	Question string
	Answer   string
}

type header struct {
	Raw   string
	Label string
}

type sampleRow struct {
	Index int
	Codes []int
}

type sampleTable struct {
	Headers []header
	Rows    []sampleRow
}

type resultView struct {
	GillSize  string
	GillColor string
	Label     string
	Edible    string
	Poisonous string
	Image     string
	Caption   string
}

type pageData struct {
	PageTitle    string
	SizeLabel    string
	ColorLabel   string
	SizeOptions  []inference.Option
	ColorOptions []inference.Option
	Selected     inference.Selection
	Sample       sampleTable
	Result       *resultView
	FAQ          []faqEntry
}

type pageController struct {
	s *Server
}

func newPageController(s *Server) *pageController {
	return &pageController{s: s}
}

func (pc *pageController) RegisterRoutes(r fiber.Router) {
	r.Get("/", pc.Index)
	r.Post("/feedback", pc.Feedback)
	r.Get("/chart/class-distribution.png", pc.Chart)
	r.Get("/healthz", pc.Health)
}

// Index renders the page. The pipeline only runs when the submit flag is set.
func (pc *pageController) Index(ctx *fiber.Ctx) error {
	d := pc.s.demo

	sel, err := pc.selection(ctx)
	if err != nil {
		return err
	}

	data := pageData{
		PageTitle:    pageTitle,
		SizeLabel:    catalog.ColumnLabel(catalog.GillSize),
		ColorLabel:   catalog.ColumnLabel(catalog.GillColor),
		SizeOptions:  d.Encoding.Options(catalog.GillSize),
		ColorOptions: d.Encoding.Options(catalog.GillColor),
		Selected:     sel,
		Sample:       pc.sampleTable(),
	}

	if ctx.Query("submit") != "" {
		pred, err := d.Pipeline.Predict(sel)
		if err != nil {
			return err
		}
		data.Result = newResultView(d.Encoding, sel, pred)
		data.FAQ = faq
	}

	return pc.render(ctx, "index.html", data)
}

// Feedback thanks the user. The text is not stored anywhere.
func (pc *pageController) Feedback(ctx *fiber.Ctx) error {
	text := ctx.FormValue("feedback")
	pc.s.logger.Info("feedback received",
		"length", len([]rune(text)),
		log.RequestIDKey, requestID(ctx),
	)
	return pc.render(ctx, "feedback.html", pageData{PageTitle: pageTitle})
}

// Chart serves the class distribution bar chart as PNG.
func (pc *pageController) Chart(ctx *fiber.Ctx) error {
	counts, err := pc.s.demo.ClassCounts()
	if err != nil {
		return err
	}
	img, err := pc.s.charts.PNG(chartKey, chart.ClassDistribution(counts))
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, "image/png")
	ctx.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", int(pc.s.chartTTL.Seconds())))
	return ctx.Send(img)
}

func (pc *pageController) Health(ctx *fiber.Ctx) error {
	return ctx.SendString("ok")
}

// selection reads gill_size and gill_color from the query string. Missing
// values select the first code.
func (pc *pageController) selection(ctx *fiber.Ctx) (inference.Selection, error) {
	size := ctx.Query("gill_size", "0")
	color := ctx.Query("gill_color", "0")
	return pc.s.demo.Encoding.Resolve(size, color)
}

func (pc *pageController) sampleTable() sampleTable {
	d := pc.s.demo
	t := sampleTable{Headers: make([]header, len(d.Table.Header))}
	for i, h := range d.Table.Header {
		t.Headers[i] = header{Raw: h, Label: catalog.ColumnLabel(h)}
	}

	_, cols := d.Encoded.Dims()
	for _, i := range pc.s.sample(pc.s.sampleRows) {
		row := sampleRow{Index: i, Codes: make([]int, cols)}
		for j := range row.Codes {
			row.Codes[j] = int(d.Encoded.At(i, j))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func newResultView(enc *inference.Encoding, sel inference.Selection, pred inference.Prediction) *resultView {
	size, color := enc.Labels(sel)
	v := &resultView{
		GillSize:  size,
		GillColor: color,
		Label:     pred.Label,
		Edible:    fmt.Sprintf("%.2f", pred.Edible()),
		Poisonous: fmt.Sprintf("%.2f", pred.Poisonous()),
	}
	if pred.Class == inference.ClassPoisonous {
		v.Image, v.Caption = "/static/zehir.svg", "Zehirli Mantar"
	} else {
		v.Image, v.Caption = "/static/ye.svg", "Yenilebilir Mantar"
	}
	return v
}

func (pc *pageController) render(ctx *fiber.Ctx, name string, data pageData) error {
	var buf bytes.Buffer
	if err := pc.s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	ctx.Type("html", "utf-8")
	return ctx.Send(buf.Bytes())
}
