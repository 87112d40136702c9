package inference

import (
	"strconv"

	"github.com/YuminosukeSato/mantar/catalog"
	"github.com/YuminosukeSato/mantar/pkg/errors"
	"github.com/YuminosukeSato/mantar/preprocessing"
)

// Option is one selectable category of a feature.
type Option struct {
	Code  int
	Raw   string
	Label string
}

// Encoding ties the two feature columns to the encoders fitted on the
// dataset. Options and labels come from the encoders' classes, so every
// offered code is one the encoder knows.
type Encoding struct {
	GillSize  *preprocessing.LabelEncoder
	GillColor *preprocessing.LabelEncoder
}

// NewEncoding picks the feature encoders out of a fitted table encoder.
func NewEncoding(enc *preprocessing.TableEncoder) (*Encoding, error) {
	size, ok := enc.Encoder(catalog.GillSize)
	if !ok {
		return nil, errors.NewValidationError("columns", "dataset has no column", catalog.GillSize)
	}
	color, ok := enc.Encoder(catalog.GillColor)
	if !ok {
		return nil, errors.NewValidationError("columns", "dataset has no column", catalog.GillColor)
	}
	return &Encoding{GillSize: size, GillColor: color}, nil
}

// Options lists the selectable categories of a feature column in code order.
func (e *Encoding) Options(column string) []Option {
	le := e.encoder(column)
	if le == nil {
		return nil
	}
	classes := le.Classes()
	out := make([]Option, len(classes))
	for code, raw := range classes {
		out[code] = Option{Code: code, Raw: raw, Label: catalog.Label(column, raw)}
	}
	return out
}

// Validate checks that both codes belong to the encoders' code spaces.
func (e *Encoding) Validate(sel Selection) error {
	if _, ok := e.GillSize.Value(sel.GillSize); !ok {
		return errors.NewUnknownCategoryError(catalog.GillSize, sel.GillSize)
	}
	if _, ok := e.GillColor.Value(sel.GillColor); !ok {
		return errors.NewUnknownCategoryError(catalog.GillColor, sel.GillColor)
	}
	return nil
}

// Resolve builds a Selection from user input. Each value may be a raw
// dataset letter ("n", "w") or an integer code.
func (e *Encoding) Resolve(gillSize, gillColor string) (Selection, error) {
	size, err := resolve(e.GillSize, catalog.GillSize, gillSize)
	if err != nil {
		return Selection{}, err
	}
	color, err := resolve(e.GillColor, catalog.GillColor, gillColor)
	if err != nil {
		return Selection{}, err
	}
	return Selection{GillSize: size, GillColor: color}, nil
}

func resolve(le *preprocessing.LabelEncoder, column, input string) (int, error) {
	if code, ok := le.Code(input); ok {
		return code, nil
	}
	if code, err := strconv.Atoi(input); err == nil {
		if _, ok := le.Value(code); ok {
			return code, nil
		}
	}
	return 0, errors.NewUnknownCategoryError(column, input)
}

// Labels returns the display labels of a valid selection.
func (e *Encoding) Labels(sel Selection) (gillSize, gillColor string) {
	rawSize, _ := e.GillSize.Value(sel.GillSize)
	rawColor, _ := e.GillColor.Value(sel.GillColor)
	return catalog.Label(catalog.GillSize, rawSize), catalog.Label(catalog.GillColor, rawColor)
}

func (e *Encoding) encoder(column string) *preprocessing.LabelEncoder {
	switch column {
	case catalog.GillSize:
		return e.GillSize
	case catalog.GillColor:
		return e.GillColor
	}
	return nil
}
