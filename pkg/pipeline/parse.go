package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
)

// requestFile is the on-disk form of a layout request. Search settings are
// optional; flags given on the command line take precedence.
type requestFile struct {
	Room     geometry.Room      `toml:"room" json:"room"`
	Openings []geometry.Opening `toml:"opening" json:"openings"`
	Fixtures []string           `toml:"fixtures" json:"fixtures"`

	Strategy string             `toml:"strategy" json:"strategy"`
	Seed     uint64             `toml:"seed" json:"seed"`
	Extended bool               `toml:"extended" json:"extended"`
	Weights  map[string]float64 `toml:"weights" json:"weights"`
}

// ParseRequest decodes a request in TOML, or in JSON when asJSON is set,
// into pipeline options.
//
// A TOML request looks like:
//
//	fixtures = ["toilet", "sink"]
//
//	[room]
//	width = 200
//	depth = 200
//	height = 250
//
//	[[opening]]
//	id = "door1"
//	kind = "door"
//	wall = "left"
//	x = 20
//	width = 80
func ParseRequest(r io.Reader, asJSON bool) (Options, error) {
	var f requestFile
	if asJSON {
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return Options{}, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode request")
		}
	} else {
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return Options{}, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode request")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Options{}, ferrors.New(ferrors.ErrCodeInvalidInput, "unknown request key %q", undecoded[0].String())
		}
	}
	return Options{
		Room:     f.Room,
		Openings: f.Openings,
		Fixtures: f.Fixtures,
		Strategy: f.Strategy,
		Seed:     f.Seed,
		Extended: f.Extended,
		Weights:  f.Weights,
	}, nil
}

// LoadRequest reads a request file. Files ending in .json are decoded as
// JSON, everything else as TOML.
func LoadRequest(path string) (Options, error) {
	data, err := readFile(path)
	if err != nil {
		return Options{}, err
	}
	return ParseRequest(bytes.NewReader(data), isJSON(path))
}

// layoutDoc accepts both a bare layout and a saved search result, whose
// best candidate carries the layout.
type layoutDoc struct {
	layout.Layout
	Best *struct {
		Layout layout.Layout `json:"layout"`
	} `json:"best"`
}

// ParseLayout decodes a JSON layout, or the best layout of a JSON search
// result as written by `fixturefit generate --output`.
func ParseLayout(r io.Reader) (layout.Layout, error) {
	var doc layoutDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return layout.Layout{}, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode layout")
	}
	l := doc.Layout
	if doc.Best != nil {
		l = doc.Best.Layout
	}
	if err := l.Validate(); err != nil {
		return layout.Layout{}, err
	}
	return l, nil
}

// LoadLayout reads a JSON layout file.
func LoadLayout(path string) (layout.Layout, error) {
	data, err := readFile(path)
	if err != nil {
		return layout.Layout{}, err
	}
	return ParseLayout(bytes.NewReader(data))
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "%s", path)
	}
	return data, err
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
