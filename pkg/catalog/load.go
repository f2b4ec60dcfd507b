package catalog

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"sync"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/fixturefit/pkg/errors"
)

//go:embed default.toml
var defaultTOML []byte

// file is the on-disk TOML layout: a list of [[fixture]] tables.
type file struct {
	Fixtures []ObjectType `toml:"fixture"`
}

// Parse decodes a TOML catalog.
func Parse(r io.Reader) (*Catalog, error) {
	var f file
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidCatalog, err, "decode catalog")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidCatalog, "unknown catalog key %q", undecoded[0].String())
	}
	if len(f.Fixtures) == 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidCatalog, "catalog defines no fixtures")
	}
	return New(f.Fixtures)
}

// Load reads a TOML catalog from path.
func Load(path string) (*Catalog, error) {
	fh, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "catalog %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded file is
// invalid, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(bytes.NewReader(defaultTOML))
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
