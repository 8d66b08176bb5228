// Package catalog holds the question banks compiled into the binary.
package catalog

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"trivia-quiz/internal/domain"
)

// DefaultID is the catalog played when none is requested.
const DefaultID = "classic"

//go:embed data/*.yaml
var embedded embed.FS

// Parse decodes and validates a single YAML catalog document.
func Parse(source string, data []byte) (domain.Catalog, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse catalog %s: %w", source, err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return domain.Catalog{}, fmt.Errorf("parse catalog %s: multiple documents are not supported", source)
		}
		return domain.Catalog{}, fmt.Errorf("parse catalog %s: %w", source, err)
	}
	return Normalize(source, file)
}

// EmbeddedLoader serves the catalogs under data/. It parses every file once.
type EmbeddedLoader struct {
	once     sync.Once
	catalogs map[string]domain.Catalog
	err      error
}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (l *EmbeddedLoader) load() {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		l.err = fmt.Errorf("read embedded catalogs: %w", err)
		return
	}
	l.catalogs = make(map[string]domain.Catalog, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := path.Join("data", entry.Name())
		data, err := embedded.ReadFile(name)
		if err != nil {
			l.err = fmt.Errorf("read %s: %w", name, err)
			return
		}
		cat, err := Parse(name, data)
		if err != nil {
			l.err = err
			return
		}
		l.catalogs[cat.ID] = cat
	}
}

// LoadCatalog returns the embedded catalog with the given id.
func (l *EmbeddedLoader) LoadCatalog(_ context.Context, id string) (domain.Catalog, error) {
	l.once.Do(l.load)
	if l.err != nil {
		return domain.Catalog{}, l.err
	}
	cat, ok := l.catalogs[id]
	if !ok {
		return domain.Catalog{}, fmt.Errorf("%w: %q", domain.ErrCatalogNotFound, id)
	}
	return cat, nil
}

// IDs lists the embedded catalog ids in sorted order.
func (l *EmbeddedLoader) IDs() ([]string, error) {
	l.once.Do(l.load)
	if l.err != nil {
		return nil, l.err
	}
	ids := make([]string, 0, len(l.catalogs))
	for id := range l.catalogs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
