package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/prefab/internal/core/components"
	"github.com/zeusync/prefab/internal/core/library"
	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/observability/log"
	"github.com/zeusync/prefab/internal/core/scene"
	"github.com/zeusync/prefab/internal/core/schema/registry"
)

// ErrSerialization is returned for files that cannot be decoded or encoded.
var ErrSerialization = errors.New("storage: serialization failure")

// Files names the three persisted files.
type Files struct {
	Scene      string `yaml:"scene"`
	Bundles    string `yaml:"bundles"`
	Properties string `yaml:"properties"`
}

func DefaultFiles() Files {
	return Files{
		Scene:      "assets/prefab.scn.yaml",
		Bundles:    "assets/editor_bundles.yaml",
		Properties: "assets/editor_properties.yaml",
	}
}

// Storage loads and saves the scene document and the template library.
type Storage struct {
	backend  Backend
	files    Files
	registry *registry.Registry
	logger   log.Log

	mu      sync.Mutex
	digests map[string]uint64
}

func New(backend Backend, files Files, reg *registry.Registry, logger log.Log) *Storage {
	return &Storage{
		backend:  backend,
		files:    files,
		registry: reg,
		logger:   logger.With(log.String("component", "storage")),
		digests:  make(map[string]uint64),
	}
}

func (s *Storage) Files() Files {
	return s.files
}

// Load reads the three files concurrently. A missing scene file yields an
// empty document and a missing library file yields the built-in templates of
// that file. Any malformed file fails the whole load.
func (s *Storage) Load(ctx context.Context) (*scene.Document, *library.Library, error) {
	start := time.Now()
	var (
		doc     *scene.Document
		bundles map[string][]*models.Bag
		props   map[string]*models.Bag
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, ok, err := s.read(gctx, s.files.Scene)
		if err != nil || !ok {
			doc = scene.NewDocument()
			return err
		}
		if doc, err = DecodeScene(data, s.registry); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSerialization, s.files.Scene, err)
		}
		return nil
	})
	g.Go(func() error {
		data, ok, err := s.read(gctx, s.files.Bundles)
		if err != nil || !ok {
			bundles = components.Bundles()
			return err
		}
		if bundles, err = DecodeBundles(data, s.registry); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSerialization, s.files.Bundles, err)
		}
		return nil
	})
	g.Go(func() error {
		data, ok, err := s.read(gctx, s.files.Properties)
		if err != nil || !ok {
			props = components.Properties()
			return err
		}
		if props, err = DecodeProperties(data, s.registry); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSerialization, s.files.Properties, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	lib := library.New()
	for name, bags := range bundles {
		if err := lib.SetBundle(s.registry, name, bags); err != nil {
			return nil, nil, err
		}
	}
	for name, bag := range props {
		if err := lib.SetProperty(s.registry, name, bag); err != nil {
			return nil, nil, err
		}
	}

	s.logger.Info("files loaded",
		log.Int("entities", doc.Len()),
		log.Int("bundles", len(bundles)),
		log.Int("properties", len(props)),
		log.Duration("took", time.Since(start)))
	return doc, lib, nil
}

// read returns the file contents and false when the file does not exist.
// The digest of whatever was read is recorded.
func (s *Storage) read(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := s.backend.Read(ctx, name)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("file missing, using defaults", log.String("file", name))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: read %s: %w", name, err)
	}
	s.record(name, data)
	return data, true, nil
}

// Save writes the scene, then the bundles, then the properties. Each file is
// replaced on its own; a failure part way leaves the earlier files written and
// the later ones untouched.
func (s *Storage) Save(ctx context.Context, doc *scene.Document, lib *library.Library) error {
	start := time.Now()
	encoded, err := s.encode(doc, lib)
	if err != nil {
		return err
	}
	for _, f := range encoded {
		if err = s.backend.Write(ctx, f.name, f.data); err != nil {
			return fmt.Errorf("storage: write %s: %w", f.name, err)
		}
		s.record(f.name, f.data)
	}
	s.logger.Info("files saved", log.Int("entities", doc.Len()), log.Duration("took", time.Since(start)))
	return nil
}

// Dirty reports whether saving doc and lib would change any file since the
// last load or save.
func (s *Storage) Dirty(doc *scene.Document, lib *library.Library) (bool, error) {
	encoded, err := s.encode(doc, lib)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range encoded {
		d, ok := s.digests[f.name]
		if !ok || d != Digest(f.data) {
			return true, nil
		}
	}
	return false, nil
}

// Digest hashes file contents.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

type encodedFile struct {
	name string
	data []byte
}

func (s *Storage) encode(doc *scene.Document, lib *library.Library) ([]encodedFile, error) {
	sceneData, err := EncodeScene(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSerialization, s.files.Scene, err)
	}
	bundles := make(map[string][]*models.Bag)
	for _, name := range lib.BundleNames() {
		if bundles[name], err = lib.Bundle(name); err != nil {
			return nil, err
		}
	}
	bundleData, err := EncodeBundles(bundles)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSerialization, s.files.Bundles, err)
	}
	props := make(map[string]*models.Bag)
	for _, name := range lib.PropertyNames() {
		if props[name], err = lib.Property(name); err != nil {
			return nil, err
		}
	}
	propData, err := EncodeProperties(props)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSerialization, s.files.Properties, err)
	}
	return []encodedFile{
		{name: s.files.Scene, data: sceneData},
		{name: s.files.Bundles, data: bundleData},
		{name: s.files.Properties, data: propData},
	}, nil
}

func (s *Storage) record(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.digests[name] = Digest(data)
}
