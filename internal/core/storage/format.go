package storage

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/prefab/internal/core/models"
	"github.com/zeusync/prefab/internal/core/scene"
	"github.com/zeusync/prefab/internal/core/schema/registry"
)

type sceneFile struct {
	Entities []entityRecord `yaml:"entities"`
}

type entityRecord struct {
	Entity     uint32       `yaml:"entity"`
	Components []*yaml.Node `yaml:"components"`
}

// EncodeScene writes doc in document order.
func EncodeScene(doc *scene.Document) ([]byte, error) {
	out := sceneFile{Entities: make([]entityRecord, 0, doc.Len())}
	for _, ent := range doc.Entities() {
		rec := entityRecord{Entity: uint32(ent.ID)}
		for _, b := range ent.Store.Bags() {
			n, err := EncodeBag(b)
			if err != nil {
				return nil, fmt.Errorf("entity %d: %w", ent.ID, err)
			}
			rec.Components = append(rec.Components, n)
		}
		out.Entities = append(out.Entities, rec)
	}
	return marshal(&out)
}

// DecodeScene reads a scene file. Every component type must be registered.
func DecodeScene(data []byte, reg *registry.Registry) (*scene.Document, error) {
	var in sceneFile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	doc := scene.NewDocument()
	for _, rec := range in.Entities {
		bags, err := decodeComponents(rec.Components, reg)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", rec.Entity, err)
		}
		store := models.NewStore()
		if err = store.InsertMany(bags); err != nil {
			return nil, fmt.Errorf("entity %d: %w", rec.Entity, err)
		}
		if _, err = doc.Add(models.EntityID(rec.Entity), store); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// EncodeBundles writes name -> bags with names sorted.
func EncodeBundles(bundles map[string][]*models.Bag) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range sortedNames(bundles) {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, b := range bundles[name] {
			n, err := EncodeBag(b)
			if err != nil {
				return nil, fmt.Errorf("bundle %q: %w", name, err)
			}
			seq.Content = append(seq.Content, n)
		}
		root.Content = append(root.Content, scalar(tagStr, name), seq)
	}
	return marshal(root)
}

func DecodeBundles(data []byte, reg *registry.Registry) (map[string][]*models.Bag, error) {
	var raw map[string][]*yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string][]*models.Bag, len(raw))
	for name, nodes := range raw {
		bags, err := decodeComponents(nodes, reg)
		if err != nil {
			return nil, fmt.Errorf("bundle %q: %w", name, err)
		}
		out[name] = bags
	}
	return out, nil
}

// EncodeProperties writes name -> bag with names sorted.
func EncodeProperties(props map[string]*models.Bag) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range sortedNames(props) {
		n, err := EncodeBag(props[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		root.Content = append(root.Content, scalar(tagStr, name), n)
	}
	return marshal(root)
}

func DecodeProperties(data []byte, reg *registry.Registry) (map[string]*models.Bag, error) {
	var raw map[string]*yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]*models.Bag, len(raw))
	for name, n := range raw {
		bags, err := decodeComponents([]*yaml.Node{n}, reg)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = bags[0]
	}
	return out, nil
}

// decodeComponents decodes top-level bags and checks their types. Nested bags
// are not looked up.
func decodeComponents(nodes []*yaml.Node, reg *registry.Registry) ([]*models.Bag, error) {
	bags := make([]*models.Bag, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("empty component")
		}
		b, err := DecodeBag(n)
		if err != nil {
			return nil, err
		}
		if err = reg.Validate(b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		bags = append(bags, b)
	}
	return bags, nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
