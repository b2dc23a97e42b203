package storage

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/prefab/internal/core/models"
)

// Local tags for values that have no core YAML type.
const (
	tagVec2 = "!vec2"
	tagVec3 = "!vec3"
	tagVec4 = "!vec4"
	tagQuat = "!quat"
	tagBag  = "!bag"
	tagList = "!list"

	tagBool  = "!!bool"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagStr   = "!!str"
)

// EncodeValue returns the YAML node for v.
func EncodeValue(v models.Value) (*yaml.Node, error) {
	switch val := v.(type) {
	case models.Bool:
		return scalar(tagBool, strconv.FormatBool(bool(val))), nil
	case models.Int:
		return scalar(tagInt, strconv.FormatInt(int64(val), 10)), nil
	case models.Float:
		return scalar(tagFloat, formatFloat(float64(val), 64)), nil
	case models.String:
		return scalar(tagStr, string(val)), nil
	case models.Vec2:
		return floats(tagVec2, val[:]), nil
	case models.Vec3:
		return floats(tagVec3, val[:]), nil
	case models.Vec4:
		return floats(tagVec4, val[:]), nil
	case models.Quat:
		return floats(tagQuat, []float32{val.V[0], val.V[1], val.V[2], val.W}), nil
	case models.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagList}
		for i, item := range val {
			c, err := EncodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *models.Bag:
		return EncodeBag(val)
	case nil:
		return nil, fmt.Errorf("nil value")
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

// EncodeBag returns a "!bag" mapping holding the type name and the fields in order.
func EncodeBag(b *models.Bag) (*yaml.Node, error) {
	if b == nil {
		return nil, fmt.Errorf("nil bag")
	}
	fields := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range b.Fields {
		v, err := EncodeValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", b.Type, f.Name, err)
		}
		fields.Content = append(fields.Content, scalar(tagStr, f.Name), v)
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  tagBag,
		Content: []*yaml.Node{
			scalar(tagStr, "type"), scalar(tagStr, b.Type),
			scalar(tagStr, "fields"), fields,
		},
	}, nil
}

// DecodeValue reads a node written by EncodeValue. Untagged scalars resolve
// the usual YAML way, so hand-edited files may write plain numbers and strings.
func DecodeValue(n *yaml.Node) (models.Value, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.SequenceNode:
		switch n.Tag {
		case tagVec2:
			var v models.Vec2
			if err := readFloats(n, v[:]); err != nil {
				return nil, err
			}
			return v, nil
		case tagVec3:
			var v models.Vec3
			if err := readFloats(n, v[:]); err != nil {
				return nil, err
			}
			return v, nil
		case tagVec4:
			var v models.Vec4
			if err := readFloats(n, v[:]); err != nil {
				return nil, err
			}
			return v, nil
		case tagQuat:
			var xyzw [4]float32
			if err := readFloats(n, xyzw[:]); err != nil {
				return nil, err
			}
			q := models.QuatIdent()
			q.V = [3]float32{xyzw[0], xyzw[1], xyzw[2]}
			q.W = xyzw[3]
			return q, nil
		case tagList, "!!seq", "":
			list := make(models.List, 0, len(n.Content))
			for i, c := range n.Content {
				v, err := DecodeValue(c)
				if err != nil {
					return nil, fmt.Errorf("line %d: [%d]: %w", n.Line, i, err)
				}
				list = append(list, v)
			}
			return list, nil
		}
		return nil, fmt.Errorf("line %d: unknown sequence tag %q", n.Line, n.Tag)
	case yaml.MappingNode:
		if n.Tag != tagBag && n.ShortTag() != "!!map" {
			return nil, fmt.Errorf("line %d: unknown mapping tag %q", n.Line, n.Tag)
		}
		return DecodeBag(n)
	}
	return nil, fmt.Errorf("line %d: unexpected node kind %d", n.Line, n.Kind)
}

// DecodeBag reads a "!bag" mapping. Unknown keys are rejected.
func DecodeBag(n *yaml.Node) (*models.Bag, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: bag must be a mapping", n.Line)
	}
	var (
		bag    *models.Bag
		fields *yaml.Node
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], resolveAlias(n.Content[i+1])
		switch key.Value {
		case "type":
			if val.Kind != yaml.ScalarNode || val.Value == "" {
				return nil, fmt.Errorf("line %d: bag type must be a non-empty string", val.Line)
			}
			bag = models.NewBag(val.Value)
		case "fields":
			fields = val
		default:
			return nil, fmt.Errorf("line %d: unknown bag key %q", key.Line, key.Value)
		}
	}
	if bag == nil {
		return nil, fmt.Errorf("line %d: bag without type", n.Line)
	}
	if fields == nil || fields.ShortTag() == "!!null" {
		return bag, nil
	}
	if fields.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s fields must be a mapping", fields.Line, bag.Type)
	}
	for i := 0; i+1 < len(fields.Content); i += 2 {
		name := fields.Content[i].Value
		v, err := DecodeValue(fields.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", bag.Type, name, err)
		}
		bag.Set(name, v)
	}
	return bag, nil
}

func decodeScalar(n *yaml.Node) (models.Value, error) {
	switch n.ShortTag() {
	case tagBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return models.Bool(b), nil
	case tagInt:
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return models.Int(i), nil
	case tagFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return models.Float(f), nil
	case tagStr:
		return models.String(n.Value), nil
	}
	return nil, fmt.Errorf("line %d: unsupported scalar %q (%s)", n.Line, n.Value, n.ShortTag())
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func floats(tag string, vs []float32) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tag, Style: yaml.FlowStyle}
	for _, v := range vs {
		n.Content = append(n.Content, scalar(tagFloat, formatFloat(float64(v), 32)))
	}
	return n
}

func readFloats(n *yaml.Node, dst []float32) error {
	if len(n.Content) != len(dst) {
		return fmt.Errorf("line %d: %s wants %d components, got %d", n.Line, n.Tag, len(dst), len(n.Content))
	}
	for i, c := range n.Content {
		var f float64
		if err := c.Decode(&f); err != nil {
			return fmt.Errorf("line %d: %s component %d: %w", c.Line, n.Tag, i, err)
		}
		dst[i] = float32(f)
	}
	return nil
}

// formatFloat keeps a decimal point on whole numbers so the value reads back
// as a float without an explicit tag.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
