package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertSameBagTwice(t *testing.T) {
	b := NewBag("Light").With("fov", Float(1.2)).With("color", Vec4{1, 1, 1, 1})
	s := NewStore()

	require.NoError(t, s.Insert(b.Clone()))
	require.NoError(t, s.Insert(b.Clone()))

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Get("Light").Equal(b))
}

func TestStore_PatchKeepsAbsentFields(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(NewBag("T").With("a", Int(1)).With("b", Int(2))))
	require.NoError(t, s.Insert(NewBag("T").With("a", Int(9))))

	got := s.Get("T")
	require.NotNil(t, got)
	a, _ := got.Get("a")
	b, _ := got.Get("b")
	assert.Equal(t, Int(9), a)
	assert.Equal(t, Int(2), b)
	assert.Equal(t, []string{"a", "b"}, fieldNames(got))
}

func TestStore_AtMostOnePerType(t *testing.T) {
	s := NewStore()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Insert(NewBag("Draw").With("visible", Bool(i%2 == 0))))
		require.NoError(t, s.Insert(NewBag("MainPass")))
	}
	assert.Equal(t, 2, s.Len())
	v, _ := s.Get("Draw").Get("visible")
	assert.Equal(t, Bool(false), v)
}

func TestStore_InsertManyIsCumulative(t *testing.T) {
	s := NewStore()
	err := s.InsertMany([]*Bag{
		NewBag("T").With("a", Int(1)),
		NewBag("U").With("x", String("u")),
		NewBag("T").With("b", Int(2)),
		NewBag("T").With("a", Int(3)),
	})
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "T", s.Bags()[0].Type)
	assert.Equal(t, "U", s.Bags()[1].Type)
	assert.True(t, s.Get("T").Equal(NewBag("T").With("a", Int(3)).With("b", Int(2))))
}

func TestStore_TransformPatchOverwritesTranslation(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(NewBag("Transform").With("translation", Vec3{0, 0, 0})))
	require.NoError(t, s.Insert(NewBag("Transform").With("translation", Vec3{1, 2, 3})))

	require.Equal(t, 1, s.Len())
	v, ok := s.Get("Transform").Get("translation")
	require.True(t, ok)
	assert.Equal(t, Vec3{1, 2, 3}, v)
}

func TestBag_ApplyTypeMismatch(t *testing.T) {
	err := NewBag("A").Apply(NewBag("B"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBag_ApplyReplacesNestedBagWhole(t *testing.T) {
	target := NewBag("Outer").With("inner", NewBag("Inner").With("x", Int(1)).With("y", Int(2)))
	src := NewBag("Outer").With("inner", NewBag("Inner").With("x", Int(5)))

	require.NoError(t, target.Apply(src))

	inner := Read(target).Bag("inner", nil)
	require.NotNil(t, inner)
	assert.Equal(t, 1, inner.Len())
	_, hasY := inner.Get("y")
	assert.False(t, hasY)
}

func TestBag_ApplyDoesNotAliasSource(t *testing.T) {
	list := List{Int(1), NewBag("Inner").With("x", Int(1))}
	target := NewBag("Outer")
	src := NewBag("Outer").With("items", list)
	require.NoError(t, target.Apply(src))

	list[1].(*Bag).Set("x", Int(100))

	got := Read(target).List("items", nil)
	require.Len(t, got, 2)
	x, _ := got[1].(*Bag).Get("x")
	assert.Equal(t, Int(1), x)
}

func TestStore_CloneIsDeep(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(NewBag("T").With("a", Int(1))))
	c := s.Clone()
	c.Get("T").Set("a", Int(2))

	a, _ := s.Get("T").Get("a")
	assert.Equal(t, Int(1), a)
	assert.False(t, s.Equal(c))
}

func TestFieldReader(t *testing.T) {
	b := NewBag("Light").
		With("fov", Int(2)).
		With("name", String("sun")).
		With("color", Vec3{1, 2, 3})

	r := Read(b)
	assert.Equal(t, 2.0, r.Float("fov", 0))
	assert.Equal(t, "sun", r.String("name", ""))
	assert.Equal(t, true, r.Bool("missing", true))
	assert.NoError(t, r.Err())

	assert.Equal(t, Vec4{}, r.Vec4("color", Vec4{}))
	assert.ErrorIs(t, r.Err(), ErrFieldKind)
}

func TestEqualValues(t *testing.T) {
	assert.True(t, EqualValues(List{Int(1), String("a")}, List{Int(1), String("a")}))
	assert.False(t, EqualValues(List{Int(1)}, List{Float(1)}))
	assert.True(t, EqualValues(QuatIdent(), QuatIdent()))
	assert.False(t, EqualValues(nil, Int(0)))
}

func TestBag_ValidateText(t *testing.T) {
	ok := NewBag("Mesh").
		With("path", String("models/çube.gltf")).
		With("tags", List{String("a"), NewBag("Inner").With("name", String("b"))})
	assert.NoError(t, ok.Validate())

	cases := map[string]*Bag{
		"value":       NewBag("Mesh").With("path", String("a\xffb")),
		"field name":  NewBag("Mesh").With("pa\xffth", String("ok")),
		"type":        NewBag("Me\xffsh"),
		"list":        NewBag("Mesh").With("tags", List{String("ok"), String("\xfe")}),
		"nested bag":  NewBag("Mesh").With("inner", NewBag("Inner").With("name", String("\xff"))),
		"bag in list": NewBag("Mesh").With("tags", List{NewBag("Inner").With("name", String("\xff"))}),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, b.Validate(), ErrInvalidText)
		})
	}
}

func fieldNames(b *Bag) []string {
	names := make([]string, 0, b.Len())
	for _, f := range b.Fields {
		names = append(names, f.Name)
	}
	return names
}
