package models

// Store is the ordered set of bags owned by one entity. It holds at most one
// bag per type name; inserting a duplicate type patches the existing bag.
//
// Lookups scan linearly. Entities carry a handful of bags, so no index is kept.
type Store struct {
	bags []*Bag
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Insert adds bag, or applies it onto the existing bag of the same type.
// The incoming bag is never retained when a patch happens.
func (s *Store) Insert(bag *Bag) error {
	if existing := s.Get(bag.Type); existing != nil {
		return existing.Apply(bag)
	}
	s.bags = append(s.bags, bag)
	return nil
}

// InsertMany inserts bags in order; later bags of a repeated type patch earlier ones.
func (s *Store) InsertMany(bags []*Bag) error {
	for _, b := range bags {
		if err := s.Insert(b); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the bag of the given type, or nil.
func (s *Store) Get(typeName string) *Bag {
	for _, b := range s.bags {
		if b.Type == typeName {
			return b
		}
	}
	return nil
}

// Bags returns the bags in first-seen order. The slice is shared; do not modify it.
func (s *Store) Bags() []*Bag {
	return s.bags
}

// Len returns the number of bags.
func (s *Store) Len() int {
	return len(s.bags)
}

// Clone deep-copies the store.
func (s *Store) Clone() *Store {
	return &Store{bags: CloneBags(s.bags)}
}

// Equal reports whether both stores hold equal bags in the same order.
func (s *Store) Equal(other *Store) bool {
	if len(s.bags) != len(other.bags) {
		return false
	}
	for i := range s.bags {
		if !s.bags[i].Equal(other.bags[i]) {
			return false
		}
	}
	return true
}
