package isncsci

import (
	"fmt"
	"sort"
	"strings"
)

// LevelSet is an ordered set of candidate levels. Members keep their insertion
// order and are unique by name. The most rostral and most caudal members are
// tracked as they are added.
type LevelSet struct {
	ordinals     []int
	rostral      int
	caudal       int
	excludesS4_5 bool
	initialized  bool
}

func newLevelSet() LevelSet {
	return LevelSet{rostral: -1, caudal: -1, initialized: true}
}

// LevelSetOf builds a set from level names, in the given order
func LevelSetOf(names ...string) (LevelSet, error) {
	s := newLevelSet()
	for _, name := range names {
		o, ok := OrdinalOf(name)
		if !ok {
			return LevelSet{}, fmt.Errorf("%w %q", ErrUnknownLevel, name)
		}
		s.add(o)
	}
	return s, nil
}

// zone of partial preservation sets never hold S4_5
func newZPPSet() LevelSet {
	s := newLevelSet()
	s.excludesS4_5 = true
	return s
}

func (s *LevelSet) add(ordinal int) {
	if !s.initialized {
		*s = newLevelSet()
	}
	if ordinal < 0 || ordinal >= LevelCount {
		return
	}
	if s.excludesS4_5 && ordinal == ordinalS4_5 {
		return
	}
	if s.containsOrdinal(ordinal) {
		return
	}

	s.ordinals = append(s.ordinals, ordinal)

	if s.rostral < 0 || ordinal < s.rostral {
		s.rostral = ordinal
	}
	if s.caudal < 0 || ordinal > s.caudal {
		s.caudal = ordinal
	}
}

func (s *LevelSet) containsOrdinal(ordinal int) bool {
	for _, o := range s.ordinals {
		if o == ordinal {
			return true
		}
	}
	return false
}

// Contains reports whether the named level is a member. Case-insensitive.
func (s LevelSet) Contains(name string) bool {
	for _, o := range s.ordinals {
		if strings.EqualFold(NameOf(o), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Len returns the number of members
func (s LevelSet) Len() int {
	return len(s.ordinals)
}

// Names returns the member names in insertion order
func (s LevelSet) Names() []string {
	names := make([]string, len(s.ordinals))
	for i, o := range s.ordinals {
		names[i] = NameOf(o)
	}
	return names
}

// SortedNames returns the member names ordered rostral to caudal
func (s LevelSet) SortedNames() []string {
	ordinals := s.Ordinals()
	sort.Ints(ordinals)
	names := make([]string, len(ordinals))
	for i, o := range ordinals {
		names[i] = NameOf(o)
	}
	return names
}

// Ordinals returns the member ordinals in insertion order
func (s LevelSet) Ordinals() []int {
	out := make([]int, len(s.ordinals))
	copy(out, s.ordinals)
	return out
}

// MostRostral returns the member with the smallest ordinal
func (s LevelSet) MostRostral() (string, int, bool) {
	if len(s.ordinals) == 0 {
		return "", -1, false
	}
	return NameOf(s.rostral), s.rostral, true
}

// MostCaudal returns the member with the largest ordinal
func (s LevelSet) MostCaudal() (string, int, bool) {
	if len(s.ordinals) == 0 {
		return "", -1, false
	}
	return NameOf(s.caudal), s.caudal, true
}

func (s LevelSet) clone() LevelSet {
	c := s
	c.ordinals = s.Ordinals()
	return c
}
