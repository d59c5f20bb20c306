package value

import (
	"fmt"
	"sort"
	"strings"
)

// Tuple is a fixed-arity heterogeneous sequence (spec.md section 3).
type Tuple struct {
	Elems []Value
}

func (t Tuple) Kind() ValueKind {
	kinds := make([]ValueKind, len(t.Elems))
	for i, e := range t.Elems {
		kinds[i] = e.Kind()
	}
	return TupleKind(kinds)
}
func (t Tuple) Shape() []int { return []int{len(t.Elems)} }
func (t Tuple) Size() int    { return len(t.Elems) }
func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Record is a fixed set of named fields, order-preserving (spec.md
// section 3); field order is significant for dispatch and encoding.
type Record struct {
	Names  []string
	Values []Value
}

// FieldByName looks up a field by name; used by record-projection kernels.
func (r Record) FieldByName(name string) (Value, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

func (r Record) Kind() ValueKind {
	fields := make([]RecordField, len(r.Names))
	for i, n := range r.Names {
		fields[i] = RecordField{Name: n, Kind: r.Values[i].Kind()}
	}
	return RecordKind(fields)
}

func (r Record) Shape() []int { return []int{len(r.Names)} }
func (r Record) Size() int    { return len(r.Names) }
func (r Record) String() string {
	parts := make([]string, len(r.Names))
	for i, n := range r.Names {
		parts[i] = fmt.Sprintf("%s: %s", n, r.Values[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set is an unordered collection of distinct Values, optionally bounded
// (spec.md section 3). Membership equality uses String() as the
// canonical key, matching ValueKind.Key()'s structural-equality approach.
type Set struct {
	Elem ValueKind
	Max  *int
	vals map[string]Value
}

func NewSet(elem ValueKind, max *int) *Set {
	return &Set{Elem: elem, Max: max, vals: map[string]Value{}}
}

func (s *Set) Insert(v Value) error {
	key := v.String()
	if _, ok := s.vals[key]; ok {
		return nil
	}
	if s.Max != nil && len(s.vals) >= *s.Max {
		return fmt.Errorf("set at capacity %d", *s.Max)
	}
	s.vals[key] = v
	return nil
}

func (s *Set) Contains(v Value) bool {
	_, ok := s.vals[v.String()]
	return ok
}

func (s *Set) Len() int { return len(s.vals) }

func (s *Set) Kind() ValueKind { return SetKind(s.Elem, s.Max) }
func (s *Set) Shape() []int    { return []int{s.Len()} }
func (s *Set) Size() int       { return s.Len() }
func (s *Set) String() string {
	keys := make([]string, 0, len(s.vals))
	for k := range s.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "{" + strings.Join(keys, ", ") + "}"
}

// Map is a finite partial function Key -> Value (spec.md section 3).
type Map struct {
	KeyKind, ValKind ValueKind
	keys             map[string]Value
	vals             map[string]Value
}

func NewMap(keyKind, valKind ValueKind) *Map {
	return &Map{KeyKind: keyKind, ValKind: valKind, keys: map[string]Value{}, vals: map[string]Value{}}
}

func (m *Map) Insert(k, v Value) {
	s := k.String()
	m.keys[s] = k
	m.vals[s] = v
}

func (m *Map) Get(k Value) (Value, bool) {
	v, ok := m.vals[k.String()]
	return v, ok
}

func (m *Map) Len() int { return len(m.vals) }

func (m *Map) Kind() ValueKind { return MapKind(m.KeyKind, m.ValKind) }
func (m *Map) Shape() []int { return []int{m.Len()} }
func (m *Map) Size() int    { return m.Len() }
func (m *Map) String() string {
	keys := make([]string, 0, len(m.keys))
	for k := range m.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, m.vals[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Option is either Some(v) or None, per spec.md section 3.
type Option struct {
	Inner ValueKind
	Val   Value // nil when None
}

func Some(v Value) Option { return Option{Inner: v.Kind(), Val: v} }
func None(inner ValueKind) Option { return Option{Inner: inner, Val: nil} }

func (o Option) IsSome() bool { return o.Val != nil }

func (o Option) Kind() ValueKind { return OptionKind(o.Inner) }
func (o Option) Shape() []int    { return []int{1} }
func (o Option) Size() int {
	if o.IsSome() {
		return 1
	}
	return 0
}
func (o Option) String() string {
	if o.IsSome() {
		return "Some(" + o.Val.String() + ")"
	}
	return "None"
}

// KindValue reifies a ValueKind as a Value, used by the compiler's type
// section and by any kernel that inspects a value's structural type at
// runtime (spec.md section 3, the "KindValue" variant).
type KindValue struct {
	K ValueKind
}

func (k KindValue) Kind() ValueKind  { return ValueKind{Tag: TagEmpty} } // a kind-of-a-kind has no further structure
func (KindValue) Shape() []int       { return []int{1} }
func (KindValue) Size() int          { return 1 }
func (k KindValue) String() string   { return "kind<" + k.K.String() + ">" }
