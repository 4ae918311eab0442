package types

import "fmt"

// ParamSpace partitions generic parameters by the declaration that introduces
// them, so that indices from different scopes never collide.
type ParamSpace uint8

const (
	TypeSpace ParamSpace = iota // parameters of the enclosing type/trait/impl
	SelfSpace                   // the Self parameter of a trait
	FnSpace                     // parameters of a generic fn/method
)

// AllSpaces lists the spaces in storage order.
var AllSpaces = [...]ParamSpace{TypeSpace, SelfSpace, FnSpace}

func (s ParamSpace) String() string {
	switch s {
	case TypeSpace:
		return "type"
	case SelfSpace:
		return "self"
	case FnSpace:
		return "fn"
	default:
		return fmt.Sprintf("ParamSpace(%d)", s)
	}
}

// ParseParamSpace converts a space name ("type", "self", "fn").
func ParseParamSpace(s string) (ParamSpace, error) {
	switch s {
	case "type", "TypeSpace":
		return TypeSpace, nil
	case "self", "SelfSpace":
		return SelfSpace, nil
	case "fn", "FnSpace":
		return FnSpace, nil
	default:
		return TypeSpace, fmt.Errorf("invalid param space: %q (expected: type|self|fn)", s)
	}
}

// VecPerParamSpace stores one ordered sequence per ParamSpace in a single
// slice: [TypeSpace..., SelfSpace..., FnSpace...]. Values are treated as
// immutable once shared; the mutating helpers copy.
type VecPerParamSpace[T any] struct {
	typeLimit int
	selfLimit int
	content   []T
}

// NewVecPerParamSpace builds a per-space vector from the three sequences.
func NewVecPerParamSpace[T any](typeSpace, selfSpace, fnSpace []T) VecPerParamSpace[T] {
	content := make([]T, 0, len(typeSpace)+len(selfSpace)+len(fnSpace))
	content = append(content, typeSpace...)
	content = append(content, selfSpace...)
	content = append(content, fnSpace...)
	return VecPerParamSpace[T]{
		typeLimit: len(typeSpace),
		selfLimit: len(typeSpace) + len(selfSpace),
		content:   content,
	}
}

// SingleSpace builds a vector with values only in space.
func SingleSpace[T any](space ParamSpace, values []T) VecPerParamSpace[T] {
	switch space {
	case TypeSpace:
		return NewVecPerParamSpace(values, nil, nil)
	case SelfSpace:
		return NewVecPerParamSpace(nil, values, nil)
	default:
		return NewVecPerParamSpace(nil, nil, values)
	}
}

func (v VecPerParamSpace[T]) limits(space ParamSpace) (int, int) {
	switch space {
	case TypeSpace:
		return 0, v.typeLimit
	case SelfSpace:
		return v.typeLimit, v.selfLimit
	default:
		return v.selfLimit, len(v.content)
	}
}

// Len returns the number of values in space.
func (v VecPerParamSpace[T]) Len(space ParamSpace) int {
	lo, hi := v.limits(space)
	return hi - lo
}

// TotalLen returns the number of values across all spaces.
func (v VecPerParamSpace[T]) TotalLen() int {
	return len(v.content)
}

// IsEmpty reports whether no space holds a value.
func (v VecPerParamSpace[T]) IsEmpty() bool {
	return len(v.content) == 0
}

// GetSlice returns the values in space. The result must not be modified.
func (v VecPerParamSpace[T]) GetSlice(space ParamSpace) []T {
	lo, hi := v.limits(space)
	return v.content[lo:hi:hi]
}

// OptGet returns the value at (space, index) when present.
func (v VecPerParamSpace[T]) OptGet(space ParamSpace, index uint32) (T, bool) {
	lo, hi := v.limits(space)
	if uint64(index) >= uint64(hi-lo) {
		var zero T
		return zero, false
	}
	return v.content[lo+int(index)], true
}

// Get returns the value at (space, index) and panics when it is absent.
func (v VecPerParamSpace[T]) Get(space ParamSpace, index uint32) T {
	val, ok := v.OptGet(space, index)
	if !ok {
		panic(fmt.Sprintf("types: index %d out of range for %s space (len %d)", index, space, v.Len(space)))
	}
	return val
}

// All returns every value in storage order. The result must not be modified.
func (v VecPerParamSpace[T]) All() []T {
	return v.content
}

// With returns a copy of v with value appended to space.
func (v VecPerParamSpace[T]) With(space ParamSpace, value T) VecPerParamSpace[T] {
	t, s, f := v.GetSlice(TypeSpace), v.GetSlice(SelfSpace), v.GetSlice(FnSpace)
	switch space {
	case TypeSpace:
		t = append(t, value)
	case SelfSpace:
		s = append(s, value)
	default:
		f = append(f, value)
	}
	return NewVecPerParamSpace(t, s, f)
}

// Replace returns a copy of v whose space holds exactly values.
func (v VecPerParamSpace[T]) Replace(space ParamSpace, values []T) VecPerParamSpace[T] {
	t, s, f := v.GetSlice(TypeSpace), v.GetSlice(SelfSpace), v.GetSlice(FnSpace)
	switch space {
	case TypeSpace:
		t = values
	case SelfSpace:
		s = values
	default:
		f = values
	}
	return NewVecPerParamSpace(t, s, f)
}

// Map applies fn to every value, preserving the per-space layout.
func (v VecPerParamSpace[T]) Map(fn func(T) T) VecPerParamSpace[T] {
	return MapPerSpace(v, fn)
}

// MapPerSpace applies fn to every value, preserving the per-space layout.
func MapPerSpace[T, U any](v VecPerParamSpace[T], fn func(T) U) VecPerParamSpace[U] {
	if len(v.content) == 0 {
		return VecPerParamSpace[U]{}
	}
	out := make([]U, len(v.content))
	for i := range v.content {
		out[i] = fn(v.content[i])
	}
	return VecPerParamSpace[U]{typeLimit: v.typeLimit, selfLimit: v.selfLimit, content: out}
}

// EachSpace calls fn for every (space, index, value) in storage order.
func (v VecPerParamSpace[T]) EachSpace(fn func(space ParamSpace, index int, value T)) {
	for _, space := range AllSpaces {
		for i, val := range v.GetSlice(space) {
			fn(space, i, val)
		}
	}
}
