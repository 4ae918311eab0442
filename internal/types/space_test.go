package types

import "testing"

func TestVecPerParamSpaceLayout(t *testing.T) {
	v := NewVecPerParamSpace([]int{1, 2}, []int{3}, []int{4, 5, 6})
	if v.Len(TypeSpace) != 2 || v.Len(SelfSpace) != 1 || v.Len(FnSpace) != 3 {
		t.Fatalf("unexpected lengths: %d %d %d", v.Len(TypeSpace), v.Len(SelfSpace), v.Len(FnSpace))
	}
	if got := v.Get(FnSpace, 1); got != 5 {
		t.Fatalf("Get(fn, 1) = %d, want 5", got)
	}
	if _, ok := v.OptGet(SelfSpace, 1); ok {
		t.Fatalf("OptGet past the end of a space must fail")
	}
	if v.TotalLen() != 6 {
		t.Fatalf("TotalLen = %d, want 6", v.TotalLen())
	}
}

func TestVecPerParamSpaceWithDoesNotAlias(t *testing.T) {
	v := NewVecPerParamSpace([]int{1}, nil, []int{2})
	w := v.With(TypeSpace, 9)
	if v.Len(TypeSpace) != 1 || v.Get(FnSpace, 0) != 2 {
		t.Fatalf("With modified the receiver")
	}
	if w.Get(TypeSpace, 1) != 9 || w.Get(FnSpace, 0) != 2 {
		t.Fatalf("With produced wrong layout: %v", w.All())
	}
}

func TestVecPerParamSpaceGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	SingleSpace(TypeSpace, []int{1}).Get(FnSpace, 0)
}

func TestMapPerSpacePreservesLayout(t *testing.T) {
	v := NewVecPerParamSpace([]int{1}, []int{2}, []int{3, 4})
	m := MapPerSpace(v, func(x int) string { return string(rune('a' + x)) })
	if m.Len(FnSpace) != 2 || m.Get(SelfSpace, 0) != "c" || m.Get(FnSpace, 1) != "e" {
		t.Fatalf("unexpected mapped vector: %v", m.All())
	}
	var seen []ParamSpace
	m.EachSpace(func(space ParamSpace, _ int, _ string) { seen = append(seen, space) })
	if len(seen) != 4 || seen[0] != TypeSpace || seen[3] != FnSpace {
		t.Fatalf("EachSpace order: %v", seen)
	}
}

func TestSubstsHelpers(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := TypeSubsts(b.Int, b.Bool)
	if got, ok := s.TypeFor(ParamTy{Space: TypeSpace, Idx: 1}); !ok || got != b.Bool {
		t.Fatalf("TypeFor(type/1) = %v, %v", got, ok)
	}
	withSelf := s.WithSelfTy(b.Char)
	if withSelf.Types.Get(SelfSpace, 0) != b.Char || s.Types.Len(SelfSpace) != 0 {
		t.Fatalf("WithSelfTy must copy")
	}
	if !EmptySubsts().IsNoop() {
		t.Fatalf("empty substs must be a no-op")
	}
	if NewErasedSubsts(VecPerParamSpace[TypeID]{}).IsNoop() {
		t.Fatalf("erased substs still rewrite early-bound regions")
	}
	if !s.EraseRegions().Regions.Erased || s.Regions.Erased {
		t.Fatalf("EraseRegions must copy")
	}
}
