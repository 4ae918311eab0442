package types

import "testing"

func TestRepr(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	pair := LocalDef(1)
	in.RegisterName(pair, "Pair")
	tParam := in.MkParam(TypeSpace, 0, LocalDef(2))
	in.RegisterName(LocalDef(2), "T")

	late := LateBound(5, BoundRegion{Kind: BrNamed, Name: "a"})
	cases := []struct {
		ty   TypeID
		want string
	}{
		{b.I32, "i32"},
		{b.Int, "int"},
		{in.MkTup(b.Bool), "(bool,)"},
		{in.MkStruct(pair, TypeSubsts(b.I32, in.MkStruct(pair, TypeSubsts(b.I32, b.Bool)))), "Pair<i32, Pair<i32, bool>>"},
		{in.MkMutRptr(Static, tParam), "&'static mut T"},
		{in.MkCtorFn(5, []TypeID{in.MkImmRptr(late, b.Str)}, b.Bool), "fn(&'late(5,'a) str) -> bool"},
		{in.MkSlice(b.U8), "[u8]"},
		{in.MkVec(b.U8, 4), "[u8; 4]"},
		{in.MkUniq(b.F64), "Box<f64>"},
	}
	for _, tc := range cases {
		if got := in.Repr(tc.ty); got != tc.want {
			t.Fatalf("Repr = %q, want %q", got, tc.want)
		}
	}
}
