package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Repr returns a user-friendly rendering of a TypeID.
func (in *Interner) Repr(id TypeID) string {
	var sb strings.Builder
	in.writeTy(&sb, id, 0)
	return sb.String()
}

// SubstsRepr renders a substitution as "[type; self; fn | regions]".
func (in *Interner) SubstsRepr(s *Substs) string {
	if s == nil {
		return "<none>"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, space := range AllSpaces {
		if i > 0 {
			sb.WriteString("; ")
		}
		for j, ty := range s.Types.GetSlice(space) {
			if j > 0 {
				sb.WriteString(", ")
			}
			in.writeTy(&sb, ty, 0)
		}
	}
	sb.WriteString(" | ")
	if s.Regions.Erased {
		sb.WriteString("erased")
	} else {
		for i, r := range s.Regions.Regions.All() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(r.String())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// TraitRefRepr renders a trait reference as "<Self as Trait<args>>".
func (in *Interner) TraitRefRepr(tr *TraitRef) string {
	if tr == nil {
		return "<none>"
	}
	var sb strings.Builder
	sb.WriteByte('<')
	if self, ok := tr.SelfTy(); ok {
		in.writeTy(&sb, self, 0)
		sb.WriteString(" as ")
	}
	in.writeNominal(&sb, tr.Def, tr.Substs, 0)
	sb.WriteByte('>')
	return sb.String()
}

const maxReprDepth = 32

func (in *Interner) writeTy(sb *strings.Builder, id TypeID, depth int) {
	if id == NoTypeID {
		sb.WriteByte('?')
		return
	}
	if depth > maxReprDepth {
		sb.WriteString("...")
		return
	}
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteByte('?')
		return
	}
	switch tt.Kind {
	case KindNil:
		sb.WriteString("()")
	case KindBot:
		sb.WriteByte('!')
	case KindBool:
		sb.WriteString("bool")
	case KindChar:
		sb.WriteString("char")
	case KindStr:
		sb.WriteString("str")
	case KindErr:
		sb.WriteString("[type error]")
	case KindInt:
		sb.WriteString(numericName("i", "int", tt.Width))
	case KindUint:
		sb.WriteString(numericName("u", "uint", tt.Width))
	case KindFloat:
		if tt.Width == WidthAny {
			sb.WriteString("f64")
		} else {
			sb.WriteString(numericName("f", "float", tt.Width))
		}
	case KindUniq:
		sb.WriteString("Box<")
		in.writeTy(sb, tt.Elem, depth+1)
		sb.WriteByte('>')
	case KindPtr:
		if tt.MT.Mutbl == Mutable {
			sb.WriteString("*mut ")
		} else {
			sb.WriteString("*const ")
		}
		in.writeTy(sb, tt.MT.Ty, depth+1)
	case KindRptr:
		sb.WriteByte('&')
		sb.WriteString(tt.Region.String())
		sb.WriteByte(' ')
		if tt.MT.Mutbl == Mutable {
			sb.WriteString("mut ")
		}
		in.writeTy(sb, tt.MT.Ty, depth+1)
	case KindVec:
		sb.WriteByte('[')
		in.writeTy(sb, tt.Elem, depth+1)
		if tt.Len != ArrayDynamicLength {
			sb.WriteString("; ")
			sb.WriteString(strconv.FormatUint(uint64(tt.Len), 10))
		}
		sb.WriteByte(']')
	case KindOpen:
		sb.WriteString("open(")
		in.writeTy(sb, tt.Elem, depth+1)
		sb.WriteByte(')')
	case KindStruct, KindEnum:
		in.writeNominal(sb, tt.Def, tt.Substs, depth)
	case KindTrait:
		sb.WriteString("dyn ")
		in.writeNominal(sb, tt.Trait.Def, tt.Trait.Substs, depth)
		in.writeBounds(sb, tt.Trait.Bounds)
	case KindTuple:
		sb.WriteByte('(')
		for i, el := range tt.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			in.writeTy(sb, el, depth+1)
		}
		if len(tt.Elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case KindBareFn:
		if tt.BareFn.Style == UnsafeFn {
			sb.WriteString("unsafe ")
		}
		sb.WriteString("fn")
		in.writeSig(sb, tt.BareFn.Sig, depth)
	case KindClosure:
		if tt.Closure.Onceness == Once {
			sb.WriteString("once ")
		}
		if tt.Closure.Store.Kind == RegionTraitStore {
			sb.WriteByte('&')
			sb.WriteString(tt.Closure.Store.Region.String())
			sb.WriteByte(' ')
		}
		sb.WriteString("closure")
		in.writeSig(sb, tt.Closure.Sig, depth)
		in.writeBounds(sb, tt.Closure.Bounds)
	case KindUnboxedClosure:
		fmt.Fprintf(sb, "closure#%s(%s)", tt.Def, tt.Region)
	case KindParam:
		if name, ok := in.Name(tt.Param.Def); ok {
			sb.WriteString(name)
		} else if tt.Param.Space == SelfSpace {
			sb.WriteString("Self")
		} else {
			fmt.Fprintf(sb, "T/%s.%d", tt.Param.Space, tt.Param.Idx)
		}
	case KindInfer:
		switch tt.Infer.Kind {
		case IntVar:
			fmt.Fprintf(sb, "_#%di", tt.Infer.Vid)
		case FloatVar:
			fmt.Fprintf(sb, "_#%df", tt.Infer.Vid)
		default:
			fmt.Fprintf(sb, "_#%dt", tt.Infer.Vid)
		}
	default:
		fmt.Fprintf(sb, "<%s>", tt.Kind)
	}
}

func (in *Interner) writeNominal(sb *strings.Builder, def DefID, s *Substs, depth int) {
	if name, ok := in.Name(def); ok {
		sb.WriteString(name)
	} else {
		sb.WriteString("item#")
		sb.WriteString(def.String())
	}
	if s == nil {
		return
	}
	var regions []Region
	if !s.Regions.Erased {
		regions = s.Regions.Regions.GetSlice(TypeSpace)
	}
	args := s.Types.GetSlice(TypeSpace)
	if len(regions)+len(args) == 0 {
		return
	}
	sb.WriteByte('<')
	n := 0
	for _, r := range regions {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.String())
		n++
	}
	for _, a := range args {
		if n > 0 {
			sb.WriteString(", ")
		}
		in.writeTy(sb, a, depth+1)
		n++
	}
	sb.WriteByte('>')
}

func (in *Interner) writeSig(sb *strings.Builder, sig FnSig, depth int) {
	sb.WriteByte('(')
	for i, inp := range sig.Inputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		in.writeTy(sb, inp, depth+1)
	}
	if sig.Variadic {
		sb.WriteString(", ...")
	}
	sb.WriteByte(')')
	if sig.Output != NoTypeID && sig.Output != in.builtins.Nil {
		sb.WriteString(" -> ")
		in.writeTy(sb, sig.Output, depth+1)
	}
}

func (in *Interner) writeBounds(sb *strings.Builder, b ExistentialBounds) {
	if b.RegionBound.Kind != ReStatic {
		sb.WriteString(" + ")
		sb.WriteString(b.RegionBound.String())
	}
	if b.BuiltinBounds != EmptyBuiltinBounds {
		sb.WriteString(" + ")
		sb.WriteString(b.BuiltinBounds.String())
	}
}

func numericName(prefix, bare string, w Width) string {
	if w == WidthAny {
		return bare
	}
	return prefix + strconv.Itoa(int(w))
}
