package types

import "encoding/binary"

// keyWriter serializes a descriptor into a byte string that is equal for two
// descriptors iff they describe the same term. Children are already interned,
// so they are written as TypeIDs.
type keyWriter struct {
	buf []byte
}

func typeKey(t Type) string {
	w := keyWriter{buf: make([]byte, 0, 32)}
	w.u8(uint8(t.Kind))
	switch t.Kind {
	case KindInt, KindUint, KindFloat:
		w.u8(uint8(t.Width))
	case KindUniq, KindOpen:
		w.ty(t.Elem)
	case KindVec:
		w.ty(t.Elem)
		w.u32(t.Len)
	case KindPtr:
		w.mt(t.MT)
	case KindRptr:
		w.region(t.Region)
		w.mt(t.MT)
	case KindStruct, KindEnum:
		w.def(t.Def)
		w.substs(t.Substs)
	case KindTuple:
		w.tys(t.Elems)
	case KindBareFn:
		w.u8(uint8(t.BareFn.Style))
		w.u8(uint8(t.BareFn.ABI))
		w.sig(t.BareFn.Sig)
	case KindClosure:
		c := t.Closure
		w.u8(uint8(c.Style))
		w.u8(uint8(c.Onceness))
		w.store(c.Store)
		w.bounds(c.Bounds)
		w.sig(c.Sig)
		w.u8(uint8(c.ABI))
	case KindUnboxedClosure:
		w.def(t.Def)
		w.region(t.Region)
	case KindTrait:
		w.def(t.Trait.Def)
		w.substs(t.Trait.Substs)
		w.bounds(t.Trait.Bounds)
	case KindParam:
		w.u8(uint8(t.Param.Space))
		w.u32(t.Param.Idx)
		w.def(t.Param.Def)
	case KindInfer:
		w.u8(uint8(t.Infer.Kind))
		w.u32(t.Infer.Vid)
	}
	return string(w.buf)
}

func (w *keyWriter) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *keyWriter) u32(v uint32) {
	w.buf = binary.AppendUvarint(w.buf, uint64(v))
}

func (w *keyWriter) str(s string) {
	w.u32(uint32(len(s))) //nolint:gosec // names are short
	w.buf = append(w.buf, s...)
}

func (w *keyWriter) ty(id TypeID) {
	w.u32(uint32(id))
}

func (w *keyWriter) tys(ids []TypeID) {
	w.u32(uint32(len(ids))) //nolint:gosec // bounded by interner size
	for _, id := range ids {
		w.ty(id)
	}
}

func (w *keyWriter) def(d DefID) {
	w.u32(d.Krate)
	w.u32(uint32(d.Node))
}

func (w *keyWriter) mt(mt MT) {
	w.ty(mt.Ty)
	w.u8(uint8(mt.Mutbl))
}

func (w *keyWriter) region(r Region) {
	w.u8(uint8(r.Kind))
	switch r.Kind {
	case ReEarlyBound:
		w.u32(uint32(r.Node))
		w.u8(uint8(r.Space))
		w.u32(r.Index)
		w.str(r.Name)
	case ReLateBound, ReFree:
		w.u32(uint32(r.Node))
		w.boundRegion(r.Bound)
	case ReScope:
		w.u32(uint32(r.Node))
	case ReInfer:
		w.u32(r.Index)
	}
}

func (w *keyWriter) boundRegion(br BoundRegion) {
	w.u8(uint8(br.Kind))
	switch br.Kind {
	case BrNamed:
		w.def(br.Def)
		w.str(br.Name)
	default:
		w.u32(br.Index)
	}
}

func (w *keyWriter) perSpaceTys(v VecPerParamSpace[TypeID]) {
	for _, space := range AllSpaces {
		w.tys(v.GetSlice(space))
	}
}

func (w *keyWriter) substs(s *Substs) {
	w.perSpaceTys(s.Types)
	if s.Regions.Erased {
		w.u8(1)
		return
	}
	w.u8(0)
	for _, space := range AllSpaces {
		regions := s.Regions.Regions.GetSlice(space)
		w.u32(uint32(len(regions))) //nolint:gosec // bounded by declaration size
		for _, r := range regions {
			w.region(r)
		}
	}
}

func (w *keyWriter) sig(sig FnSig) {
	w.u32(uint32(sig.BinderID))
	w.tys(sig.Inputs)
	w.ty(sig.Output)
	if sig.Variadic {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *keyWriter) store(s TraitStore) {
	w.u8(uint8(s.Kind))
	if s.Kind == RegionTraitStore {
		w.region(s.Region)
		w.u8(uint8(s.Mutbl))
	}
}

func (w *keyWriter) bounds(b ExistentialBounds) {
	w.region(b.RegionBound)
	w.u8(uint8(b.BuiltinBounds))
}
