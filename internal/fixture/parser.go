package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"tyfold/internal/types"
)

// ParseError is a syntax or resolution error inside a type expression.
type ParseError struct {
	Off int // byte offset into the expression
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Off, e.Msg)
}

// Scope resolves the names a type expression may mention.
type Scope struct {
	tcx       *types.Interner
	items     map[string]*Item
	params    map[string]types.TypeID
	lifetimes map[string]types.Region
	self      types.TypeID
	nodes     *nodeAlloc
	vids      uint32
}

type nodeAlloc struct {
	next types.NodeID
}

func (a *nodeAlloc) alloc() types.NodeID {
	a.next++
	return a.next
}

// Lookup returns the interned type parameter named name.
func (s *Scope) Lookup(name string) (types.TypeID, bool) {
	id, ok := s.params[name]
	return id, ok
}

type binderFrame struct {
	id    types.NodeID
	names []string
}

type parser struct {
	scope   *Scope
	toks    []token
	pos     int
	binders []binderFrame
}

// ParseType parses expr and interns the type it denotes. Names are compared
// in NFC form.
func (s *Scope) ParseType(expr string) (id types.TypeID, err error) {
	p := &parser{scope: s, toks: lexExpr(norm.NFC.String(expr))}
	defer func() {
		if rec := recover(); rec != nil {
			pe, ok := rec.(*ParseError)
			if !ok {
				panic(rec)
			}
			id, err = types.NoTypeID, pe
		}
	}()
	id = p.ty()
	if t := p.peek(); t.kind != tokEOF {
		p.failAt(t, "unexpected %q after type", t.text)
	}
	return id, nil
}

// ParseRegion parses a single region such as 'static, 'a or '_3.
func (s *Scope) ParseRegion(expr string) (r types.Region, err error) {
	p := &parser{scope: s, toks: lexExpr(expr)}
	defer func() {
		if rec := recover(); rec != nil {
			pe, ok := rec.(*ParseError)
			if !ok {
				panic(rec)
			}
			r, err = types.Static, pe
		}
	}()
	t := p.next()
	if t.kind != tokLifetime {
		p.failAt(t, "expected region, found %q", t.text)
	}
	r = p.region(t)
	if t := p.peek(); t.kind != tokEOF {
		p.failAt(t, "unexpected %q after region", t.text)
	}
	return r, nil
}

// ParseRegion parses a region outside of any case, where every named
// lifetime is free.
func ParseRegion(tcx *types.Interner, expr string) (types.Region, error) {
	sc := &Scope{tcx: tcx, nodes: &nodeAlloc{}}
	return sc.ParseRegion(expr)
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) failAt(t token, format string, args ...any) {
	panic(&ParseError{Off: t.off, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) isPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) isIdent(s string) bool {
	t := p.peek()
	return t.kind == tokIdent && t.text == s
}

func (p *parser) expect(s string) token {
	t := p.next()
	if (t.kind != tokPunct && t.kind != tokArrow) || t.text != s {
		p.failAt(t, "expected %q, found %q", s, t.text)
	}
	return t
}

func (p *parser) ty() types.TypeID {
	tcx := p.scope.tcx
	t := p.peek()
	switch {
	case p.isPunct("("):
		return p.tuple()
	case p.isPunct("!"):
		p.next()
		return tcx.Builtins().Bot
	case p.isPunct("&"):
		p.next()
		r := types.Static
		if p.peek().kind == tokLifetime {
			r = p.region(p.next())
		}
		if p.isIdent("mut") {
			p.next()
			return tcx.MkMutRptr(r, p.ty())
		}
		return tcx.MkImmRptr(r, p.ty())
	case p.isPunct("*"):
		p.next()
		switch {
		case p.isIdent("mut"):
			p.next()
			return tcx.MkPtr(types.MT{Ty: p.ty(), Mutbl: types.Mutable})
		case p.isIdent("const"):
			p.next()
			return tcx.MkImmPtr(p.ty())
		}
		p.failAt(p.peek(), "expected `const` or `mut` after `*`")
	case p.isPunct("["):
		p.next()
		elem := p.ty()
		if p.isPunct(";") {
			p.next()
			n := p.next()
			if n.kind != tokNumber {
				p.failAt(n, "expected array length, found %q", n.text)
			}
			p.expect("]")
			return tcx.MkVec(elem, p.u32(n))
		}
		p.expect("]")
		return tcx.MkSlice(elem)
	case t.kind == tokIdent:
		return p.named()
	}
	p.failAt(t, "expected type, found %q", t.text)
	return types.NoTypeID
}

func (p *parser) tuple() types.TypeID {
	p.expect("(")
	var elems []types.TypeID
	for !p.isPunct(")") {
		elems = append(elems, p.ty())
		if !p.isPunct(",") {
			break
		}
		p.next()
	}
	p.expect(")")
	return p.scope.tcx.MkTup(elems...)
}

func (p *parser) u32(t token) uint32 {
	n, err := strconv.ParseUint(t.text, 10, 32)
	if err != nil {
		p.failAt(t, "invalid number %q", t.text)
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		p.failAt(t, "number %q out of range", t.text)
	}
	return v
}

func (p *parser) named() types.TypeID {
	tcx := p.scope.tcx
	b := tcx.Builtins()
	t := p.next()
	switch t.text {
	case "bool":
		return b.Bool
	case "char":
		return b.Char
	case "str":
		return b.Str
	case "int":
		return b.Int
	case "uint":
		return b.Uint
	case "i8":
		return b.I8
	case "i16":
		return b.I16
	case "i32":
		return b.I32
	case "i64":
		return b.I64
	case "u8":
		return b.U8
	case "u16":
		return b.U16
	case "u32":
		return b.U32
	case "u64":
		return b.U64
	case "f32":
		return b.F32
	case "f64":
		return b.F64
	case "error":
		return b.Err
	case "_":
		p.scope.vids++
		return tcx.MkInfer(types.InferTy{Kind: types.TyVar, Vid: p.scope.vids})
	case "_i":
		p.scope.vids++
		return tcx.MkInfer(types.InferTy{Kind: types.IntVar, Vid: p.scope.vids})
	case "_f":
		p.scope.vids++
		return tcx.MkInfer(types.InferTy{Kind: types.FloatVar, Vid: p.scope.vids})
	case "Self":
		if p.scope.self == types.NoTypeID {
			p.failAt(t, "`Self` is not declared for this case")
		}
		return p.scope.self
	case "Box":
		return tcx.MkUniq(p.single(t))
	case "Open":
		return tcx.MkOpen(p.single(t))
	case "for":
		return p.forBinder()
	case "fn", "unsafe", "closure", "once":
		p.pos--
		return p.fnType(types.NoBinder)
	case "dyn":
		return p.traitObject()
	case "unboxed":
		p.expect("<")
		var r types.Region
		if lt := p.next(); lt.kind == tokLifetime {
			r = p.region(lt)
		} else {
			p.failAt(lt, "expected region in unboxed closure, found %q", lt.text)
		}
		p.expect(">")
		return tcx.MkUnboxedClosure(types.LocalDef(p.scope.nodes.alloc()), r)
	}
	if id, ok := p.scope.params[t.text]; ok {
		return id
	}
	it, ok := p.scope.items[t.text]
	if !ok {
		p.failAt(t, "unknown type %q", t.text)
	}
	if it.Kind == ItemTrait {
		p.failAt(t, "trait %q used as a type; write `dyn %s`", it.Name, it.Name)
	}
	substs := p.itemSubsts(t, it)
	if it.Kind == ItemEnum {
		return tcx.MkEnum(it.Def, substs)
	}
	return tcx.MkStruct(it.Def, substs)
}

// single parses the one type argument of a builtin constructor.
func (p *parser) single(at token) types.TypeID {
	if !p.isPunct("<") {
		p.failAt(at, "%s expects one type argument", at.text)
	}
	p.next()
	elem := p.ty()
	p.expect(">")
	return elem
}

// itemSubsts parses the optional <'r.., T..> after an item name and checks
// its arity.
func (p *parser) itemSubsts(at token, it *Item) *types.Substs {
	var regions []types.Region
	var tys []types.TypeID
	if p.isPunct("<") {
		p.next()
		for !p.isPunct(">") {
			if lt := p.peek(); lt.kind == tokLifetime {
				if len(tys) > 0 {
					p.failAt(lt, "region arguments must come before type arguments")
				}
				regions = append(regions, p.region(p.next()))
			} else {
				tys = append(tys, p.ty())
			}
			if !p.isPunct(",") {
				break
			}
			p.next()
		}
		p.expect(">")
	}
	if len(tys) != len(it.Params) {
		p.failAt(at, "%s expects %d type argument(s), found %d", it.Name, len(it.Params), len(tys))
	}
	if len(regions) != len(it.Lifetimes) {
		p.failAt(at, "%s expects %d region argument(s), found %d", it.Name, len(it.Lifetimes), len(regions))
	}
	return types.NewSubsts(
		types.SingleSpace(types.TypeSpace, tys),
		types.SingleSpace(types.TypeSpace, regions),
	)
}

// forBinder parses for<'r, ..> fn(...) and binds the listed names to a fresh
// binder for the fn type.
func (p *parser) forBinder() types.TypeID {
	p.expect("<")
	frame := binderFrame{id: p.scope.nodes.alloc()}
	for !p.isPunct(">") {
		lt := p.next()
		if lt.kind != tokLifetime {
			p.failAt(lt, "expected region name in for<>, found %q", lt.text)
		}
		frame.names = append(frame.names, lt.text)
		if !p.isPunct(",") {
			break
		}
		p.next()
	}
	p.expect(">")
	p.binders = append(p.binders, frame)
	defer func() { p.binders = p.binders[:len(p.binders)-1] }()
	return p.fnType(frame.id)
}

func (p *parser) fnType(binder types.NodeID) types.TypeID {
	tcx := p.scope.tcx
	style := types.NormalFn
	once := types.Many
	if p.isIdent("unsafe") {
		p.next()
		style = types.UnsafeFn
	}
	if p.isIdent("once") {
		p.next()
		once = types.Once
	}
	kw := p.next()
	if kw.kind != tokIdent || (kw.text != "fn" && kw.text != "closure") {
		p.failAt(kw, "expected `fn` or `closure`, found %q", kw.text)
	}
	if kw.text == "fn" && once == types.Once {
		p.failAt(kw, "`once` applies to closures only")
	}

	p.expect("(")
	var inputs []types.TypeID
	for !p.isPunct(")") {
		inputs = append(inputs, p.ty())
		if !p.isPunct(",") {
			break
		}
		p.next()
	}
	p.expect(")")
	output := tcx.Builtins().Nil
	if p.peek().kind == tokArrow {
		p.next()
		output = p.ty()
	}
	sig := types.FnSig{BinderID: binder, Inputs: inputs, Output: output}

	if kw.text == "fn" {
		return tcx.MkBareFn(types.BareFnTy{Style: style, ABI: types.ABIRust, Sig: sig})
	}
	return tcx.MkClosure(types.ClosureTy{
		Style:    style,
		Onceness: once,
		Store:    types.TraitStore{Kind: types.UniqTraitStore},
		Bounds:   types.ExistentialBounds{RegionBound: types.Static},
		Sig:      sig,
		ABI:      types.ABIRust,
	})
}

func (p *parser) traitObject() types.TypeID {
	name := p.next()
	it, ok := p.scope.items[name.text]
	if name.kind != tokIdent || !ok {
		p.failAt(name, "unknown trait %q", name.text)
	}
	if it.Kind != ItemTrait {
		p.failAt(name, "%q is not a trait", it.Name)
	}
	substs := p.itemSubsts(name, it)
	bounds := types.ExistentialBounds{RegionBound: types.Static}
	for p.isPunct("+") {
		p.next()
		t := p.next()
		switch {
		case t.kind == tokLifetime:
			bounds.RegionBound = p.region(t)
		case t.kind == tokIdent:
			b, ok := builtinBound(t.text)
			if !ok {
				p.failAt(t, "unknown builtin bound %q", t.text)
			}
			bounds.BuiltinBounds = bounds.BuiltinBounds.Add(b)
		default:
			p.failAt(t, "expected bound, found %q", t.text)
		}
	}
	return p.scope.tcx.MkTrait(it.Def, substs, bounds)
}

func builtinBound(name string) (types.BuiltinBound, bool) {
	switch name {
	case "Send":
		return types.BoundSend, true
	case "Sized":
		return types.BoundSized, true
	case "Copy":
		return types.BoundCopy, true
	case "Sync":
		return types.BoundSync, true
	}
	return 0, false
}

// region resolves a lifetime token. Names bound by an enclosing for<> are
// late-bound, names declared by the case are early-bound and anything else
// is a free region.
func (p *parser) region(t token) types.Region {
	name := t.text
	switch {
	case name == "static":
		return types.Static
	case name == "empty":
		return types.Region{Kind: types.ReEmpty}
	case strings.HasPrefix(name, "_") && len(name) > 1:
		return types.InferRegion(p.u32(token{text: name[1:], off: t.off}))
	case strings.HasPrefix(name, "#"):
		return types.ScopeRegion(types.NodeID(p.u32(token{text: name[1:], off: t.off})))
	case name == "":
		p.failAt(t, "empty region name")
	}
	for i := len(p.binders) - 1; i >= 0; i-- {
		frame := p.binders[i]
		for _, n := range frame.names {
			if n == name {
				return types.LateBound(frame.id, types.BoundRegion{
					Kind: types.BrNamed,
					Def:  types.LocalDef(frame.id),
					Name: name,
				})
			}
		}
	}
	if r, ok := p.scope.lifetimes[name]; ok {
		return r
	}
	return types.FreeRegion(0, types.BoundRegion{Kind: types.BrNamed, Name: name})
}
