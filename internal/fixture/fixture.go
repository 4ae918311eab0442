// Package fixture loads folding test cases from TOML files.
//
// A fixture declares nominal items and cases:
//
//	[[item]]
//	name = "Pair"
//	kind = "struct"
//	params = ["T", "U"]
//
//	[[case]]
//	name = "pair-nested"
//	params = ["T", "U"]
//	type = "Pair<T, U>"
//	passes = 2
//	[case.subst]
//	type = ["i32", "Pair<T, bool>"]
//	[case.expect]
//	subst = "Pair<i32, Pair<i32, bool>>"
//
// Types are written in a small expression language; see ParseType.
package fixture

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"tyfold/internal/diag"
	"tyfold/internal/source"
	"tyfold/internal/types"
)

// ItemKind is the kind of a declared nominal item.
type ItemKind uint8

const (
	ItemStruct ItemKind = iota
	ItemEnum
	ItemTrait
)

func (k ItemKind) String() string {
	switch k {
	case ItemEnum:
		return "enum"
	case ItemTrait:
		return "trait"
	default:
		return "struct"
	}
}

func parseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "", "struct":
		return ItemStruct, true
	case "enum":
		return ItemEnum, true
	case "trait":
		return ItemTrait, true
	}
	return ItemStruct, false
}

// Item is a declared struct, enum or trait.
type Item struct {
	Name      string
	Kind      ItemKind
	Def       types.DefID
	Params    []string
	Lifetimes []string
}

// Case is one type to fold, with the substitution to apply to it.
type Case struct {
	Name   string
	Span   source.Span
	Ty     types.TypeID
	Substs *types.Substs
	// Passes is how many times the substitution is applied.
	Passes int
	// Expect maps an operation name to the expected rendering of the result.
	Expect map[string]string
	Scope  *Scope
}

// Fixture is a loaded fixture file.
type Fixture struct {
	Path  string
	File  source.FileID
	Items []*Item
	Cases []*Case
}

type rawFixture struct {
	Items []rawItem `toml:"item"`
	Cases []rawCase `toml:"case"`
}

type rawItem struct {
	Name      string   `toml:"name"`
	Kind      string   `toml:"kind"`
	Params    []string `toml:"params"`
	Lifetimes []string `toml:"lifetimes"`
}

type rawCase struct {
	Name      string            `toml:"name"`
	Type      string            `toml:"type"`
	Params    []string          `toml:"params"`
	FnParams  []string          `toml:"fn_params"`
	Lifetimes []string          `toml:"lifetimes"`
	Self      bool              `toml:"self"`
	Passes    int               `toml:"passes"`
	Subst     *rawSubst         `toml:"subst"`
	Expect    map[string]string `toml:"expect"`
}

type rawSubst struct {
	Type    []string `toml:"type"`
	Self    []string `toml:"self"`
	Fn      []string `toml:"fn"`
	Regions []string `toml:"regions"`
	Erased  bool     `toml:"erased"`
}

// Load reads a fixture file into fs and interns its cases into tcx. I/O and
// TOML syntax errors are returned; problems with individual items or cases
// are reported to r and the offending case is skipped.
func Load(fs *source.FileSet, tcx *types.Interner, path string, r diag.Reporter) (*Fixture, error) {
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return build(fs, tcx, fileID, r)
}

// Parse is Load for content already in memory.
func Parse(fs *source.FileSet, tcx *types.Interner, name string, content []byte, r diag.Reporter) (*Fixture, error) {
	return build(fs, tcx, fs.AddVirtual(name, content), r)
}

func build(fs *source.FileSet, tcx *types.Interner, fileID source.FileID, r diag.Reporter) (*Fixture, error) {
	file := fs.Get(fileID)
	path := file.Path

	var raw rawFixture
	if _, err := toml.Decode(string(file.Content), &raw); err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			sp := spanOf(fileID, perr.Position.Start, max(perr.Position.Len, 1))
			diag.ReportError(r, diag.FixSyntax, sp, perr.Message).Emit()
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	b := &builder{
		tcx:   tcx,
		r:     r,
		file:  fileID,
		text:  string(file.Content),
		items: make(map[string]*Item, len(raw.Items)),
		nodes: &nodeAlloc{next: 1000},
	}
	fx := &Fixture{Path: path, File: fileID}
	for i := range raw.Items {
		if it := b.item(i, raw.Items[i]); it != nil {
			fx.Items = append(fx.Items, it)
		}
	}
	seen := make(map[string]bool, len(raw.Cases))
	for i := range raw.Cases {
		c := b.caseOf(raw.Cases[i])
		if c == nil {
			continue
		}
		if seen[c.Name] {
			diag.ReportError(r, diag.FixDuplicate, c.Span, fmt.Sprintf("duplicate case %q", c.Name)).Emit()
			continue
		}
		seen[c.Name] = true
		fx.Cases = append(fx.Cases, c)
	}
	return fx, nil
}

// Case returns the case named name.
func (fx *Fixture) Case(name string) (*Case, bool) {
	name = norm.NFC.String(name)
	for _, c := range fx.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ExpectedOps lists the operations that some case has an expectation for.
func (fx *Fixture) ExpectedOps() []string {
	set := make(map[string]struct{})
	for _, c := range fx.Cases {
		for op := range c.Expect {
			set[op] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for op := range set {
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}

type builder struct {
	tcx    *types.Interner
	r      diag.Reporter
	file   source.FileID
	text   string
	cursor int
	items  map[string]*Item
	nodes  *nodeAlloc
}

func (b *builder) item(i int, raw rawItem) *Item {
	name := norm.NFC.String(strings.TrimSpace(raw.Name))
	sp := b.locate(raw.Name)
	if name == "" {
		diag.ReportError(b.r, diag.FixSyntax, sp, fmt.Sprintf("item #%d has no name", i+1)).Emit()
		return nil
	}
	kind, ok := parseItemKind(raw.Kind)
	if !ok {
		diag.ReportError(b.r, diag.FixSyntax, sp, fmt.Sprintf("item %q has unknown kind %q", name, raw.Kind)).Emit()
		return nil
	}
	if _, dup := b.items[name]; dup {
		diag.ReportError(b.r, diag.FixDuplicate, sp, fmt.Sprintf("duplicate item %q", name)).Emit()
		return nil
	}
	it := &Item{
		Name:      name,
		Kind:      kind,
		Def:       types.LocalDef(b.nodes.alloc()),
		Params:    normalizeNames(raw.Params),
		Lifetimes: normalizeNames(raw.Lifetimes),
	}
	b.items[name] = it
	b.tcx.RegisterName(it.Def, name)
	return it
}

func (b *builder) caseOf(raw rawCase) *Case {
	name := norm.NFC.String(strings.TrimSpace(raw.Name))
	nameSpan := b.locate(raw.Name)
	if name == "" {
		diag.ReportError(b.r, diag.FixSyntax, nameSpan, "case has no name").Emit()
		return nil
	}

	sc := b.scopeFor(raw)
	c := &Case{
		Name:   name,
		Span:   nameSpan,
		Passes: raw.Passes,
		Expect: raw.Expect,
		Scope:  sc,
	}
	if c.Passes <= 0 {
		c.Passes = 1
	}

	ty, ok := b.parseIn(sc, raw.Type, "type of case "+name)
	if !ok {
		return nil
	}
	c.Ty = ty

	if raw.Subst != nil {
		substs, ok := b.substs(sc, name, raw.Subst)
		if !ok {
			return nil
		}
		c.Substs = substs
	}
	return c
}

// scopeFor declares the case's generics: params in the type space, Self in
// the self space, fn_params in the fn space and lifetimes as early-bound
// regions of the type space.
func (b *builder) scopeFor(raw rawCase) *Scope {
	sc := &Scope{
		tcx:       b.tcx,
		items:     b.items,
		params:    make(map[string]types.TypeID),
		lifetimes: make(map[string]types.Region),
		nodes:     b.nodes,
	}
	declare := func(space types.ParamSpace, names []string) {
		for i, n := range normalizeNames(names) {
			def := types.LocalDef(b.nodes.alloc())
			b.tcx.RegisterName(def, n)
			sc.params[n] = b.tcx.MkParam(space, uint32(i), def) //nolint:gosec // fixture sized
		}
	}
	declare(types.TypeSpace, raw.Params)
	declare(types.FnSpace, raw.FnParams)
	if raw.Self {
		sc.self = b.tcx.MkSelf(types.LocalDef(b.nodes.alloc()))
	}
	decl := b.nodes.alloc()
	for i, n := range normalizeNames(raw.Lifetimes) {
		sc.lifetimes[n] = types.EarlyBound(decl, types.TypeSpace, uint32(i), n) //nolint:gosec // fixture sized
	}
	return sc
}

func (b *builder) substs(sc *Scope, caseName string, raw *rawSubst) (*types.Substs, bool) {
	parseAll := func(space string, exprs []string) ([]types.TypeID, bool) {
		out := make([]types.TypeID, 0, len(exprs))
		for _, e := range exprs {
			ty, ok := b.parseIn(sc, e, fmt.Sprintf("%s argument of case %s", space, caseName))
			if !ok {
				return nil, false
			}
			out = append(out, ty)
		}
		return out, true
	}
	tys, ok1 := parseAll("type", raw.Type)
	self, ok2 := parseAll("self", raw.Self)
	fns, ok3 := parseAll("fn", raw.Fn)
	if !ok1 || !ok2 || !ok3 {
		return nil, false
	}
	perSpace := types.NewVecPerParamSpace(tys, self, fns)
	if raw.Erased {
		if len(raw.Regions) > 0 {
			diag.ReportError(b.r, diag.FixSyntax, b.locate("erased"),
				fmt.Sprintf("case %s: erased substitution cannot list regions", caseName)).Emit()
			return nil, false
		}
		return types.NewErasedSubsts(perSpace), true
	}
	regions := make([]types.Region, 0, len(raw.Regions))
	for _, e := range raw.Regions {
		r, err := sc.ParseRegion(e)
		if err != nil {
			b.reportParse(e, err, "region argument of case "+caseName)
			return nil, false
		}
		regions = append(regions, r)
	}
	return types.NewSubsts(perSpace, types.SingleSpace(types.TypeSpace, regions)), true
}

func (b *builder) parseIn(sc *Scope, expr, what string) (types.TypeID, bool) {
	if strings.TrimSpace(expr) == "" {
		diag.ReportError(b.r, diag.FixSyntax, b.locate(expr), what+": empty type expression").Emit()
		return types.NoTypeID, false
	}
	ty, err := sc.ParseType(expr)
	if err != nil {
		b.reportParse(expr, err, what)
		return types.NoTypeID, false
	}
	return ty, true
}

func (b *builder) reportParse(expr string, err error, what string) {
	sp := b.locate(expr)
	code := diag.FixSyntax
	if pe, ok := err.(*ParseError); ok {
		if !sp.Empty() {
			sp = spanOf(sp.File, int(sp.Start)+pe.Off, 1)
		}
		switch {
		case strings.HasPrefix(pe.Msg, "unknown"):
			code = diag.FixUnknownItem
		case strings.Contains(pe.Msg, "expects"):
			code = diag.FixArity
		case strings.Contains(pe.Msg, "not declared"):
			code = diag.FixUnknownParam
		}
		err = fmt.Errorf("%s", pe.Msg)
	}
	diag.ReportError(b.r, code, sp, fmt.Sprintf("%s: %v", what, err)).
		WithNote(sp, "in `"+expr+"`").
		Emit()
}

// locate finds the next quoted occurrence of s in the fixture text and
// returns the span of its contents. Searching resumes after the previous
// match so that repeated strings map to successive occurrences.
func (b *builder) locate(s string) source.Span {
	quoted := `"` + s + `"`
	idx := strings.Index(b.text[b.cursor:], quoted)
	if idx < 0 {
		if idx = strings.Index(b.text, quoted); idx < 0 {
			return source.Span{File: b.file}
		}
	} else {
		idx += b.cursor
		b.cursor = idx + len(quoted)
	}
	return spanOf(b.file, idx+1, len(s))
}

func spanOf(file source.FileID, start, n int) source.Span {
	return source.Span{File: file, Start: uint32(start), End: uint32(start + n)} //nolint:gosec // offsets within file
}

func normalizeNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = norm.NFC.String(strings.TrimSpace(n))
	}
	return out
}
