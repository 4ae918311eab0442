// Package fold provides the concrete folders built on the types.Folder
// contract: substitution, region-aware rewriting, region erasure and the
// bottom-up combinator.
//
// A folder embeds Base and initializes it with a pointer to itself:
//
//	type myFolder struct{ fold.Base }
//
//	func newMyFolder(tcx *types.Interner) *myFolder {
//		f := &myFolder{}
//		f.Init(f, tcx)
//		return f
//	}
//
// Base routes every hook it provides back through that pointer, so a hook the
// outer folder overrides is seen at every depth, not only at the root.
//
// Folders hold per-traversal state (the binder stack, the current depth) and
// must not be shared between goroutines. The interner they build terms with
// may be.
package fold
