package fixture

import (
	"unicode"
	"unicode/utf8"
)

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokLifetime
	tokNumber
	tokPunct
	tokArrow
	tokBad
)

type token struct {
	kind tokKind
	text string
	off  int
}

// lexExpr splits a type expression into tokens. Offsets are byte offsets
// into src.
func lexExpr(src string) []token {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '-' && i+1 < len(src) && src[i+1] == '>':
			toks = append(toks, token{kind: tokArrow, text: "->", off: i})
			i += 2
		case r == '\'':
			j := i + 1
			for j < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[j:])
				if !isIdentRune(r2) && r2 != '#' {
					break
				}
				j += s2
			}
			toks = append(toks, token{kind: tokLifetime, text: src[i+1 : j], off: i})
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:j], off: i})
			i = j
		case isIdentRune(r):
			j := i
			for j < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[j:])
				if !isIdentRune(r2) {
					break
				}
				j += s2
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], off: i})
			i = j
		case r < utf8.RuneSelf && isPunct(byte(r)):
			toks = append(toks, token{kind: tokPunct, text: src[i : i+1], off: i})
			i++
		default:
			toks = append(toks, token{kind: tokBad, text: string(r), off: i})
			i += size
		}
	}
	return append(toks, token{kind: tokEOF, off: len(src)})
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPunct(c byte) bool {
	switch c {
	case '<', '>', '(', ')', '[', ']', ',', ';', '&', '*', '!', '+':
		return true
	}
	return false
}
