package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Fixture and configuration input
	FixInfo             Code = 1000
	FixSyntax           Code = 1001
	FixUnknownItem      Code = 1002
	FixUnknownParam     Code = 1003
	FixArity            Code = 1004
	FixDuplicate        Code = 1005
	FixUnknownOperation Code = 1006
	FixMismatch         Code = 1007
	FixNotFolded        Code = 1008

	// Snapshot import/export
	SnapInfo    Code = 4000
	SnapDecode  Code = 4001
	SnapVersion Code = 4002

	// Observability
	ObsInfo    Code = 8000
	ObsTimings Code = 8001

	// Internal compiler errors raised while folding. These are never caused by
	// user input; they signal a broken contract in an earlier phase.
	ICEInfo             Code = 9000
	ICEInvalidType      Code = 9001
	ICEMalformedType    Code = 9002
	ICEMissingTypeSubst Code = 9003
	ICEMissingRegion    Code = 9004
	ICEFoldTooDeep      Code = 9005
	ICEBinderStack      Code = 9006
	ICEUnexpected       Code = 9099
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		FixInfo:             "Fixture information",
		FixSyntax:           "Malformed type expression",
		FixUnknownItem:      "Unknown item",
		FixUnknownParam:     "Unknown generic parameter",
		FixArity:            "Wrong number of type arguments",
		FixDuplicate:        "Duplicate declaration",
		FixUnknownOperation: "Unknown fold operation",
		FixMismatch:         "Fold result differs from expectation",
		FixNotFolded:        "Fold result violates an invariant",
		SnapInfo:            "Snapshot information",
		SnapDecode:          "Snapshot cannot be decoded",
		SnapVersion:         "Snapshot schema version mismatch",
		ObsInfo:             "Observability information",
		ObsTimings:          "Fold timings",
		ICEInfo:             "Internal compiler error",
		ICEInvalidType:      "Invalid type handle",
		ICEMalformedType:    "Malformed type term",
		ICEMissingTypeSubst: "Type parameter out of range for substitution",
		ICEMissingRegion:    "Region parameter out of range for substitution",
		ICEFoldTooDeep:      "Type nesting exceeds fold depth limit",
		ICEBinderStack:      "Binder scope stack corrupted",
		ICEUnexpected:       "Unexpected panic while folding",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("FIX%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("SNAP%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("ICE%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// IsICE reports whether c is an internal compiler error code.
func (c Code) IsICE() bool {
	return c >= ICEInfo && c < 10000
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
