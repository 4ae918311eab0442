package driver

import "fmt"

// Op is a fold operation the driver can run over fixture cases.
type Op uint8

const (
	// OpSubst applies each case's substitution, Case.Passes times.
	OpSubst Op = iota
	// OpErase erases free regions.
	OpErase
	// OpRegions replaces free regions with Options.RegionTo.
	OpRegions
	// OpIdentity folds with the structural defaults only.
	OpIdentity
)

// Ops lists every operation in CLI order.
var Ops = [...]Op{OpSubst, OpErase, OpRegions, OpIdentity}

func (o Op) String() string {
	switch o {
	case OpSubst:
		return "subst"
	case OpErase:
		return "erase"
	case OpRegions:
		return "regions"
	case OpIdentity:
		return "identity"
	default:
		return fmt.Sprintf("Op(%d)", o)
	}
}

// ParseOp parses an operation name.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if op.String() == s {
			return op, nil
		}
	}
	return OpSubst, fmt.Errorf("unknown operation %q (expected: subst|erase|regions|identity)", s)
}
