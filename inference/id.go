package inference

import "fmt"

// ID identifies the reason a lemma was produced
type ID int

const (
	Unknown ID = iota
	// QuantifiersInstance is a generic instantiation lemma (not Q) or body[t]
	QuantifiersInstance
	// QuantifiersInstEMatch is an instantiation found by trigger matching
	QuantifiersInstEMatch
	// QuantifiersInstEnum is an instantiation found by enumerating ground terms
	QuantifiersInstEnum
	// QuantifiersInstFinite is an instantiation over a finite domain
	QuantifiersInstFinite
	// QuantifiersSkolemize is Q or (not body[k]) for fresh constants k
	QuantifiersSkolemize
	// QuantifiersReduceAlphaEq is Q1 = Q2 for alpha equivalent Q1 and Q2
	QuantifiersReduceAlphaEq
	// GroundBlocking excludes a ground assignment that is inconsistent with equality
	GroundBlocking
)

var idNames = map[ID]string{
	Unknown:                  "UNKNOWN",
	QuantifiersInstance:      "QUANTIFIERS_INSTANCE",
	QuantifiersInstEMatch:    "QUANTIFIERS_INST_E_MATCHING",
	QuantifiersInstEnum:      "QUANTIFIERS_INST_ENUM",
	QuantifiersInstFinite:    "QUANTIFIERS_INST_FMF",
	QuantifiersSkolemize:     "QUANTIFIERS_SKOLEMIZE",
	QuantifiersReduceAlphaEq: "QUANTIFIERS_REDUCE_ALPHA_EQ",
	GroundBlocking:           "GROUND_BLOCKING",
}

func (i ID) String() string {
	if s, ok := idNames[i]; ok {
		return s
	}
	return fmt.Sprintf("ID(%d)", int(i))
}
