package agent

// Variant tags the hostile kind. Behavioral differences between
// variants live in their Definition records; the state machine itself
// is shared. The enum exists for presentation hooks and for the fixed
// update iteration order.
type Variant int

const (
	VariantPatroller Variant = iota
	VariantDog
	VariantBoss
	VariantSpecialMonster

	VariantCount
)

// Variants lists every variant in the order the update pass walks them.
// This order is part of the simulation contract: registry writes by an
// earlier variant are visible to later ones within the same frame.
var Variants = [VariantCount]Variant{
	VariantPatroller,
	VariantDog,
	VariantBoss,
	VariantSpecialMonster,
}

func (v Variant) String() string {
	switch v {
	case VariantPatroller:
		return "patroller"
	case VariantDog:
		return "dog"
	case VariantBoss:
		return "boss"
	case VariantSpecialMonster:
		return "special_monster"
	}
	return "unknown"
}

// VariantFromKey maps a YAML key back to its variant tag.
func VariantFromKey(key string) (Variant, bool) {
	for _, v := range Variants {
		if v.String() == key {
			return v, true
		}
	}
	return 0, false
}

// State is the behavioral state of an agent.
type State int

const (
	StatePatrol State = iota
	StateChase
	StateFlee
)

func (s State) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateFlee:
		return "flee"
	}
	return "unknown"
}

// Alert level thresholds. Above suspiciousAlert an agent keeps chasing
// the last known player cell even after losing direct range; below
// investigateAlert it gives up investigating and returns to patrol.
const (
	maxAlert         = 100
	suspiciousAlert  = 45
	investigateAlert = 25
)
