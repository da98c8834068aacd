package model

// ResourceKind discriminates a harvestable world resource node (spec.md
// §4.4 "Tree/Stone" dispatch target).
type ResourceKind uint8

const (
	ResourceTree ResourceKind = iota
	ResourceStone
)

// String returns the catalog DamageYield.TargetKind string matching this
// resource kind ("tree"/"stone", spec.md §4.4 step 5).
func (k ResourceKind) String() string {
	switch k {
	case ResourceTree:
		return "tree"
	case ResourceStone:
		return "stone"
	default:
		return "unknown_resource"
	}
}

// ResourceNode is a harvestable world entity (a tree or a stone deposit):
// damaged by the combat pipeline, yielding a rolled resource quantity to
// the attacker, and respawning after a uniform random delay once depleted
// (spec.md §4.4 dispatch rule for Tree/Stone).
type ResourceNode struct {
	ID        ResourceID
	Kind      ResourceKind
	X, Y      float64
	Health    float64
	MaxHealth float64
	Depleted  bool
	LastHitAt int64
}
