package obj

import "github.com/jakecoffman/cp"

// FruitContainer owns a set of attached fruit. Fruit hold a non-owning
// reference to it until they detach.
type FruitContainer interface {
	Spawn() *Fruit
	RemoveMember(f *Fruit)
	Reach(target cp.Vector)
	StopReaching(detached bool)
}

var _ FruitContainer = (*Tree)(nil)
