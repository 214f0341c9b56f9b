package strips

import (
	"fmt"
	"slices"
)

// Signature declares a predicate symbol and its formal arguments.
type Signature struct {
	Name string
	Args []string
}

// Arity returns the number of arguments.
func (s Signature) Arity() int { return len(s.Args) }

// Domain is a named catalog of action schemas. It is read-only once built.
type Domain struct {
	name         string
	requirements []string
	predicates   []Signature
	actions      []*Action
	byName       map[string]*Action
}

// NewDomain builds a domain. Action names must be unique.
func NewDomain(name string, requirements []string, predicates []Signature, actions []*Action) (*Domain, error) {
	byName := make(map[string]*Action, len(actions))
	for _, a := range actions {
		if _, ok := byName[a.name]; ok {
			return nil, &SchemaError{Action: a.name, Detail: "duplicate action"}
		}
		byName[a.name] = a
	}
	preds := make([]Signature, len(predicates))
	for i, p := range predicates {
		preds[i] = Signature{Name: p.Name, Args: slices.Clone(p.Args)}
	}
	return &Domain{
		name:         name,
		requirements: slices.Clone(requirements),
		predicates:   preds,
		actions:      slices.Clone(actions),
		byName:       byName,
	}, nil
}

// Name returns the domain name.
func (d *Domain) Name() string { return d.name }

// Requirements returns the requirement tags, as declared.
func (d *Domain) Requirements() []string { return slices.Clone(d.requirements) }

// Predicates returns the predicate signatures.
func (d *Domain) Predicates() []Signature { return slices.Clone(d.predicates) }

// Actions returns the schemas in declaration order.
func (d *Domain) Actions() []*Action { return slices.Clone(d.actions) }

// Action returns the schema called name.
func (d *Domain) Action(name string) (*Action, bool) {
	a, ok := d.byName[name]
	return a, ok
}

// Instantiate binds the named schema positionally to objects.
func (d *Domain) Instantiate(name string, objects ...string) (*Action, error) {
	a, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in domain %s", ErrUnknownAction, name, d.name)
	}
	return a.BindObjects(objects...)
}

// MakeInstantiatedActions grounds every schema against s and returns the
// union of the legal instances, schema by schema.
func (d *Domain) MakeInstantiatedActions(s State) ([]*Action, error) {
	var out []*Action
	for _, a := range d.actions {
		acts, err := a.AllInstantiationsOf(s)
		if err != nil {
			return nil, err
		}
		out = append(out, acts...)
	}
	return out, nil
}
