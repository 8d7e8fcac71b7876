package localscope

import (
	"fmt"
	"sort"

	"github.com/sourcegraph/scip/bindings/go/scip"
)

// state tracks where a tree is in its build/resolve/emit lifecycle
// (spec.md §5). Insertion is only legal while Building; walking is only
// legal once Frozen.
type state int

const (
	stateBuilding state = iota
	stateFrozen
	stateDrained
)

// tree is the scope tree a single document resolves into. root always
// spans the whole document: rootScope (core.go) picks a captured scope
// covering the root node, or synthesizes one when none does.
type tree struct {
	root  *Scope
	state state
}

func newTree(root *Scope) *tree {
	return &tree{root: root, state: stateBuilding}
}

func (t *tree) mustBeBuilding(op string) error {
	if t.state != stateBuilding {
		return fmt.Errorf("localscope: cannot %s: tree is not in Building state", op)
	}
	return nil
}

// insertScope finds the smallest existing scope that contains s and
// attaches s as one of its children. Callers must insert scopes ordered
// from widest to narrowest range so that every scope is attached beneath
// its true lexical parent (spec.md §4.3).
func (t *tree) insertScope(s *Scope) error {
	if err := t.mustBeBuilding("insert scope"); err != nil {
		return err
	}
	if s.Node.Equals(t.root.Node) {
		return nil
	}
	insertScopeInto(t.root, s)
	return nil
}

func insertScopeInto(parent *Scope, s *Scope) {
	for _, child := range parent.Children {
		if child.Range.Contains(s.Range) && child.Range != s.Range {
			insertScopeInto(child, s)
			return
		}
	}
	parent.Children = append(parent.Children, s)
}

// insertDefinition places d according to its ScopeModifier (spec.md §4.2):
// Global goes straight to root; Local goes to the innermost scope
// containing d's range; Parent goes one level up from where Local would
// have placed it, degrading to Global if that scope is the root.
func (t *tree) insertDefinition(d Definition) error {
	if err := t.mustBeBuilding("insert definition"); err != nil {
		return err
	}

	if d.ScopeModifier == ScopeGlobal {
		t.root.Definitions[d.Identifier] = d
		return nil
	}

	path := scopePath(t.root, d.Range)
	target := path[len(path)-1]

	if d.ScopeModifier == ScopeParent {
		if len(path) >= 2 {
			target = path[len(path)-2]
		} else {
			target = t.root
		}
	}

	target.Definitions[d.Identifier] = d
	return nil
}

// insertReference places r in the innermost scope containing its range,
// unless r's node is itself the identifier node of a definition already
// recorded in any scope on the path from the root down to that scope — a
// definition's own name is never also
// counted as a use of itself (spec.md §4.2, no-self-reference property).
func (t *tree) insertReference(r Reference) error {
	if err := t.mustBeBuilding("insert reference"); err != nil {
		return err
	}

	path := scopePath(t.root, r.Range)

	// A reference's own node can equal the identifier node of a
	// definition stored in any ancestor scope on this path, not just the
	// innermost one: a ScopeGlobal/ScopeParent definition is stored
	// higher up than the lexical position of its own name. Check the
	// whole path so self-reference dropping holds for every modifier.
	for _, scope := range path {
		if def, ok := scope.Definitions[r.Identifier]; ok && def.Node.Equals(r.Node) {
			return nil
		}
	}

	target := path[len(path)-1]
	target.References[r.Identifier] = append(target.References[r.Identifier], r)
	return nil
}

// scopePath returns the chain of scopes from root down to the innermost
// scope containing rng, root first.
func scopePath(root *Scope, rng ByteRange) []*Scope {
	path := []*Scope{root}
	current := root
	for {
		next := containingChild(current, rng)
		if next == nil {
			return path
		}
		path = append(path, next)
		current = next
	}
}

func containingChild(parent *Scope, rng ByteRange) *Scope {
	for _, child := range parent.Children {
		if child.Range.Contains(rng) {
			return child
		}
	}
	return nil
}

// freeze stabilizes the tree's internal ordering and forbids further
// insertion (spec.md §5). References are sorted by Range so that, within
// a scope, occurrences are emitted in source order; children are sorted
// the same way so sibling scopes walk left to right.
func (t *tree) freeze() error {
	if err := t.mustBeBuilding("freeze"); err != nil {
		return err
	}
	stabilize(t.root)
	t.state = stateFrozen
	return nil
}

func stabilize(s *Scope) {
	for _, refs := range s.References {
		sort.Slice(refs, func(i, j int) bool { return refs[i].Range.Less(refs[j].Range) })
	}
	sort.Slice(s.Children, func(i, j int) bool { return s.Children[i].Range.Less(s.Children[j].Range) })
	for _, child := range s.Children {
		stabilize(child)
	}
}

// emit walks the frozen tree exactly once, minting a document-local
// "local N" symbol per definition and an Occurrence per definition and
// per reference that resolves to a visible definition (spec.md §4.4,
// §4.5). A tree can only be emitted once: emit drains it, matching the
// Frozen -> Drained transition spec.md §5 requires.
func (t *tree) emit() ([]*scip.Occurrence, error) {
	if t.state == stateBuilding {
		return nil, fmt.Errorf("localscope: cannot emit: tree has not been frozen")
	}
	if t.state == stateDrained {
		return nil, fmt.Errorf("localscope: cannot emit: tree has already been drained")
	}

	occs := make([]*scip.Occurrence, 0, capacityHint(t.root))
	counter := 0
	emitScope(t.root, &occs, &counter)

	t.state = stateDrained
	return occs, nil
}

func capacityHint(s *Scope) int {
	n := len(s.Definitions)
	for _, refs := range s.References {
		n += len(refs)
	}
	for _, child := range s.Children {
		n += capacityHint(child)
	}
	return n
}

// emitScope emits every definition declared directly in s, each paired
// with the references visible to it, then recurses into s's children.
// Definitions are walked in source order (node start byte ascending) so
// that local-symbol ids increase left to right as spec.md §4.5/§4.4
// requires, regardless of map iteration order.
func emitScope(s *Scope, occs *[]*scip.Occurrence, counter *int) {
	for _, d := range sortedDefinitions(s) {
		*counter++
		symbol := formatLocal(*counter)

		*occs = append(*occs, newOccurrence(d.Node, symbol, scip.SymbolRole_Definition))

		emitShadowAware(s, d.Identifier, symbol, occs)
	}

	for _, child := range s.Children {
		emitScope(child, occs, counter)
	}
}

func sortedDefinitions(s *Scope) []Definition {
	out := make([]Definition, 0, len(s.Definitions))
	for _, d := range s.Definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range.Less(out[j].Range) })
	return out
}

// emitShadowAware attaches every reference to identifier visible from
// scope's own References, then descends into scope's children — except
// into any child that redeclares identifier itself, since that
// descendant's occurrences of the name resolve to its own, shadowing
// definition instead (spec.md §4.5 shadowing property). This is the walk
// the original implementation's occurrences_for_children left stubbed.
func emitShadowAware(scope *Scope, identifier string, symbol string, occs *[]*scip.Occurrence) {
	for _, ref := range scope.References[identifier] {
		*occs = append(*occs, newOccurrence(ref.Node, symbol, scip.SymbolRole_UnspecifiedSymbolRole))
	}

	for _, child := range scope.Children {
		if _, shadowed := child.Definitions[identifier]; shadowed {
			continue
		}
		emitShadowAware(child, identifier, symbol, occs)
	}
}

func newOccurrence(node SyntaxNode, symbol string, role scip.SymbolRole) *scip.Occurrence {
	return &scip.Occurrence{
		Range:       node.ScipRange(),
		Symbol:      symbol,
		SymbolRoles: int32(role),
	}
}

// formatLocal produces the document-scoped textual symbol spec.md §6
// specifies for locals: "local N", with N pre-incremented from 0 for every
// definition visited in emission order, so the first definition is
// "local 1" (spec.md §4.4).
func formatLocal(n int) string {
	return fmt.Sprintf("local %d", n)
}
