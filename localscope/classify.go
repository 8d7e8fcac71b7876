package localscope

import (
	"context"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

const (
	prefixScope      = "scope"
	prefixDefinition = "definition"
	prefixReference  = "reference"

	scopePropertyKey = "scope"
)

// classify implements spec.md §4.1: it iterates every match of cfg.Query
// over parsed, classifies each by the prefix of its capture name, and
// returns the three flat collections §4.1 describes.
//
// Exactly one of scope/definition/reference must apply to a match. Mixed
// or empty category sets are fatal, matching spec.md §4.1/§4.7: partial
// output must never be returned alongside an error.
func classify(ctx context.Context, cfg *Configuration, parsed *tree_sitter.Tree, source []byte) ([]*Scope, []Definition, []Reference, error) {
	cursor := tree_sitter.NewQueryCursor()

	captureNames := cfg.Query.CaptureNames()

	var (
		scopes      []*Scope
		definitions []Definition
		references  []Reference
	)

	matches := cursor.Matches(cfg.Query, parsed.RootNode(), source)
	for {
		select {
		case <-ctx.Done():
			return nil, nil, nil, ctx.Err()
		default:
		}

		match := matches.Next()
		if match == nil {
			break
		}

		var (
			sawScope, sawDefinition, sawReference bool
			scopeNode, defNode, refNode           tree_sitter.Node
			defGroup, refGroup                    string
		)

		for _, capture := range match.Captures {
			name := captureNames[capture.Index]

			switch {
			case strings.HasPrefix(name, prefixScope):
				if sawScope {
					return nil, nil, nil, &MalformedQueryError{
						PatternIndex: uint(match.PatternIndex),
						Reason:       "more than one scope capture in a single match",
					}
				}
				sawScope = true
				scopeNode = capture.Node

			case strings.HasPrefix(name, prefixDefinition):
				if sawDefinition {
					return nil, nil, nil, &MalformedQueryError{
						PatternIndex: uint(match.PatternIndex),
						Reason:       "more than one definition capture in a single match",
					}
				}
				sawDefinition = true
				defGroup = name
				defNode = capture.Node

			case strings.HasPrefix(name, prefixReference):
				if sawReference {
					return nil, nil, nil, &MalformedQueryError{
						PatternIndex: uint(match.PatternIndex),
						Reason:       "more than one reference capture in a single match",
					}
				}
				sawReference = true
				refGroup = name
				refNode = capture.Node
			}
		}

		categories := 0
		for _, saw := range [...]bool{sawScope, sawDefinition, sawReference} {
			if saw {
				categories++
			}
		}

		switch {
		case categories == 0:
			return nil, nil, nil, &InvariantViolationError{
				PatternIndex: uint(match.PatternIndex),
				Reason:       "match carries no scope, definition, or reference capture",
			}
		case categories > 1:
			return nil, nil, nil, &MalformedQueryError{
				PatternIndex: uint(match.PatternIndex),
				Reason:       "match mixes scope/definition/reference capture categories",
			}
		}

		switch {
		case sawDefinition:
			node := newSyntaxNode(defNode)
			identifier, err := node.Text(source)
			if err != nil {
				return nil, nil, nil, err
			}
			modifier, err := scopeModifierFor(cfg.Query, match.PatternIndex)
			if err != nil {
				return nil, nil, nil, err
			}
			definitions = append(definitions, Definition{
				Group:         defGroup,
				Identifier:    identifier,
				Node:          node,
				Range:         node.Range(),
				ScopeModifier: modifier,
			})

		case sawReference:
			node := newSyntaxNode(refNode)
			identifier, err := node.Text(source)
			if err != nil {
				return nil, nil, nil, err
			}
			references = append(references, Reference{
				Group:      refGroup,
				Identifier: identifier,
				Node:       node,
				Range:      node.Range(),
			})

		case sawScope:
			scopes = append(scopes, newScope(newSyntaxNode(scopeNode)))
		}
	}

	return scopes, definitions, references, nil
}

// scopeModifierFor reads the "scope" property of a definition's pattern,
// per spec.md §4.1. Absence defaults to Local; any value other than
// global/parent/local is fatal.
func scopeModifierFor(query *tree_sitter.Query, patternIndex uint) (ScopeModifier, error) {
	for _, prop := range query.PropertySettings(patternIndex) {
		if prop.Key != scopePropertyKey || prop.Value == nil {
			continue
		}

		switch *prop.Value {
		case "global":
			return ScopeGlobal, nil
		case "parent":
			return ScopeParent, nil
		case "local":
			return ScopeLocal, nil
		default:
			return ScopeLocal, &MalformedQueryError{
				PatternIndex: patternIndex,
				Reason:       "unknown scope modifier value: " + *prop.Value,
			}
		}
	}

	return ScopeLocal, nil
}
