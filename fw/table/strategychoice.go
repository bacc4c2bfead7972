package table

import (
	"fmt"

	enc "github.com/ndnfw/planes/std/encoding"
)

// strategyChoiceEntry is one node of the Strategy-Choice trie: a prefix
// for which a particular strategy has been explicitly installed.
type strategyChoiceEntry struct {
	name     enc.Name
	strategy string
	children map[enc.Component]*strategyChoiceEntry
}

func newStrategyChoiceEntry(name enc.Name) *strategyChoiceEntry {
	return &strategyChoiceEntry{name: name, children: make(map[enc.Component]*strategyChoiceEntry)}
}

// StrategyChoiceEntry is the public view of a matched entry.
type StrategyChoiceEntry = strategyChoiceEntry

// Name returns the prefix this entry was installed under.
func (e *strategyChoiceEntry) Name() enc.Name { return e.name }

// Strategy returns the name of the strategy installed at this entry.
func (e *strategyChoiceEntry) Strategy() string { return e.strategy }

// StrategyChoice maps name prefixes to the name of the strategy installed
// over them, with longest-prefix-match lookup. A root entry is always
// present so every lookup resolves to something.
type StrategyChoice struct {
	root *strategyChoiceEntry
}

// NewStrategyChoice constructs a StrategyChoice table whose root ("/") is
// installed with defaultStrategy.
func NewStrategyChoice(defaultStrategy string) *StrategyChoice {
	root := newStrategyChoiceEntry(enc.Name{})
	root.strategy = defaultStrategy
	return &StrategyChoice{root: root}
}

// Install registers strategyName as the effective strategy for name and
// everything under it that doesn't have a more specific registration.
func (sc *StrategyChoice) Install(name enc.Name, strategyName string) {
	node := sc.root
	for i, c := range name {
		child, ok := node.children[c]
		if !ok {
			child = newStrategyChoiceEntry(name[:i+1].Clone())
			node.children[c] = child
		}
		node = child
	}
	node.strategy = strategyName
}

// Uninstall removes any explicit registration at exactly name, leaving
// the longest-prefix match to fall through to an ancestor.
func (sc *StrategyChoice) Uninstall(name enc.Name) {
	node := sc.root
	for _, c := range name {
		child, ok := node.children[c]
		if !ok {
			return
		}
		node = child
	}
	if node != sc.root {
		node.strategy = ""
	}
}

// FindEffectiveStrategy returns the name of the strategy governing name:
// the strategy installed at the longest registered prefix of name.
func (sc *StrategyChoice) FindEffectiveStrategy(name enc.Name) string {
	node := sc.root
	best := sc.root.strategy
	for _, c := range name {
		child, ok := node.children[c]
		if !ok {
			break
		}
		node = child
		if node.strategy != "" {
			best = node.strategy
		}
	}
	return best
}

// HasStrategy reports whether a strategy is explicitly installed at
// exactly name.
func (sc *StrategyChoice) HasStrategy(name enc.Name) bool {
	node := sc.root
	for _, c := range name {
		child, ok := node.children[c]
		if !ok {
			return false
		}
		node = child
	}
	return node.strategy != ""
}

// All returns every entry with an explicitly installed strategy,
// including the root, for the admin "list" dataset.
func (sc *StrategyChoice) All() []*StrategyChoiceEntry {
	var entries []*StrategyChoiceEntry
	var walk func(*strategyChoiceEntry)
	walk = func(e *strategyChoiceEntry) {
		if e.strategy != "" {
			entries = append(entries, e)
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(sc.root)
	return entries
}

// ErrNoStrategyRegistered describes a lookup that finds no installed
// strategy name. No StrategyChoice method returns it: FindEffectiveStrategy
// falls back to the root's name, which is empty only when the table was
// constructed with an empty default.
var ErrNoStrategyRegistered = fmt.Errorf("strategychoice: no strategy registered")
