package x86

import (
	"errors"
	"fmt"
)

var errPatternExists = errors.New("pattern already registered")

// BitTrie maps leading bit patterns of 1 to 8 bits to opcode classes.
// Every node where an inserted pattern ends is terminal, so patterns of
// different lengths can share a prefix.
type BitTrie struct {
	root trieNode
}

type trieNode struct {
	children [2]*trieNode
	terminal bool
	opcode   Opcode
}

// NewBitTrie returns an empty trie.
func NewBitTrie() *BitTrie {
	return &BitTrie{}
}

// Insert registers the lowest length bits of bits as a pattern, most
// significant bit first.
func (t *BitTrie) Insert(bits byte, length int, opcode Opcode) error {
	if length < 1 || length > 8 {
		return fmt.Errorf("invalid pattern length %d", length)
	}

	node := &t.root
	for i := length - 1; i >= 0; i-- {
		bit := (bits >> i) & 1
		if node.children[bit] == nil {
			node.children[bit] = &trieNode{}
		}
		node = node.children[bit]
	}

	if node.terminal {
		return fmt.Errorf("%w: %0*b", errPatternExists, length, bits&byte(1<<length-1))
	}
	node.terminal = true
	node.opcode = opcode
	return nil
}

// Match returns the opcode of the longest inserted pattern that is a prefix
// of b and the number of bits it consumed.
func (t *BitTrie) Match(b byte) (Opcode, int, bool) {
	var (
		opcode  Opcode
		matched int
	)

	node := &t.root
	for i := 7; i >= 0; i-- {
		node = node.children[(b>>i)&1]
		if node == nil {
			break
		}
		if node.terminal {
			opcode = node.opcode
			matched = 8 - i
		}
	}
	return opcode, matched, matched > 0
}
