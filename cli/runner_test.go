//go:build !libretro

package cli

import "testing"

// TestKeyBindings_BitsAreUnique tests that no two keys share an input bit
// and that every input bit has a key.
func TestKeyBindings_BitsAreUnique(t *testing.T) {
	seenBit := make(map[int]bool)
	seenKey := make(map[int]bool)

	for _, kb := range keyBindings {
		if kb.Bit < 0 || kb.Bit > 16 {
			t.Errorf("key %v: bit %d out of range", kb.Key, kb.Bit)
		}
		if seenBit[kb.Bit] {
			t.Errorf("bit %d bound twice", kb.Bit)
		}
		seenBit[kb.Bit] = true

		if seenKey[int(kb.Key)] {
			t.Errorf("key %v bound twice", kb.Key)
		}
		seenKey[int(kb.Key)] = true
	}

	// All seventeen input bits have a key
	for bit := 0; bit <= 16; bit++ {
		if !seenBit[bit] {
			t.Errorf("bit %d has no key binding", bit)
		}
	}
}
