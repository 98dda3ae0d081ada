// Package resolve maps item names typed by the player to inventory slots.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/dungeoncore/types"
)

// AmbiguityError indicates several different items matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no carried item matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you aren't carrying %q", e.Name)
}

// Item returns the inventory slot of the item called name.
// Copies of the same item resolve to the first slot.
func Item(inv []types.Item, name string) (int, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))

	slot := -1
	var matches []string
	for i, it := range inv {
		if !matchesName(it, nameLower) {
			continue
		}
		if containsStr(matches, it.Name) {
			continue
		}
		if slot < 0 {
			slot = i
		}
		matches = append(matches, it.Name)
	}

	switch len(matches) {
	case 0:
		return -1, &NotFoundError{Name: name}
	case 1:
		return slot, nil
	default:
		return -1, &AmbiguityError{Name: name, Candidates: matches}
	}
}

// matchesName checks an item's name and kind against the query (case-insensitive).
// "potion" matches "Health Potion" and any item of kind potion.
func matchesName(it types.Item, nameLower string) bool {
	if nameLower == "" {
		return false
	}
	if string(it.Kind) == nameLower {
		return true
	}
	itemName := strings.ToLower(it.Name)
	if itemName == nameLower {
		return true
	}
	for _, word := range strings.Fields(itemName) {
		if word == nameLower {
			return true
		}
	}
	return false
}

func containsStr(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
