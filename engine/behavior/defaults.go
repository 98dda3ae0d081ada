package behavior

import "github.com/nathoo/dungeoncore/types"

// Stock items used by default drop pools and level setup.
var (
	Gem      = types.Item{Kind: types.ItemGem, Name: "Gem", Description: "A cut stone that glitters in the torchlight."}
	Scroll   = types.Item{Kind: types.ItemScroll, Name: "Scroll", Description: "Reading it opens nearby doors."}
	Potion   = types.Item{Kind: types.ItemPotion, Name: "Potion", Description: "Restores some health."}
	Treasure = types.Item{Kind: types.ItemTreasure, Name: "Treasure", Description: "The hoard you came for."}
	Key      = types.Item{Kind: types.ItemKey, Name: "Key", Description: "An iron key."}
	Chest    = types.Item{Kind: types.ItemChest, Name: "Chest", Description: "A heavy chest. Open it to see what's inside.", Contents: []types.Item{Gem, Potion}}
)

// StockItem returns the stock item for a kind.
func StockItem(kind types.ItemKind) (types.Item, bool) {
	switch kind {
	case types.ItemGem:
		return Gem, true
	case types.ItemScroll:
		return Scroll, true
	case types.ItemPotion:
		return Potion, true
	case types.ItemTreasure:
		return Treasure, true
	case types.ItemKey:
		return Key, true
	case types.ItemChest:
		return Chest, true
	}
	return types.Item{}, false
}

// Defaults returns the stock parameters for an NPC kind.
func Defaults(kind types.NPCKind) types.NPCParams {
	switch kind {
	case types.NPCMerchant:
		return types.NPCParams{
			MoveChance: 24,
			DropChance: 15,
			DropPool:   []types.Item{Gem, Scroll, Potion},
		}
	case types.NPCOrc:
		return types.NPCParams{DetectRadius: 5, MinDamage: 5, MaxDamage: 20}
	case types.NPCGoblin:
		return types.NPCParams{DetectRadius: 3, MinDamage: 2, MaxDamage: 8}
	case types.NPCSkeleton:
		return types.NPCParams{MinDamage: 3, MaxDamage: 12}
	}
	return types.NPCParams{}
}

// DefaultHealth returns the starting health for an NPC kind.
func DefaultHealth(kind types.NPCKind) int {
	switch kind {
	case types.NPCOrc:
		return 30
	case types.NPCGoblin:
		return 15
	case types.NPCSkeleton:
		return 25
	case types.NPCGuard:
		return 40
	}
	return 20
}

// DisplayName returns the default name for an NPC kind.
func DisplayName(kind types.NPCKind) string {
	switch kind {
	case types.NPCMerchant:
		return "Merchant"
	case types.NPCOrc:
		return "Orc"
	case types.NPCGoblin:
		return "Goblin"
	case types.NPCSkeleton:
		return "Skeleton"
	case types.NPCGuard:
		return "Guard"
	}
	return string(kind)
}
