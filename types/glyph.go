package types

// TileGlyph returns the map character for a tile.
func TileGlyph(t Tile) rune {
	switch t.Kind {
	case TileWall:
		return '#'
	case TileDoor:
		if t.Open {
			return '\''
		}
		return '+'
	case TileHazard:
		if t.Hazard == HazardLava {
			return '^'
		}
		return '~'
	}
	return '.'
}

// NPCGlyph returns the map character for an NPC kind.
func NPCGlyph(k NPCKind) rune {
	switch k {
	case NPCMerchant:
		return 'M'
	case NPCOrc:
		return 'O'
	case NPCGoblin:
		return 'g'
	case NPCSkeleton:
		return 'S'
	case NPCGuard:
		return 'G'
	}
	return '?'
}

// ItemGlyph returns the map character for an item kind.
func ItemGlyph(k ItemKind) rune {
	switch k {
	case ItemTreasure:
		return '$'
	case ItemGem:
		return '*'
	case ItemScroll:
		return '?'
	case ItemPotion:
		return '!'
	case ItemKey:
		return '-'
	case ItemChest:
		return '='
	}
	return '&'
}

// PlayerGlyph is the player's map character.
const PlayerGlyph = '@'

// GlyphRows renders a snapshot as rows of map characters. Items draw over
// tiles, NPCs over items, and the player over everything.
func GlyphRows(s Snapshot) [][]rune {
	rows := make([][]rune, len(s.Tiles))
	for y, tiles := range s.Tiles {
		rows[y] = make([]rune, len(tiles))
		for x, t := range tiles {
			rows[y][x] = TileGlyph(t)
		}
	}
	set := func(p Position, r rune) {
		if p.Y >= 0 && p.Y < len(rows) && p.X >= 0 && p.X < len(rows[p.Y]) {
			rows[p.Y][p.X] = r
		}
	}
	for _, it := range s.Items {
		set(it.Pos, ItemGlyph(it.Item.Kind))
	}
	for _, n := range s.NPCs {
		set(n.Pos, NPCGlyph(n.Kind))
	}
	set(s.Player.Pos, PlayerGlyph)
	return rows
}
