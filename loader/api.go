package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Scenario { title = "...", width = 40, height = 20, mode = "survival", ... }
	L.SetGlobal("Scenario", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.scenario != nil {
			L.RaiseError("Scenario declared twice")
		}
		coll.scenario = tbl
		return 0
	}))

	// Spawn "orc" { x, y, ... } is curried: Spawn("orc") returns a function that takes a table.
	L.SetGlobal("Spawn", L.NewFunction(func(L *lua.LState) int {
		kind := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.spawns = append(coll.spawns, rawSpawn{kind: kind, table: tbl})
			return 0
		}))
		return 1
	}))

	// Place "gem" { x, y, name = "Ruby" }
	// Place "chest" { x, y, contents = { "gem", "treasure" } }
	L.SetGlobal("Place", L.NewFunction(func(L *lua.LState) int {
		kind := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.items = append(coll.items, rawPlacement{kind: kind, table: tbl})
			return 0
		}))
		return 1
	}))

	// Hazard "lava" { x, y, w = 3 }
	L.SetGlobal("Hazard", L.NewFunction(func(L *lua.LState) int {
		kind := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.hazards = append(coll.hazards, rawPlacement{kind: kind, table: tbl})
			return 0
		}))
		return 1
	}))

	// Door { x, y, open = false }
	L.SetGlobal("Door", L.NewFunction(func(L *lua.LState) int {
		coll.doors = append(coll.doors, L.CheckTable(1))
		return 0
	}))

	// Wall { x, y, w = 1, h = 1 }
	L.SetGlobal("Wall", L.NewFunction(func(L *lua.LState) int {
		coll.walls = append(coll.walls, L.CheckTable(1))
		return 0
	}))
}
