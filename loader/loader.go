package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	scenario *lua.LTable
	spawns   []rawSpawn
	items    []rawPlacement
	doors    []*lua.LTable
	walls    []*lua.LTable
	hazards  []rawPlacement
}

// Load reads a scenario from path, which is either a single .lua file or a
// directory of them, and compiles it into a Scenario. The Lua VM is
// discarded after loading.
func Load(path string) (*Scenario, error) {
	files, err := luaFiles(path)
	if err != nil {
		return nil, err
	}

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range files {
		if err := L.DoFile(f); err != nil {
			return nil, fmt.Errorf("executing %s: %w", filepath.Base(f), err)
		}
	}

	sc, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling scenario: %w", err)
	}

	if err := validate(sc); err != nil {
		return nil, err
	}

	return sc, nil
}

// luaFiles lists the files to execute for path: the file itself, or every
// .lua file in the directory with scenario.lua first.
func luaFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", path, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", path)
	}

	names = sortedLuaFiles(names)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(path, n)
	}
	return out, nil
}

// sortedLuaFiles sorts with scenario.lua first, rest alphabetical.
func sortedLuaFiles(files []string) []string {
	sort.Slice(files, func(i, j int) bool {
		if files[i] == "scenario.lua" {
			return true
		}
		if files[j] == "scenario.lua" {
			return false
		}
		return files[i] < files[j]
	})
	return files
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Levels must not reseed; the session seed is the only source of randomness.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}
