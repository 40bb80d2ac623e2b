package ident

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LuaFunction is the global a converter script must define:
//
//	function axis_name(device, index, direction)
//	  if device == "js2" and index == 3 then return "z" end
//	  return nil
//	end
const LuaFunction = "axis_name"

// DefaultLuaTimeout bounds a single script call.
const DefaultLuaTimeout = 100 * time.Millisecond

// ErrNoAxisFunction is returned when a script does not define axis_name.
var ErrNoAxisFunction = errors.New("script does not define " + LuaFunction)

// LuaConverter names axes by calling a user script. The script runs in
// a state with only the base, table, string and math libraries.
type LuaConverter struct {
	mu      sync.Mutex
	L       *lua.LState
	timeout time.Duration
	closed  bool
}

// NewLuaConverter compiles source and checks that it defines axis_name.
func NewLuaConverter(source string) (*LuaConverter, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	// OpenBase installs loaders that read files.
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("load axis script: %w", err)
	}
	if L.GetGlobal(LuaFunction).Type() != lua.LTFunction {
		L.Close()
		return nil, ErrNoAxisFunction
	}
	return &LuaConverter{L: L, timeout: DefaultLuaTimeout}, nil
}

// ConvertAxis implements AxisConverter. Script errors leave the axis
// untouched.
func (c *LuaConverter) ConvertAxis(device string, index int, direction string) (string, bool) {
	name, err := c.Call(device, index, direction)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// Call runs axis_name and returns its string result.
func (c *LuaConverter) Call(device string, index int, direction string) (name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", errors.New("axis script closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	c.L.SetContext(ctx)
	defer c.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = c.L.CallByParam(lua.P{
		Fn:      c.L.GetGlobal(LuaFunction),
		NRet:    1,
		Protect: true,
	}, lua.LString(device), lua.LNumber(index), lua.LString(direction))
	if err != nil {
		return "", err
	}
	ret := c.L.Get(-1)
	c.L.Pop(1)

	if s, ok := ret.(lua.LString); ok {
		return string(s), nil
	}
	return "", nil
}

// Close releases the Lua state.
func (c *LuaConverter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.L.Close()
	}
}
