package config

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// Resource limits applied while a configuration chunk executes.
const (
	DefaultLuaCPULimit    = 10_000_000
	DefaultLuaMemoryLimit = 50 * 1024 * 1024
)

// LuaConfigParser executes Lua configuration files with the golua runtime
// and extracts the overlay.config and overlay.scene tables.
type LuaConfigParser struct {
	runtime     *rt.Runtime
	cleanup     func()
	cpuLimit    uint64
	memoryLimit uint64
	mu          sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
// Output from Lua print calls is discarded.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser whose print output
// goes to stdout. A nil writer means os.Stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime:     runtime,
		cleanup:     cleanup,
		cpuLimit:    DefaultLuaCPULimit,
		memoryLimit: DefaultLuaMemoryLimit,
	}, nil
}

// SetLimits overrides the CPU instruction and memory limits. Zero keeps the
// current value.
func (p *LuaConfigParser) SetLimits(cpu, memory uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cpu > 0 {
		p.cpuLimit = cpu
	}
	if memory > 0 {
		p.memoryLimit = memory
	}
}

// Parse executes content and returns the resulting configuration. Keys that
// are not set keep their DefaultConfig values.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.runtime == nil {
		return nil, fmt.Errorf("parser is closed")
	}

	p.initOverlayGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    p.cpuLimit,
			Memory: p.memoryLimit,
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	if _, err := rt.Call1(p.runtime.MainThread(), rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	return p.extractConfig()
}

// initOverlayGlobal resets the overlay global so values from a previous
// parse never leak into the next one.
func (p *LuaConfigParser) initOverlayGlobal() {
	overlay := rt.NewTable()
	overlay.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	overlay.Set(rt.StringValue("scene"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("overlay"), rt.TableValue(overlay))
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	overlayVal := p.runtime.GlobalEnv().Get(rt.StringValue("overlay"))
	if overlayVal == rt.NilValue {
		return &cfg, nil
	}
	overlay, ok := overlayVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("overlay is not a table")
	}

	if t, ok := overlay.Get(rt.StringValue("config")).TryTable(); ok {
		if err := extractConfigTable(&cfg, t); err != nil {
			return nil, err
		}
	}
	if t, ok := overlay.Get(rt.StringValue("scene")).TryTable(); ok {
		if err := extractScene(&cfg.Scene, t); err != nil {
			return nil, fmt.Errorf("overlay.scene: %w", err)
		}
	}

	return &cfg, nil
}

func extractConfigTable(cfg *Config, table *rt.Table) error {
	if val := getTableBool(table, "fullscreen"); val != nil {
		cfg.Window.Fullscreen = *val
	}
	if val := getTableBool(table, "custom_resolution"); val != nil {
		cfg.Window.CustomResolution = *val
	}
	if val := getTableBool(table, "skip_taskbar"); val != nil {
		cfg.Window.SkipTaskbar = *val
	}
	if val := getTableBool(table, "use_system_input"); val != nil {
		cfg.Input.UseSystemInput = *val
	}

	if val := getTableInt(table, "screen_width"); val != nil {
		cfg.Window.Width = *val
	}
	if val := getTableInt(table, "screen_height"); val != nil {
		cfg.Window.Height = *val
	}
	if val := getTableInt(table, "target_frame_rate"); val != nil {
		cfg.Window.TargetFrameRate = *val
	}

	if val := getTableString(table, "title"); val != nil {
		cfg.Window.Title = *val
	}
	if val := getTableString(table, "backend"); val != nil {
		b, err := ParseBackendKind(*val)
		if err != nil {
			return fmt.Errorf("invalid backend: %w", err)
		}
		cfg.Window.Backend = b
	}
	if val := getTableString(table, "log_level"); val != nil {
		cfg.Logging.Level = *val
	}
	if val := getTableString(table, "log_format"); val != nil {
		cfg.Logging.Format = *val
	}

	mask, err := getLayerMask(table, "click_layer_mask")
	if err != nil {
		return fmt.Errorf("invalid click_layer_mask: %w", err)
	}
	if mask != nil {
		cfg.Input.ClickLayerMask = *mask
	}

	return nil
}

// getLayerMask accepts either an integer bit mask (~0 for every layer) or
// an array of layer indices.
func getLayerMask(table *rt.Table, key string) (*uint32, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, nil
	}
	if n, ok := val.TryInt(); ok {
		m := uint32(n)
		return &m, nil
	}
	list, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("expected integer or list of layers")
	}
	var layers []int
	for i := int64(1); ; i++ {
		v := list.Get(rt.IntValue(i))
		if v == rt.NilValue {
			break
		}
		n, ok := v.TryInt()
		if !ok {
			return nil, fmt.Errorf("element %d is not an integer", i)
		}
		layers = append(layers, int(n))
	}
	m, err := LayerMask(layers...)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func extractScene(scene *SceneConfig, table *rt.Table) error {
	if cam, ok := table.Get(rt.StringValue("camera")).TryTable(); ok {
		if v := getTableFloat(cam, "x"); v != nil {
			scene.Camera.X = *v
		}
		if v := getTableFloat(cam, "y"); v != nil {
			scene.Camera.Y = *v
		}
		if v := getTableFloat(cam, "zoom"); v != nil {
			scene.Camera.Zoom = *v
		}
	}

	err := eachTable(table, "widgets", func(i int, t *rt.Table) error {
		w := WidgetConfig{Color: DefaultWidgetColor}
		if v := getTableString(t, "id"); v != nil {
			w.ID = *v
		} else {
			w.ID = fmt.Sprintf("widget%d", i)
		}
		if v := getTableString(t, "role"); v != nil {
			role, err := ParseWidgetRole(*v)
			if err != nil {
				return err
			}
			w.Role = role
		}
		if v := getTableString(t, "label"); v != nil {
			w.Label = *v
		}
		readFloat(t, "x", &w.X)
		readFloat(t, "y", &w.Y)
		readFloat(t, "width", &w.Width)
		readFloat(t, "height", &w.Height)
		if err := readColor(t, &w.Color); err != nil {
			return err
		}
		scene.Widgets = append(scene.Widgets, w)
		return nil
	})
	if err != nil {
		return fmt.Errorf("widgets: %w", err)
	}

	err = eachTable(table, "bodies", func(i int, t *rt.Table) error {
		b := BodyConfig{Color: DefaultBodyColor}
		if v := getTableString(t, "name"); v != nil {
			b.Name = *v
		} else {
			b.Name = fmt.Sprintf("body%d", i)
		}
		if v := getTableInt(t, "layer"); v != nil {
			b.Layer = *v
		}
		if v := getTableString(t, "shape"); v != nil {
			shape, err := ParseShapeKind(*v)
			if err != nil {
				return err
			}
			b.Shape = shape
		}
		readFloat(t, "x", &b.X)
		readFloat(t, "y", &b.Y)
		readFloat(t, "width", &b.Width)
		readFloat(t, "height", &b.Height)
		readFloat(t, "radius", &b.Radius)
		if err := readColor(t, &b.Color); err != nil {
			return err
		}
		scene.Bodies = append(scene.Bodies, b)
		return nil
	})
	if err != nil {
		return fmt.Errorf("bodies: %w", err)
	}
	return nil
}

// eachTable calls fn for every table element of the array stored at key.
// Indices passed to fn are 1-based like Lua's.
func eachTable(table *rt.Table, key string, fn func(int, *rt.Table) error) error {
	list, ok := table.Get(rt.StringValue(key)).TryTable()
	if !ok {
		return nil
	}
	for i := int64(1); ; i++ {
		v := list.Get(rt.IntValue(i))
		if v == rt.NilValue {
			return nil
		}
		t, ok := v.TryTable()
		if !ok {
			return fmt.Errorf("element %d is not a table", i)
		}
		if err := fn(int(i), t); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
}

func readFloat(t *rt.Table, key string, dst *float64) {
	if v := getTableFloat(t, key); v != nil {
		*dst = *v
	}
}

func readColor(t *rt.Table, dst *color.RGBA) error {
	v := getTableString(t, "color")
	if v == nil {
		return nil
	}
	c, err := parseColor(*v)
	if err != nil {
		return err
	}
	*dst = c
	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	p.runtime = nil
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Strings "true"/"yes"/"1" are accepted as well.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if b, ok := val.TryBool(); ok {
		return &b
	}
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}
	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if s, ok := val.TryString(); ok {
		return &s
	}
	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}

// getTableInt retrieves an int value from a Lua table. Floats are truncated.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}
