package flow

import (
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tool is an opaque catalog descriptor. Only "name" is interpreted.
type Tool map[string]any

// Name returns the display name, or "" when missing.
func (t Tool) Name() string {
	name, _ := t["name"].(string)
	return name
}

// Catalog maps tool keys to descriptors in a stable order. NoTool is
// always present.
type Catalog struct {
	m *orderedmap.OrderedMap[string, Tool]
}

// NewCatalog returns a catalog holding only NoTool.
func NewCatalog() *Catalog {
	c := &Catalog{m: orderedmap.New[string, Tool]()}
	c.ensureNoTool()
	return c
}

func (c *Catalog) ensureNoTool() {
	if _, ok := c.m.Get(NoTool); !ok {
		c.m.Set(NoTool, Tool{"name": "No Tool"})
	}
}

// Set adds or replaces a tool.
func (c *Catalog) Set(key string, t Tool) {
	c.m.Set(key, t)
}

func (c *Catalog) Get(key string) (Tool, bool) {
	return c.m.Get(key)
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.m.Get(key)
	return ok
}

func (c *Catalog) Len() int {
	return c.m.Len()
}

// Keys returns tool keys in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, c.m.Len())
	for pair := c.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Label is the text shown on a tool node: the display name when the key is
// known and named, otherwise the raw key.
func (c *Catalog) Label(key string) string {
	if t, ok := c.Get(key); ok && t.Name() != "" {
		return t.Name()
	}
	return key
}

func (c *Catalog) MarshalJSON() ([]byte, error) {
	return c.m.MarshalJSON()
}

// UnmarshalJSON keeps entries whose value is an object; NoTool is appended
// when the input lacks it.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	parsed := ParseCatalog(data)
	*c = *parsed
	return nil
}

// ParseCatalog reads a catalog from JSON. Invalid input yields the
// fallback catalog holding only NoTool.
func ParseCatalog(data []byte) *Catalog {
	if !gjson.ValidBytes(data) {
		return NewCatalog()
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return NewCatalog()
	}
	c := &Catalog{m: orderedmap.New[string, Tool]()}
	res.ForEach(func(key, value gjson.Result) bool {
		raw, ok := value.Value().(map[string]any)
		if ok {
			c.Set(key.String(), Tool(raw))
		}
		return true
	})
	c.ensureNoTool()
	return c
}

// DefaultCatalog is the built-in ORIN tool set.
func DefaultCatalog() *Catalog {
	c := &Catalog{m: orderedmap.New[string, Tool]()}
	devsites := func(name string, columns ...string) Tool {
		return Tool{"name": name, "db": "devsites_orin", "columns": columns}
	}
	reports := func(name string) Tool {
		return Tool{"name": name, "columns": []string{"device_sn", "dt", "data", "speed", "status_gps", "status_acc"}}
	}

	c.Set("ds_operational_time", devsites("Operational Time Summary",
		"device_sn", "dt", "start_moving_time", "stop_moving_time", "total_moving_time", "total_idle_time", "total_acc_on_time"))
	c.Set("ds_vehicle_utilization", devsites("Vehicle Utilization Summary", "device_sn", "dt", "total_km"))
	c.Set("ds_distance_estimation", devsites("Distance Estimation Summary", "device_sn", "dt", "total_km"))
	c.Set("ds_driving_behaviour", devsites("Driving Behaviour Summary",
		"device_sn", "dt", "behaviour_point", "behaviour_point_card", "total_overspeed_incident",
		"total_speedup_incident", "total_braking_incident", "total_cornering_incident"))
	c.Set("ds_speed_analysis", devsites("Speed Analysis Summary", "device_sn", "dt", "top_speed", "average_speed"))
	c.Set("ds_fuel_estimation", devsites("Fuel Estimation Summary", "device_sn", "dt", "fuel_scale", "fuel_cost_est"))
	c.Set("or_idle", reports("Idle Reports"))
	c.Set("or_moving", reports("Moving Reports"))
	c.Set(NoTool, Tool{"name": "No Tool"})
	return c
}
