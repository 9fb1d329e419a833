package capability

import (
	"fmt"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

// NewBuiltinRegistry returns the console's command set. Declaration order is
// the keyword precedence.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Intent{
		Keyword:    "temperature",
		Capability: domain.CapabilityTemperature,
		Example:    "Get temperature reading",
		Respond: func(a domain.Asset, env Env) string {
			return fmt.Sprintf("%s reporting: Ambient temperature is %d°C.", a.Name, env.Rand.IntN(15)+18)
		},
	})
	r.MustRegister(Intent{
		Keyword:    "video",
		Capability: domain.CapabilityVideoFeed,
		Example:    "Show me video feed",
		Respond: func(a domain.Asset, _ Env) string {
			return fmt.Sprintf("%s: Establishing encrypted video feed.", a.Name)
		},
	})
	r.MustRegister(Intent{
		Keyword:    "move",
		Capability: domain.CapabilityMovement,
		Example:    "Move to new position",
		Mutates:    true,
		Respond:    respondMove,
	})
	r.MustRegister(Intent{
		Keyword:    "cargo",
		Capability: domain.CapabilityCargoStatus,
		Example:    "Report cargo status",
		Respond: func(a domain.Asset, env Env) string {
			return fmt.Sprintf("%s: Cargo bay is at %d%% capacity.", a.Name, env.Rand.IntN(100))
		},
	})
	r.MustRegister(Intent{
		Keyword:    "health",
		Capability: domain.CapabilityHealthStatus,
		Example:    "Check health status",
		Respond: func(a domain.Asset, _ Env) string {
			return fmt.Sprintf("%s: Vitals are stable. No anomalies detected.", a.Name)
		},
	})
	r.MustRegister(Intent{
		Keyword:    "position",
		Capability: domain.CapabilityPosition,
		Example:    "What is your position?",
		Respond: func(a domain.Asset, _ Env) string {
			return fmt.Sprintf("%s: Current grid reference is %s.", a.Name, a.Location.Grid)
		},
	})
	r.MustRegister(Intent{
		Keyword:    "air quality",
		Capability: domain.CapabilityAirQuality,
		Example:    "Analyze air quality",
		Respond: func(a domain.Asset, env Env) string {
			return fmt.Sprintf("%s: Air quality index is %d (Good).", a.Name, env.Rand.IntN(30)+10)
		},
	})
	r.MustRegister(Intent{
		Keyword:    "scan",
		Capability: domain.CapabilityGroundScan,
		Example:    "Perform ground scan",
		Respond: func(a domain.Asset, _ Env) string {
			return fmt.Sprintf("%s: Ground penetrating scan initiated. No anomalies detected.", a.Name)
		},
	})
	r.MustRegister(Intent{
		Keyword:    "seismic",
		Capability: domain.CapabilitySeismicActivity,
		Example:    "Detect seismic activity",
		Respond: func(a domain.Asset, _ Env) string {
			return fmt.Sprintf("%s: No significant seismic activity detected.", a.Name)
		},
	})
	r.MustRegister(Intent{
		Keyword:    "battery",
		Capability: domain.CapabilityBatteryStatus,
		Example:    "Report battery level",
		Respond: func(a domain.Asset, _ Env) string {
			return fmt.Sprintf("%s reports battery at %s.", a.Name, gaugeText(a, domain.GaugeBattery))
		},
	})
	r.MustRegister(Intent{
		Keyword:    "fuel",
		Capability: domain.CapabilityFuelStatus,
		Example:    "Check fuel status",
		Respond: func(a domain.Asset, _ Env) string {
			return fmt.Sprintf("%s reports fuel level at %s.", a.Name, gaugeText(a, domain.GaugeFuel))
		},
	})
	r.MustRegister(Intent{
		Keyword: "status report",
		Example: "Give status report",
		Respond: func(a domain.Asset, _ Env) string {
			return fmt.Sprintf("Generic status report requested from %s.", a.Name)
		},
	})
	return r
}

// respondMove is the only responder with a side effect: the relocation is the
// asset's new authoritative position.
func respondMove(a domain.Asset, env Env) string {
	if env.Relocator != nil {
		_, _ = env.Relocator.Relocate(a.ID, env.Rand)
	}
	return fmt.Sprintf("%s acknowledging. Relocating to new position.", a.Name)
}

func gaugeText(a domain.Asset, g domain.Gauge) string {
	v, ok := a.Gauge(g)
	if !ok {
		return "unknown level"
	}
	return fmt.Sprintf("%d%%", v)
}
