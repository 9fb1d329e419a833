// Package domain defines the core domain models for the fleet console.
package domain

// AssetType represents the kind of an addressable asset.
type AssetType string

const (
	AssetTypeDrone   AssetType = "drone"
	AssetTypeVehicle AssetType = "vehicle"
	AssetTypeSoldier AssetType = "soldier"
	AssetTypeSensor  AssetType = "sensor"
)

// Valid reports whether t is one of the known asset types.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeDrone, AssetTypeVehicle, AssetTypeSoldier, AssetTypeSensor:
		return true
	}
	return false
}

// AvatarGroup is the console avatar that lights up alongside an asset.
type AvatarGroup string

const (
	AvatarGroupAI       AvatarGroup = "ai"
	AvatarGroupOperator AvatarGroup = "operator"
)

// Capability is an opaque tag naming an action an asset can perform.
type Capability string

const (
	CapabilityVideoFeed       Capability = "video_feed"
	CapabilityTemperature     Capability = "temperature"
	CapabilityMovement        Capability = "movement"
	CapabilityAirQuality      Capability = "air_quality"
	CapabilityBatteryStatus   Capability = "battery_status"
	CapabilityCargoStatus     Capability = "cargo_status"
	CapabilityGroundScan      Capability = "ground_scan"
	CapabilityFuelStatus      Capability = "fuel_status"
	CapabilityHealthStatus    Capability = "health_status"
	CapabilityPosition        Capability = "position"
	CapabilitySeismicActivity Capability = "seismic_activity"
)

// NoCapability marks an intent that any asset may serve.
const NoCapability Capability = ""

var knownCapabilities = map[Capability]bool{
	CapabilityVideoFeed:       true,
	CapabilityTemperature:     true,
	CapabilityMovement:        true,
	CapabilityAirQuality:      true,
	CapabilityBatteryStatus:   true,
	CapabilityCargoStatus:     true,
	CapabilityGroundScan:      true,
	CapabilityFuelStatus:      true,
	CapabilityHealthStatus:    true,
	CapabilityPosition:        true,
	CapabilitySeismicActivity: true,
}

// Known reports whether c belongs to the fixed capability vocabulary.
func (c Capability) Known() bool {
	return knownCapabilities[c]
}

// Gauge names a resource gauge carried by some assets.
type Gauge string

const (
	GaugeBattery Gauge = "battery"
	GaugeFuel    Gauge = "fuel"
)

// SourceKind classifies a console log entry.
type SourceKind string

const (
	SourceUser   SourceKind = "User"
	SourceSystem SourceKind = "System"
	SourceAsset  SourceKind = "Asset"
	SourceError  SourceKind = "Error"
)

// OutcomeKind is the terminal result of a dispatch.
type OutcomeKind string

const (
	OutcomePending          OutcomeKind = "pending"
	OutcomeUnrecognized     OutcomeKind = "unrecognized"
	OutcomeCapabilityDenied OutcomeKind = "capability_denied"
	OutcomeNoCapableAsset   OutcomeKind = "no_capable_asset"
	OutcomeDispatched       OutcomeKind = "dispatched"
)

// EventType represents the type of a journaled sink event.
type EventType string

const (
	EventTypeLog        EventType = "log"
	EventTypeStatus     EventType = "status"
	EventTypeHighlight  EventType = "highlight"
	EventTypeSelection  EventType = "selection"
	EventTypeFocus      EventType = "focus"
	EventTypeSpeak      EventType = "speak"
	EventTypeAssetMoved EventType = "asset_moved"
)
