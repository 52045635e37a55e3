package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownInterface = errors.New("registry: unknown interface")
	ErrUnknownProperty  = errors.New("registry: unknown property")
)

// Interface is one of the device's four logical subsystems.
type Interface uint8

const (
	ObservingConditions Interface = iota
	SafetyMonitor
	DeviceDescriptor
	EngineeringData
)

// Token returns the canonical wire token for the interface.
func (i Interface) Token() string {
	switch i {
	case ObservingConditions:
		return "OC"
	case SafetyMonitor:
		return "SM"
	case DeviceDescriptor:
		return "DD"
	case EngineeringData:
		return "EN"
	default:
		return fmt.Sprintf("Interface(%d)", i)
	}
}

func (i Interface) String() string {
	switch i {
	case ObservingConditions:
		return "ObservingConditions"
	case SafetyMonitor:
		return "SafetyMonitor"
	case DeviceDescriptor:
		return "DeviceDescriptor"
	case EngineeringData:
		return "EngineeringData"
	default:
		return fmt.Sprintf("Interface(%d)", i)
	}
}

// ParseInterface resolves a wire token to an Interface, case-insensitively.
func ParseInterface(token string) (Interface, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "OC":
		return ObservingConditions, nil
	case "SM":
		return SafetyMonitor, nil
	case "DD":
		return DeviceDescriptor, nil
	case "EN":
		return EngineeringData, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownInterface, token)
	}
}

// Interfaces lists all interfaces in declaration order.
func Interfaces() []Interface {
	return []Interface{ObservingConditions, SafetyMonitor, DeviceDescriptor, EngineeringData}
}

// Permission controls whether a property accepts Put.
type Permission uint8

const (
	ReadOnly Permission = iota
	ReadWrite
)

func (p Permission) String() string {
	if p == ReadWrite {
		return "read-write"
	}
	return "read-only"
}

// Kind is the value shape a property carries on the wire.
type Kind uint8

const (
	KindNumeric Kind = iota
	KindString
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Property is one named, typed, permissioned value exposed by an interface.
type Property struct {
	Key   string
	Token string
	Perm  Permission
	Kind  Kind
}

// Property tables per interface. Order matters: Properties enumerates in
// declaration order, which documentation generation depends on. Tokens are
// unique within an interface and matched case-insensitively.
var properties = map[Interface][]Property{
	ObservingConditions: {
		{Key: "all", Token: "ALL", Perm: ReadOnly, Kind: KindTable},
		{Key: "cloud_cover", Token: "CLOUDCOVER", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "dew_point", Token: "DEWPOINT", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "humidity", Token: "HUMIDITY", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "pressure", Token: "PRESSURE", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "rain_rate", Token: "RAINRATE", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "sky_brightness", Token: "SKYBRIGHTNESS", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "sky_quality", Token: "SKYQUALITY", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "sky_temperature", Token: "SKYTEMP", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "temperature", Token: "TEMP", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "wind_direction", Token: "WINDDIR", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "wind_gust", Token: "WINDGUST", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "wind_speed", Token: "WINDSPEED", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "average_period", Token: "AVGPERIOD", Perm: ReadWrite, Kind: KindNumeric},
		{Key: "thresholds", Token: "THRESHOLDS", Perm: ReadWrite, Kind: KindTable},
	},
	SafetyMonitor: {
		{Key: "is_safe", Token: "ISSAFE", Perm: ReadOnly, Kind: KindNumeric},
	},
	DeviceDescriptor: {
		{Key: "serial", Token: "SERIAL", Perm: ReadOnly, Kind: KindString},
		{Key: "name", Token: "NAME", Perm: ReadWrite, Kind: KindString},
		{Key: "firmware_version", Token: "FWVERSION", Perm: ReadOnly, Kind: KindString},
		{Key: "hardware_version", Token: "HWVERSION", Perm: ReadOnly, Kind: KindString},
		{Key: "mac_address", Token: "MAC", Perm: ReadOnly, Kind: KindString},
		{Key: "sta_ssid", Token: "STA_SSID", Perm: ReadWrite, Kind: KindString},
		{Key: "sta_passphrase", Token: "STA_PASS", Perm: ReadWrite, Kind: KindString},
	},
	EngineeringData: {
		{Key: "all", Token: "ALL", Perm: ReadOnly, Kind: KindTable},
		{Key: "thermopile", Token: "THERMOPILE", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "ir_sensor_temperature", Token: "IRSENSORTEMP", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "ambient_temperature", Token: "AMBIENTTEMP", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "rain_frequency", Token: "RAINFREQ", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "wetness", Token: "WETNESS", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "heater_pwm", Token: "HEATERPWM", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "supply_voltage", Token: "SUPPLYVOLTS", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "mcu_temperature", Token: "MCUTEMP", Perm: ReadOnly, Kind: KindNumeric},
		{Key: "uptime", Token: "UPTIME", Perm: ReadOnly, Kind: KindNumeric},
	},
}

// Lookup resolves a property by symbolic key or wire token within one
// interface. Matching is case-insensitive on both forms.
func Lookup(iface Interface, key string) (Property, error) {
	props, ok := properties[iface]
	if !ok {
		return Property{}, fmt.Errorf("%w: %s", ErrUnknownInterface, iface)
	}
	needle := strings.ToLower(strings.TrimSpace(key))
	for _, p := range props {
		if needle == p.Key || needle == strings.ToLower(p.Token) {
			return p, nil
		}
	}
	return Property{}, fmt.Errorf("%w: %s %q", ErrUnknownProperty, iface, key)
}

// Properties enumerates all properties of an interface in declaration order.
// The returned slice is a copy.
func Properties(iface Interface) []Property {
	props := properties[iface]
	out := make([]Property, len(props))
	copy(out, props)
	return out
}
