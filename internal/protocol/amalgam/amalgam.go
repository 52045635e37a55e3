package amalgam

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Diffraction-Limited/goboltwood/internal/protocol/registry"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoAmalgam          = errors.New("amalgam: interface has no ALL dump")
	ErrFieldCountMismatch = errors.New("amalgam: field count mismatch")
	ErrMalformedField     = errors.New("amalgam: malformed field")
)

// Field is one position in an interface's fixed-order ALL schema.
type Field struct {
	Name string
	Kind registry.Kind
}

// DecodeError reports where in the dump decoding failed. It wraps one of the
// package sentinels so callers can branch with errors.Is.
type DecodeError struct {
	Interface registry.Interface
	Field     string
	Detail    string
	Err       error
}

func (e DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s: %s", e.Err, e.Interface, e.Detail)
	}
	return fmt.Sprintf("%v: %s field %q: %s", e.Err, e.Interface, e.Field, e.Detail)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// Fixed ALL-dump schemas. Field order mirrors the device firmware's
// amalgamated response layout; a token-count mismatch at decode time means
// the firmware and this table disagree and must fail loudly rather than
// misalign fields. Only OC and EN expose an ALL dump.
var schemas = map[registry.Interface][]Field{
	registry.ObservingConditions: {
		{Name: "cloud_cover", Kind: registry.KindNumeric},
		{Name: "dew_point", Kind: registry.KindNumeric},
		{Name: "humidity", Kind: registry.KindNumeric},
		{Name: "pressure", Kind: registry.KindNumeric},
		{Name: "rain_rate", Kind: registry.KindNumeric},
		{Name: "sky_brightness", Kind: registry.KindNumeric},
		{Name: "sky_quality", Kind: registry.KindNumeric},
		{Name: "sky_temperature", Kind: registry.KindNumeric},
		{Name: "temperature", Kind: registry.KindNumeric},
		{Name: "wind_direction", Kind: registry.KindNumeric},
		{Name: "wind_gust", Kind: registry.KindNumeric},
		{Name: "wind_speed", Kind: registry.KindNumeric},
	},
	registry.EngineeringData: {
		{Name: "thermopile", Kind: registry.KindNumeric},
		{Name: "ir_sensor_temperature", Kind: registry.KindNumeric},
		{Name: "ambient_temperature", Kind: registry.KindNumeric},
		{Name: "rain_frequency", Kind: registry.KindNumeric},
		{Name: "wetness", Kind: registry.KindNumeric},
		{Name: "heater_pwm", Kind: registry.KindNumeric},
		{Name: "supply_voltage", Kind: registry.KindNumeric},
		{Name: "mcu_temperature", Kind: registry.KindNumeric},
		{Name: "uptime", Kind: registry.KindNumeric},
	},
}

// Schema returns the fixed field schema for an interface's ALL dump. The
// returned slice is a copy.
func Schema(iface registry.Interface) ([]Field, error) {
	fields, ok := schemas[iface]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAmalgam, iface)
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out, nil
}

// Value is one decoded field of an ALL dump. Raw is the wire token verbatim;
// Number is populated for numeric fields.
type Value struct {
	Name   string
	Raw    string
	Number float64
}

// Record is one decoded ALL dump, fields in schema order.
type Record struct {
	iface  registry.Interface
	values []Value
	byName map[string]int
}

// Interface returns the interface the record was decoded for.
func (r Record) Interface() registry.Interface {
	return r.iface
}

// Values returns all fields in schema order.
func (r Record) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Number returns a numeric field by schema name.
func (r Record) Number(name string) (float64, bool) {
	i, ok := r.byName[name]
	if !ok {
		return 0, false
	}
	return r.values[i].Number, true
}

// Raw returns a field's wire token by schema name.
func (r Record) Raw(name string) (string, bool) {
	i, ok := r.byName[name]
	if !ok {
		return "", false
	}
	return r.values[i].Raw, true
}

// Decode parses an ALL-dump payload against the interface's fixed schema.
// There is no encode direction; amalgamated dumps are device-to-client only.
func Decode(iface registry.Interface, payload string) (Record, error) {
	schema, ok := schemas[iface]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNoAmalgam, iface)
	}
	tokens := strings.Fields(payload)
	if len(tokens) != len(schema) {
		log.Error().
			Stringer("interface", iface).
			Int("tokens", len(tokens)).
			Int("schema", len(schema)).
			Msg("amalgam: field count mismatch")
		return Record{}, DecodeError{
			Interface: iface,
			Detail:    fmt.Sprintf("got %d tokens, schema has %d", len(tokens), len(schema)),
			Err:       ErrFieldCountMismatch,
		}
	}

	values := make([]Value, len(schema))
	byName := make(map[string]int, len(schema))
	for i, f := range schema {
		v := Value{Name: f.Name, Raw: tokens[i]}
		if f.Kind == registry.KindNumeric {
			n, err := strconv.ParseFloat(tokens[i], 64)
			if err != nil {
				return Record{}, DecodeError{
					Interface: iface,
					Field:     f.Name,
					Detail:    fmt.Sprintf("numeric token %q", tokens[i]),
					Err:       ErrMalformedField,
				}
			}
			v.Number = n
		}
		values[i] = v
		byName[f.Name] = i
	}
	log.Debug().Stringer("interface", iface).Int("fields", len(values)).Msg("amalgam: decoded dump")
	return Record{iface: iface, values: values, byName: byName}, nil
}
