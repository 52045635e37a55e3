package amalgam

import (
	"errors"
	"strings"
	"testing"

	"github.com/Diffraction-Limited/goboltwood/internal/protocol/registry"
	"github.com/Diffraction-Limited/goboltwood/internal/testutil/testlog"
)

const enPayload = "412 23.5 21.8 870 12 35 12.1 31.2 86400"

func TestDecodeEngineeringDumpInSchemaOrder(t *testing.T) {
	testlog.Start(t)
	rec, err := Decode(registry.EngineeringData, enPayload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	schema, err := Schema(registry.EngineeringData)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	values := rec.Values()
	if len(values) != len(schema) {
		t.Fatalf("got %d values, schema has %d", len(values), len(schema))
	}
	for i, f := range schema {
		if values[i].Name != f.Name {
			t.Fatalf("field %d: got %q want %q", i, values[i].Name, f.Name)
		}
	}
	if v, ok := rec.Number("supply_voltage"); !ok || v != 12.1 {
		t.Fatalf("supply_voltage: got %v ok=%v", v, ok)
	}
	if raw, ok := rec.Raw("uptime"); !ok || raw != "86400" {
		t.Fatalf("uptime raw: got %q ok=%v", raw, ok)
	}
}

func TestDecodeObservingConditionsDump(t *testing.T) {
	testlog.Start(t)
	rec, err := Decode(registry.ObservingConditions, "12.5 4.2 55 1013.2 0 18.4 20.9 -28.6 14.1 270 3.4 1.2")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, ok := rec.Number("sky_temperature"); !ok || v != -28.6 {
		t.Fatalf("sky_temperature: got %v ok=%v", v, ok)
	}
	if v, ok := rec.Number("wind_direction"); !ok || v != 270 {
		t.Fatalf("wind_direction: got %v ok=%v", v, ok)
	}
}

func TestDecodeTokenCountOffByOneDeterministic(t *testing.T) {
	testlog.Start(t)
	short := strings.Join(strings.Fields(enPayload)[:8], " ")
	if _, err := Decode(registry.EngineeringData, short); !errors.Is(err, ErrFieldCountMismatch) {
		t.Fatalf("short dump: expected ErrFieldCountMismatch, got %v", err)
	}
	long := enPayload + " 7"
	if _, err := Decode(registry.EngineeringData, long); !errors.Is(err, ErrFieldCountMismatch) {
		t.Fatalf("long dump: expected ErrFieldCountMismatch, got %v", err)
	}
}

func TestDecodeMalformedNumericField(t *testing.T) {
	testlog.Start(t)
	bad := strings.Replace(enPayload, "12.1", "twelve", 1)
	_, err := Decode(registry.EngineeringData, bad)
	if !errors.Is(err, ErrMalformedField) {
		t.Fatalf("expected ErrMalformedField, got %v", err)
	}
	var de DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %T", err)
	}
	if de.Field != "supply_voltage" {
		t.Fatalf("unexpected field in error: %+v", de)
	}
}

func TestDecodeInterfaceWithoutDump(t *testing.T) {
	testlog.Start(t)
	if _, err := Decode(registry.SafetyMonitor, "1"); !errors.Is(err, ErrNoAmalgam) {
		t.Fatalf("expected ErrNoAmalgam, got %v", err)
	}
	if _, err := Schema(registry.DeviceDescriptor); !errors.Is(err, ErrNoAmalgam) {
		t.Fatalf("expected ErrNoAmalgam, got %v", err)
	}
}
