package registry

import (
	"errors"
	"strings"
	"testing"
)

func TestLookupByKeyAndToken(t *testing.T) {
	byKey, err := Lookup(DeviceDescriptor, "serial")
	if err != nil {
		t.Fatalf("lookup by key: %v", err)
	}
	byToken, err := Lookup(DeviceDescriptor, "SERIAL")
	if err != nil {
		t.Fatalf("lookup by token: %v", err)
	}
	if byKey != byToken {
		t.Fatalf("key/token lookups disagree: %+v vs %+v", byKey, byToken)
	}
	if byKey.Perm != ReadOnly || byKey.Kind != KindString {
		t.Fatalf("unexpected property: %+v", byKey)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	p, err := Lookup(ObservingConditions, "CloudCover")
	if err != nil {
		t.Fatalf("mixed-case lookup: %v", err)
	}
	if p.Token != "CLOUDCOVER" {
		t.Fatalf("unexpected token: %q", p.Token)
	}
}

func TestLookupUnknownPropertyDeterministic(t *testing.T) {
	_, err := Lookup(SafetyMonitor, "humidity")
	if !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}
}

func TestParseInterfaceTokens(t *testing.T) {
	for _, iface := range Interfaces() {
		got, err := ParseInterface(strings.ToLower(iface.Token()))
		if err != nil {
			t.Fatalf("parse %q: %v", iface.Token(), err)
		}
		if got != iface {
			t.Fatalf("parse %q: got %v want %v", iface.Token(), got, iface)
		}
	}
	if _, err := ParseInterface("XX"); !errors.Is(err, ErrUnknownInterface) {
		t.Fatalf("expected ErrUnknownInterface, got %v", err)
	}
}

func TestTokensUniqueWithinInterface(t *testing.T) {
	for _, iface := range Interfaces() {
		seen := make(map[string]string)
		for _, p := range Properties(iface) {
			token := strings.ToUpper(p.Token)
			if prior, dup := seen[token]; dup {
				t.Fatalf("%s: token %q shared by %q and %q", iface, token, prior, p.Key)
			}
			seen[token] = p.Key
		}
	}
}

func TestPropertiesReturnsCopy(t *testing.T) {
	first := Properties(SafetyMonitor)
	first[0].Key = "mutated"
	again := Properties(SafetyMonitor)
	if again[0].Key != "is_safe" {
		t.Fatalf("registry table mutated through Properties: %+v", again[0])
	}
}
