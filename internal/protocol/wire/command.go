package wire

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Diffraction-Limited/goboltwood/internal/protocol/registry"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidVerb           = errors.New("wire: invalid verb")
	ErrWritePermissionDenied = errors.New("wire: write permission denied")
	ErrMissingValue          = errors.New("wire: missing value")
	ErrUnexpectedValue       = errors.New("wire: unexpected value")
)

// Verb is the request type, Get or Put.
type Verb uint8

const (
	Get Verb = iota
	Put
)

// Token returns the canonical wire token for the verb.
func (v Verb) Token() string {
	switch v {
	case Get:
		return "G"
	case Put:
		return "P"
	default:
		return fmt.Sprintf("Verb(%d)", v)
	}
}

func (v Verb) String() string {
	switch v {
	case Get:
		return "Get"
	case Put:
		return "Put"
	default:
		return fmt.Sprintf("Verb(%d)", v)
	}
}

// EncodeCommand builds one request line for the device, without the trailing
// linefeed (the transport owns framing). The property is resolved through the
// registry; permission and value arity are enforced here so a bad request is
// rejected before it ever reaches the wire.
//
// An empty value means no value. Get never carries one, Put on a scalar
// property requires one, and Put on a table property carries the
// pre-serialized token stream as the value.
func EncodeCommand(verb Verb, iface registry.Interface, key, value string) (string, error) {
	if verb != Get && verb != Put {
		return "", fmt.Errorf("%w: %d", ErrInvalidVerb, verb)
	}
	prop, err := registry.Lookup(iface, key)
	if err != nil {
		return "", err
	}
	if verb == Get && value != "" {
		return "", fmt.Errorf("%w: %s %s", ErrUnexpectedValue, iface.Token(), prop.Token)
	}
	if verb == Put {
		if prop.Perm != registry.ReadWrite {
			return "", fmt.Errorf("%w: %s %s", ErrWritePermissionDenied, iface.Token(), prop.Token)
		}
		if value == "" && prop.Kind != registry.KindTable {
			return "", fmt.Errorf("%w: %s %s", ErrMissingValue, iface.Token(), prop.Token)
		}
	}

	var b strings.Builder
	b.WriteString(verb.Token())
	b.WriteByte(' ')
	b.WriteString(iface.Token())
	b.WriteByte(' ')
	b.WriteString(prop.Token)
	if verb == Put && value != "" {
		b.WriteByte(' ')
		b.WriteString(value)
	}
	line := b.String()
	log.Debug().Str("line", line).Msg("wire: encoded command")
	return line, nil
}
