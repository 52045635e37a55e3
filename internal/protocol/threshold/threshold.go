package threshold

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrFieldCountMismatch = errors.New("threshold: field count mismatch")
	ErrMalformedField     = errors.New("threshold: malformed field")
	ErrUnknownTransition  = errors.New("threshold: unknown transition")
	ErrIncompleteRecord   = errors.New("threshold: incomplete record")
)

// Transition names one configurable boundary between two observing
// conditions.
type Transition string

const (
	ClearCloudy    Transition = "clear_cloudy"
	CloudyOvercast Transition = "cloudy_overcast"
	CalmWindy      Transition = "calm_windy"
	WindyVeryWindy Transition = "windy_very_windy"
	DryWet         Transition = "dry_wet"
	DarkLight      Transition = "dark_light"
	LightVeryLight Transition = "light_very_light"
)

// Order is the fixed transition order of the device's threshold payload.
// Each transition contributes two consecutive tokens: the threshold value and
// the 0/1 roof-trigger flag.
var Order = []Transition{
	ClearCloudy,
	CloudyOvercast,
	CalmWindy,
	WindyVeryWindy,
	DryWet,
	DarkLight,
	LightVeryLight,
}

// DecodeError reports which transition's tokens failed to parse. It wraps a
// package sentinel for errors.Is.
type DecodeError struct {
	Transition Transition
	Detail     string
	Err        error
}

func (e DecodeError) Error() string {
	if e.Transition == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("%v: transition %q: %s", e.Err, e.Transition, e.Detail)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// Entry is one transition's configuration. raw is the value token exactly as
// received; Encode emits it verbatim so an unmodified record reserializes
// byte-identically regardless of the device's numeric formatting.
type Entry struct {
	Value   float64
	Trigger bool
	raw     string
}

// Raw returns the value token as it will appear on the wire.
func (e Entry) Raw() string {
	return e.raw
}

// Record maps every known transition to its threshold entry.
type Record struct {
	entries map[Transition]Entry
}

// Get returns one transition's entry.
func (r Record) Get(tr Transition) (Entry, bool) {
	e, ok := r.entries[tr]
	return e, ok
}

// SetValue replaces one transition's threshold value. The value token is
// reformatted for this transition only; every other entry keeps its original
// token.
func (r Record) SetValue(tr Transition, value float64) error {
	e, ok := r.entries[tr]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTransition, tr)
	}
	e.Value = value
	e.raw = strconv.FormatFloat(value, 'g', -1, 64)
	r.entries[tr] = e
	return nil
}

// SetTrigger flips one transition's roof-trigger flag.
func (r Record) SetTrigger(tr Transition, trigger bool) error {
	e, ok := r.entries[tr]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTransition, tr)
	}
	e.Trigger = trigger
	r.entries[tr] = e
	return nil
}

// Decode parses the interleaved (value, flag) token stream in the fixed
// transition order. The flag token must be strictly "0" or "1".
func Decode(payload string) (Record, error) {
	tokens := strings.Fields(payload)
	want := 2 * len(Order)
	if len(tokens) != want {
		log.Error().Int("tokens", len(tokens)).Int("want", want).Msg("threshold: field count mismatch")
		return Record{}, DecodeError{
			Detail: fmt.Sprintf("got %d tokens, want %d", len(tokens), want),
			Err:    ErrFieldCountMismatch,
		}
	}

	entries := make(map[Transition]Entry, len(Order))
	for i, tr := range Order {
		valueToken := tokens[2*i]
		flagToken := tokens[2*i+1]
		value, err := strconv.ParseFloat(valueToken, 64)
		if err != nil {
			return Record{}, DecodeError{
				Transition: tr,
				Detail:     fmt.Sprintf("value token %q", valueToken),
				Err:        ErrMalformedField,
			}
		}
		var trigger bool
		switch flagToken {
		case "0":
			trigger = false
		case "1":
			trigger = true
		default:
			return Record{}, DecodeError{
				Transition: tr,
				Detail:     fmt.Sprintf("trigger token %q", flagToken),
				Err:        ErrMalformedField,
			}
		}
		entries[tr] = Entry{Value: value, Trigger: trigger, raw: valueToken}
	}
	log.Debug().Int("transitions", len(entries)).Msg("threshold: decoded table")
	return Record{entries: entries}, nil
}

// Encode serializes the record back into the device's token stream, in the
// fixed transition order. Value tokens come through verbatim unless SetValue
// replaced them, so Encode(Decode(x)) == x for any payload x this codec
// accepted. A record that was not produced by Decode has no tokens to emit
// and is rejected.
func (r Record) Encode() (string, error) {
	var b strings.Builder
	for i, tr := range Order {
		e, ok := r.entries[tr]
		if !ok {
			return "", fmt.Errorf("%w: missing transition %q", ErrIncompleteRecord, tr)
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.raw)
		if e.Trigger {
			b.WriteString(" 1")
		} else {
			b.WriteString(" 0")
		}
	}
	return b.String(), nil
}
