package pitch

import (
	"math"
	"strings"

	"github.com/jsphweid/dormbell/model"
	"github.com/pkg/errors"
)

const MaxOctave = 8

// semitone offsets from the start of an octave block, A4 being key 49
var letterOffsets = map[byte]int{
	'A': 1, 'B': 3, 'C': -8, 'D': -6, 'E': -4, 'F': -3, 'G': -1,
}

func IsRestToken(token string) bool {
	t := strings.ToUpper(strings.TrimSpace(token))
	return t == "R" || t == "REST"
}

// Parse reads an SPN token such as "F#4", "Bb3" or "C5", or a rest ("R").
func Parse(token string) (model.Pitch, error) {
	t := strings.TrimSpace(token)
	if IsRestToken(t) {
		return model.Rest, nil
	}
	if len(t) < 2 {
		return model.Pitch{}, errors.Wrapf(model.ErrInvalidPitch, "%q", token)
	}

	var p model.Pitch
	p.Letter = strings.ToUpper(t[:1])[0]
	if _, ok := letterOffsets[p.Letter]; !ok {
		return model.Pitch{}, errors.Wrapf(model.ErrInvalidPitch, "%q: letter must be A-G", token)
	}

	rest := t[1:]
	switch rest[0] {
	case '#':
		p.Accidental = model.Sharp
		rest = rest[1:]
	case 'b':
		p.Accidental = model.Flat
		rest = rest[1:]
	}

	if len(rest) != 1 || rest[0] < '0' || rest[0] > '0'+MaxOctave {
		return model.Pitch{}, errors.Wrapf(model.ErrInvalidPitch, "%q: octave must be 0-%d", token, MaxOctave)
	}
	p.Octave = int(rest[0] - '0')
	return p, nil
}

// Key returns the piano key number of p (A4 = 49). Rests have key 0.
func Key(p model.Pitch) (int, error) {
	if p.Rest {
		return 0, nil
	}
	offset, ok := letterOffsets[p.Letter]
	if !ok || p.Octave < 0 || p.Octave > MaxOctave {
		return 0, errors.Wrapf(model.ErrInvalidPitch, "%v", p)
	}
	key := 12*p.Octave + offset
	switch p.Accidental {
	case model.Sharp:
		key++
	case model.Flat:
		key--
	}
	return key, nil
}

func Frequency(key int) float64 {
	return 440 * math.Pow(2, float64(key-49)/12)
}

// Resolve returns the number of timer ticks between toggles of the square
// wave for p, or 0 for a rest.
func Resolve(p model.Pitch, clockFrequency int) (uint16, error) {
	if p.Rest {
		return 0, nil
	}
	key, err := Key(p)
	if err != nil {
		return 0, err
	}
	ticks := math.Round(float64(clockFrequency) / (2 * Frequency(key)))
	if ticks > math.MaxUint16 {
		return 0, errors.Wrapf(model.ErrInvalidPitch, "%v is too low for a %d Hz clock", p, clockFrequency)
	}
	return uint16(ticks), nil
}

// ResolveToken parses and resolves in one step.
func ResolveToken(token string, clockFrequency int) (uint16, error) {
	p, err := Parse(token)
	if err != nil {
		return 0, err
	}
	return Resolve(p, clockFrequency)
}
