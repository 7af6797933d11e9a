package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/dormbell/constants"
	"github.com/jsphweid/dormbell/model"
	"github.com/pkg/errors"
)

// longest denominator accepted on input (a 128th note)
const MaxDenominator = 128

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Parse reads a note value such as "4" (quarter) or "8." (dotted eighth).
func Parse(token string) (model.Duration, error) {
	t := strings.TrimSpace(token)
	var d model.Duration
	if strings.HasSuffix(t, ".") {
		d.Dotted = true
		t = strings.TrimSuffix(t, ".")
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return model.Duration{}, errors.Wrapf(model.ErrInvalidDuration, "%q", token)
	}
	d.Denominator = n
	if err := Validate(d); err != nil {
		return model.Duration{}, err
	}
	return d, nil
}

func Validate(d model.Duration) error {
	if !IsPowerOfTwo(d.Denominator) || d.Denominator > MaxDenominator {
		return errors.Wrapf(model.ErrInvalidDuration, "%v is not a power of two up to %d", d, MaxDenominator)
	}
	return nil
}

// Value is the effective note value: the denominator, less a quarter of it
// when dotted. A larger value is a shorter note.
func Value(d model.Duration) float64 {
	v := float64(d.Denominator)
	if d.Dotted {
		v -= v * 0.25
	}
	return v
}

// BaseTempo is the number of timer ticks in one beat at tempoBpm.
func BaseTempo(tempoBpm, clockFrequency int) int {
	return int(math.Round(float64(clockFrequency) * 60 / float64(tempoBpm)))
}

// Quantize turns note values into whole beat counts relative to the
// shortest note, and rescales the tempo so that beat*tempoTicks still
// measures the same time. Every value carries an implicit factor of 3,
// which clears the 0.75 of dotted notes without computing a GCD.
func Quantize(durations []model.Duration, tempoBpm, timeSigDenominator, clockFrequency int) ([]uint16, uint16, error) {
	if tempoBpm <= 0 {
		return nil, 0, errors.Wrapf(model.ErrIncompleteSong, "tempo %d bpm", tempoBpm)
	}
	if !IsPowerOfTwo(timeSigDenominator) {
		return nil, 0, errors.Wrapf(model.ErrIncompleteSong, "time signature denominator %d", timeSigDenominator)
	}
	if len(durations) == 0 {
		return []uint16{}, 0, nil
	}

	values := make([]float64, len(durations))
	var shortest float64
	for i, d := range durations {
		if err := Validate(d); err != nil {
			return nil, 0, errors.Wrapf(err, "note %d", i+1)
		}
		values[i] = Value(d)
		if values[i] > shortest {
			shortest = values[i]
		}
	}

	tempo := int(math.Floor(float64(BaseTempo(tempoBpm, clockFrequency)) / (shortest * 3 / float64(timeSigDenominator))))

	beats := make([]uint16, len(values))
	for i, v := range values {
		beat := int(math.Round(shortest * 3 / v))
		if beat*tempo > constants.MaxProduct {
			return nil, 0, &model.UnplayableNoteError{
				Index:  i,
				Reason: fmt.Sprintf("%v lasts %d ticks, more than %d; raise the tempo or shorten the note", durations[i], beat*tempo, constants.MaxProduct),
			}
		}
		beats[i] = uint16(beat)
	}
	return beats, uint16(tempo), nil
}
