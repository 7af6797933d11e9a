package duration

import (
	"fmt"
	"testing"

	"github.com/jsphweid/dormbell/constants"
	"github.com/jsphweid/dormbell/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, tokens ...string) []model.Duration {
	var res []model.Duration
	for _, token := range tokens {
		d, err := Parse(token)
		require.NoError(t, err, token)
		res = append(res, d)
	}
	return res
}

func TestParsesDottedAndPlainValues(t *testing.T) {
	assert := assert.New(t)
	d, err := Parse("8.")
	assert.NoError(err)
	assert.Equal(model.Duration{Denominator: 8, Dotted: true}, d)
	assert.Equal(6.0, Value(d))

	d, err = Parse(" 16 ")
	assert.NoError(err)
	assert.Equal(model.Duration{Denominator: 16}, d)
	assert.Equal(16.0, Value(d))
}

func TestRejectsNonPowersOfTwo(t *testing.T) {
	for _, token := range []string{"0", "3", "12.", "-4", "x", "", "256"} {
		t.Run(fmt.Sprintf("reject %q", token), func(t *testing.T) {
			_, err := Parse(token)
			assert.True(t, errors.Is(err, model.ErrInvalidDuration))
		})
	}
}

func TestEqualDurationsGiveEqualBeats(t *testing.T) {
	assert := assert.New(t)
	beats, tempo, err := Quantize(mustParse(t, "4", "4", "4", "4"), 128, 4, constants.ClockFrequency)
	assert.NoError(err)
	assert.Equal([]uint16{3, 3, 3, 3}, beats)

	// base tempo divided by value*3/timesig
	base := BaseTempo(128, constants.ClockFrequency)
	assert.Equal(15360, base)
	assert.Equal(uint16(base*4/(4*3)), tempo)
}

func TestEqualEighthsInThreeEight(t *testing.T) {
	assert := assert.New(t)
	beats, tempo, err := Quantize(mustParse(t, "8", "8", "8"), 120, 8, constants.ClockFrequency)
	assert.NoError(err)
	assert.Equal([]uint16{3, 3, 3}, beats)
	assert.Equal(uint16(16384*8/(8*3)), tempo)
}

func TestDottedNotesAreLonger(t *testing.T) {
	assert := assert.New(t)
	for _, denom := range []string{"1", "2", "4", "8", "16"} {
		beats, _, err := Quantize(mustParse(t, denom, denom+"."), 240, 4, constants.ClockFrequency)
		assert.NoError(err)
		assert.Greater(beats[1], beats[0], denom)
	}
}

func TestShortestNoteDrivesGranularity(t *testing.T) {
	assert := assert.New(t)
	beats, tempo, err := Quantize(mustParse(t, "4", "8", "16", "2", "4."), 120, 4, constants.ClockFrequency)
	assert.NoError(err)
	assert.Equal([]uint16{12, 6, 3, 24, 16}, beats)
	assert.Equal(uint16(16384/12), tempo)
}

func TestRoundsHalfAwayFromZero(t *testing.T) {
	// dotted quarter is the shortest: 3*3/2 = 4.5 rounds up
	beats, _, err := Quantize(mustParse(t, "2", "4."), 120, 4, constants.ClockFrequency)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]uint16{5, 3}, beats)
}

func TestRestsQuantizeLikeNotes(t *testing.T) {
	// durations carry no pitch, so a rest of 4 is just a 4
	beats, _, err := Quantize(mustParse(t, "4", "4"), 90, 4, constants.ClockFrequency)
	assert.NoError(t, err)
	assert.Equal(t, beats[0], beats[1])
}

func TestProductBoundary(t *testing.T) {
	assert := assert.New(t)
	whole := mustParse(t, "1")

	// 65535/3 = 21845 ticks per beat, 3 beats
	beats, tempo, err := Quantize(whole, 60, 1, 65535)
	assert.NoError(err)
	assert.Equal(uint16(21845), tempo)
	assert.Equal(constants.MaxProduct, int(beats[0])*int(tempo))

	// 65540/3 = 21846, 3 beats = 65538
	_, _, err = Quantize(whole, 60, 1, 65540)
	var unplayable *model.UnplayableNoteError
	assert.True(errors.As(err, &unplayable))
	assert.Equal(0, unplayable.Index)
}

func TestReportsIndexOfUnplayableNote(t *testing.T) {
	// at 20 bpm a 16th sets the grain and the whole note overflows
	_, _, err := Quantize(mustParse(t, "16", "1"), 20, 4, constants.ClockFrequency)
	var unplayable *model.UnplayableNoteError
	assert := assert.New(t)
	assert.True(errors.As(err, &unplayable))
	assert.Equal(1, unplayable.Index)
}

func TestRejectsMissingTempoAndTimeSignature(t *testing.T) {
	assert := assert.New(t)
	_, _, err := Quantize(mustParse(t, "4"), 0, 4, constants.ClockFrequency)
	assert.True(errors.Is(err, model.ErrIncompleteSong))
	_, _, err = Quantize(mustParse(t, "4"), 120, 3, constants.ClockFrequency)
	assert.True(errors.Is(err, model.ErrIncompleteSong))
}
