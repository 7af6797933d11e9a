package score

import (
	"fmt"
	"io"
	"math"

	"github.com/jsphweid/dormbell/duration"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/pitch"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

var sharpNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchFromMIDIKey converts a MIDI key number (60 = C4) to a pitch.
func PitchFromMIDIKey(key uint8) (model.Pitch, error) {
	octave := int(key)/12 - 1
	return pitch.Parse(fmt.Sprintf("%s%d", sharpNames[key%12], octave))
}

// Snap picks the plain or dotted note value closest to a length of ticks
// at the given ticks per quarter.
func Snap(ticks uint32, resolution uint16) model.Duration {
	quarters := float64(ticks) / float64(resolution)
	best := model.Duration{Denominator: 4}
	bestDiff := math.Inf(1)
	for denom := 1; denom <= duration.MaxDenominator; denom *= 2 {
		for _, dotted := range []bool{false, true} {
			length := 4 / float64(denom)
			if dotted {
				length *= 1.5
			}
			if diff := math.Abs(math.Log(quarters / length)); diff < bestDiff {
				bestDiff = diff
				best = model.Duration{Denominator: denom, Dotted: dotted}
			}
		}
	}
	return best
}

type midiReader struct {
	resolution uint16
	notes      []model.Note
	cursor     int64
	sounding   bool
	key        uint8
	start      int64
}

func (mr *midiReader) emit(p model.Pitch, length int64) {
	if length <= 0 {
		return
	}
	mr.notes = append(mr.notes, model.Note{Pitch: p, Duration: Snap(uint32(length), mr.resolution)})
}

func (mr *midiReader) noteOff(abs int64) error {
	p, err := PitchFromMIDIKey(mr.key)
	if err != nil {
		return err
	}
	mr.emit(p, abs-mr.start)
	mr.cursor = abs
	mr.sounding = false
	return nil
}

func (mr *midiReader) noteOn(abs int64, key uint8) error {
	if mr.sounding {
		if err := mr.noteOff(abs); err != nil {
			return err
		}
	}
	mr.emit(model.Rest, abs-mr.cursor)
	mr.sounding = true
	mr.key = key
	mr.start = abs
	return nil
}

// LoadMIDI reads the first track with notes from a standard MIDI file as a
// monophonic line. Overlapping notes cut the previous one short and gaps
// become rests. Tempo and meter come from the first meta events found.
func LoadMIDI(r io.Reader) (song model.Song, err error) {
	// smf panics on some corrupt input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if p := recover(); p != nil {
			song, err = model.Song{}, errors.Errorf("parsing midi: %v", p)
		}
	}()

	mf, err := smf.ReadFrom(r)
	if err != nil {
		return model.Song{}, errors.Wrap(err, "parsing midi")
	}
	ticks, ok := mf.TimeFormat.(smf.MetricTicks)
	if !ok {
		return model.Song{}, errors.New("only metric time formats are supported")
	}

	song = model.Song{
		PauseMillis:   DefaultPauseMillis,
		TempoBpm:      120,
		TimeSignature: DefaultTimeSignature,
	}
	var tempoSet, meterSet bool

	for _, track := range mf.Tracks {
		mr := &midiReader{resolution: ticks.Resolution()}
		var abs int64
		for _, event := range track {
			abs += int64(event.Delta)
			var channel, key, velocity, num, denom uint8
			var bpm float64
			switch {
			case !tempoSet && event.Message.GetMetaTempo(&bpm):
				song.TempoBpm = int(math.Round(bpm))
				tempoSet = true
			case !meterSet && event.Message.GetMetaMeter(&num, &denom):
				song.TimeSignature = int(denom)
				meterSet = true
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				if velocity == 0 {
					if mr.sounding && key == mr.key {
						err = mr.noteOff(abs)
					}
					break
				}
				err = mr.noteOn(abs, key)
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				if mr.sounding && key == mr.key {
					err = mr.noteOff(abs)
				}
			}
			if err != nil {
				return model.Song{}, errors.Wrapf(err, "at tick %d", abs)
			}
		}
		// a note still sounding at end of track ends there
		if mr.sounding {
			if err := mr.noteOff(abs); err != nil {
				return model.Song{}, errors.Wrapf(err, "at tick %d", abs)
			}
		}
		if len(song.Notes) == 0 && len(mr.notes) > 0 {
			song.Notes = mr.notes
		}
	}

	if len(song.Notes) == 0 {
		return model.Song{}, errors.Wrap(model.ErrIncompleteSong, "midi file has no notes")
	}
	return song, nil
}
