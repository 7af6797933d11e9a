package sample

import (
	"io"
	"math"

	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/pitch"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ticks per quarter note
const Resolution = 960

const velocity = 100

// Ticks is the MIDI length of d. Dotted values are one and a half times
// the plain value here, as a player would hear them.
func Ticks(d model.Duration) uint32 {
	ticks := uint32(4*Resolution) / uint32(d.Denominator)
	if d.Dotted {
		ticks += ticks / 2
	}
	return ticks
}

func midiKey(p model.Pitch) (uint8, error) {
	key, err := pitch.Key(p)
	if err != nil {
		return 0, err
	}
	// piano key 49 (A4) is MIDI key 69
	key += 20
	if key < 0 || key > 127 {
		return 0, errors.Wrapf(model.ErrInvalidPitch, "%s has no MIDI key", p)
	}
	return uint8(key), nil
}

// Create renders s as a two track MIDI file so it can be auditioned before
// it is sent. Rests become gaps; the pause between notes is not rendered.
func Create(s model.Song) (*smf.SMF, error) {
	if s.TempoBpm <= 0 || s.TimeSignature <= 0 || s.TimeSignature > math.MaxUint8 {
		return nil, errors.Wrapf(model.ErrIncompleteSong, "tempo %d, time %d", s.TempoBpm, s.TimeSignature)
	}
	res := smf.New()
	res.TimeFormat = smf.MetricTicks(Resolution)

	var conductor smf.Track
	conductor.Add(0, smf.MetaMeter(4, uint8(s.TimeSignature)))
	conductor.Add(0, smf.MetaTempo(float64(s.TempoBpm)))
	conductor.Close(0)

	var melody smf.Track
	var delta uint32
	for i, n := range s.Notes {
		length := Ticks(n.Duration)
		if n.Pitch.Rest {
			delta += length
			continue
		}
		key, err := midiKey(n.Pitch)
		if err != nil {
			return nil, errors.Wrapf(err, "note %d", i+1)
		}
		melody.Add(delta, midi.NoteOn(0, key, velocity))
		melody.Add(length, midi.NoteOff(0, key))
		delta = 0
	}
	melody.Close(delta)

	if err := res.Add(conductor); err != nil {
		return nil, err
	}
	if err := res.Add(melody); err != nil {
		return nil, err
	}
	return res, nil
}

func Write(w io.Writer, s model.Song) error {
	mf, err := Create(s)
	if err != nil {
		return err
	}
	_, err = mf.WriteTo(w)
	return errors.Wrap(err, "writing midi")
}
