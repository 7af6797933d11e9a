package resolve

import (
	"math"
	"time"

	"github.com/jsphweid/dormbell/duration"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/pitch"
	"github.com/pkg/errors"
)

func PauseTicks(pauseMillis, clockFrequency int) (uint16, error) {
	ticks := math.Round(float64(clockFrequency) * float64(pauseMillis) / 1000)
	if pauseMillis < 0 || ticks > math.MaxUint8 {
		return 0, errors.Wrapf(model.ErrPauseOutOfRange, "%d ms is %v ticks", pauseMillis, ticks)
	}
	return uint16(ticks), nil
}

func checkComplete(s model.Song) error {
	switch {
	case len(s.Notes) == 0:
		return errors.Wrap(model.ErrIncompleteSong, "no notes")
	case s.TempoBpm <= 0:
		return errors.Wrap(model.ErrIncompleteSong, "tempo not set")
	case s.TimeSignature <= 0:
		return errors.Wrap(model.ErrIncompleteSong, "time signature not set")
	}
	return nil
}

// Song converts s into device-native ticks, beats, pause and tempo. The
// whole song is rejected on the first failure.
func Song(s model.Song, clockFrequency int) (model.ResolvedSong, error) {
	if err := checkComplete(s); err != nil {
		return model.ResolvedSong{}, err
	}

	res := model.ResolvedSong{Title: s.Title, Ticks: make([]uint16, len(s.Notes))}
	durations := make([]model.Duration, len(s.Notes))
	for i, n := range s.Notes {
		ticks, err := pitch.Resolve(n.Pitch, clockFrequency)
		if err != nil {
			return model.ResolvedSong{}, errors.Wrapf(err, "note %d", i+1)
		}
		res.Ticks[i] = ticks
		durations[i] = n.Duration
	}

	pause, err := PauseTicks(s.PauseMillis, clockFrequency)
	if err != nil {
		return model.ResolvedSong{}, err
	}
	res.PauseTicks = pause

	beats, tempo, err := duration.Quantize(durations, s.TempoBpm, s.TimeSignature, clockFrequency)
	if err != nil {
		return model.ResolvedSong{}, err
	}
	res.Beats = beats
	res.TempoTicks = tempo
	return res, nil
}

func Songs(songs []model.Song, clockFrequency int) ([]model.ResolvedSong, error) {
	res := make([]model.ResolvedSong, 0, len(songs))
	for i, s := range songs {
		rs, err := Song(s, clockFrequency)
		if err != nil {
			return nil, errors.Wrapf(err, "song %d (%s)", i+1, s.Title)
		}
		res = append(res, rs)
	}
	return res, nil
}

// PlaybackLength is how long the device takes to play rs: each note plays
// for beat*tempo ticks and is followed by the pause.
func PlaybackLength(rs model.ResolvedSong, clockFrequency int) time.Duration {
	var ticks uint64
	for _, beat := range rs.Beats {
		ticks += uint64(beat)*uint64(rs.TempoTicks) + uint64(rs.PauseTicks)
	}
	return time.Duration(ticks) * time.Second / time.Duration(clockFrequency)
}
