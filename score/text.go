package score

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/jsphweid/dormbell/model"
	"github.com/pkg/errors"
)

// LoadText reads the plain text format:
//
//	pause in ms
//	tempo in bpm
//	pitches, comma separated
//	durations, comma separated
//	time signature denominator (optional, default 4)
func LoadText(r io.Reader) (model.Song, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return model.Song{}, errors.Wrapf(err, "reading line %d", len(lines)+1)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) != 4 && len(lines) != 5 {
		return model.Song{}, errors.Errorf("want 4 or 5 lines (pause, tempo, pitches, durations, time), got %d", len(lines))
	}

	var raw model.RawSong
	var err error
	if raw.PauseMillis, err = strconv.Atoi(lines[0]); err != nil {
		return model.Song{}, errors.Wrap(err, "pause")
	}
	if raw.TempoBpm, err = strconv.Atoi(lines[1]); err != nil {
		return model.Song{}, errors.Wrap(err, "tempo")
	}
	raw.TimeSignature = DefaultTimeSignature
	if len(lines) == 5 {
		if raw.TimeSignature, err = strconv.Atoi(lines[4]); err != nil {
			return model.Song{}, errors.Wrap(err, "time signature")
		}
	}

	pitches := splitList(lines[2])
	durations := splitList(lines[3])
	if len(pitches) != len(durations) {
		return model.Song{}, errors.Errorf("%d pitches but %d durations", len(pitches), len(durations))
	}
	for i := range pitches {
		raw.Notes = append(raw.Notes, model.RawNote{Pitch: pitches[i], Duration: durations[i]})
	}
	return Build(raw)
}

func splitList(line string) []string {
	var res []string
	for _, v := range strings.Split(line, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
