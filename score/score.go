package score

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/dormbell/duration"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/pitch"
	"github.com/pkg/errors"
)

// 33 ticks at 32768 Hz
const DefaultPauseMillis = 1

const DefaultTimeSignature = 4

// Build parses every pitch and duration token of raw.
func Build(raw model.RawSong) (model.Song, error) {
	s := model.Song{
		Title:         strings.TrimSpace(raw.Title),
		PauseMillis:   raw.PauseMillis,
		TempoBpm:      raw.TempoBpm,
		TimeSignature: raw.TimeSignature,
		Notes:         make([]model.Note, 0, len(raw.Notes)),
	}
	for i, rn := range raw.Notes {
		p, err := pitch.Parse(rn.Pitch)
		if err != nil {
			return model.Song{}, errors.Wrapf(err, "note %d", i+1)
		}
		d, err := duration.Parse(rn.Duration)
		if err != nil {
			return model.Song{}, errors.Wrapf(err, "note %d", i+1)
		}
		s.Notes = append(s.Notes, model.Note{Pitch: p, Duration: d})
	}
	return s, nil
}

func BuildAll(raws []model.RawSong) ([]model.Song, error) {
	var res []model.Song
	for i, raw := range raws {
		s, err := Build(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "song %d", i+1)
		}
		res = append(res, s)
	}
	return res, nil
}

// Load reads a score file, choosing the front-end by extension.
func Load(path string) ([]model.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening score")
	}
	defer f.Close()

	var songs []model.Song
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		var s model.Song
		s, err = LoadText(f)
		songs = []model.Song{s}
	case ".xml":
		songs, err = LoadXML(f)
	case ".json":
		songs, err = LoadJSON(f)
	case ".mid", ".midi":
		var s model.Song
		s, err = LoadMIDI(f)
		songs = []model.Song{s}
	default:
		return nil, errors.Errorf("%s: unknown score format (want .txt, .xml, .json or .mid)", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	for i := range songs {
		if songs[i].Title == "" {
			songs[i].Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}
	return songs, nil
}

func LoadAll(paths []string) ([]model.Song, error) {
	var res []model.Song
	for _, path := range paths {
		songs, err := Load(path)
		if err != nil {
			return nil, err
		}
		res = append(res, songs...)
	}
	return res, nil
}
