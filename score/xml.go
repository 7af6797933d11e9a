package score

import (
	"encoding/json"
	"encoding/xml"
	"io"

	"github.com/jsphweid/dormbell/model"
	"github.com/pkg/errors"
)

// a <song> root, or a <songs> root holding several <song> elements
type xmlDocument struct {
	XMLName xml.Name
	model.RawSong
	Songs []model.RawSong `xml:"song"`
}

func LoadXML(r io.Reader) ([]model.Song, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding xml")
	}
	switch doc.XMLName.Local {
	case "song":
		s, err := Build(doc.RawSong)
		if err != nil {
			return nil, err
		}
		return []model.Song{s}, nil
	case "songs":
		return BuildAll(doc.Songs)
	}
	return nil, errors.Errorf("unexpected root element <%s>", doc.XMLName.Local)
}

// LoadJSON accepts one song object or an array of them.
func LoadJSON(r io.Reader) ([]model.Song, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raws []model.RawSong
	if err := json.Unmarshal(data, &raws); err != nil {
		var raw model.RawSong
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "decoding json")
		}
		raws = []model.RawSong{raw}
	}
	return BuildAll(raws)
}
