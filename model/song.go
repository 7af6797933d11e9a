package model

import "fmt"

type Accidental int8

const (
	Natural Accidental = iota
	Sharp
	Flat
)

// Pitch is a parsed SPN pitch or a rest. Rests carry no letter, accidental
// or octave.
type Pitch struct {
	Letter     byte
	Accidental Accidental
	Octave     int
	Rest       bool
}

var Rest = Pitch{Rest: true}

func (p Pitch) String() string {
	if p.Rest {
		return "R"
	}
	var acc string
	switch p.Accidental {
	case Sharp:
		acc = "#"
	case Flat:
		acc = "b"
	}
	return fmt.Sprintf("%c%s%d", p.Letter, acc, p.Octave)
}

// Duration is a note length written as the lower number of a fraction of a
// whole note (4 = quarter). Larger denominators are shorter notes.
type Duration struct {
	Denominator int
	Dotted      bool
}

func (d Duration) String() string {
	if d.Dotted {
		return fmt.Sprintf("%d.", d.Denominator)
	}
	return fmt.Sprintf("%d", d.Denominator)
}

type Note struct {
	Pitch    Pitch
	Duration Duration
}

// Song is produced by a score front-end and read by the resolver.
type Song struct {
	Title         string
	Notes         []Note
	PauseMillis   int
	TempoBpm      int
	TimeSignature int // lower numeral
}

// ResolvedSong holds the device-native values for one song. Ticks and
// Beats are parallel to the song's notes.
type ResolvedSong struct {
	Title      string
	Ticks      []uint16
	Beats      []uint16
	PauseTicks uint16
	TempoTicks uint16
}

func (rs ResolvedSong) Len() int {
	return len(rs.Ticks)
}
