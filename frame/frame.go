package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/jsphweid/dormbell/constants"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/util"
	"github.com/pkg/errors"
)

type Layout int

const (
	// Burst carries one song in two halves: count, pause, ticks | tempo, beats.
	Burst Layout = iota
	// Packed carries whole song records back to back.
	Packed
)

func (l Layout) String() string {
	if l == Packed {
		return "packed"
	}
	return "burst"
}

func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "burst":
		return Burst, nil
	case "packed":
		return Packed, nil
	}
	return Burst, fmt.Errorf("unknown layout %q (want burst or packed)", s)
}

// Frame is an encoded payload ready for a transport session.
type Frame struct {
	Layout  Layout
	Limit   int
	Songs   int
	Dropped int

	data  []byte
	split int
}

func (f *Frame) Bytes() []byte {
	return f.data
}

func (f *Frame) Len() int {
	return len(f.data)
}

// Halves splits a burst frame at the pacing boundary.
func (f *Frame) Halves() ([]byte, []byte) {
	return f.data[:f.split], f.data[f.split:]
}

// Chunks splits a packed frame every Limit/2 bytes.
func (f *Frame) Chunks() [][]byte {
	step := f.Limit / 2
	if step <= 0 {
		return [][]byte{f.data}
	}
	var res [][]byte
	for start := 0; start < len(f.data); start += step {
		res = append(res, f.data[start:util.Min(start+step, len(f.data))])
	}
	return res
}

// Size is the number of payload bytes a song of n notes takes.
func Size(n int) int {
	return constants.SongOverhead + n*constants.NoteSize
}

// check enforces the one-byte fields of the wire format.
func check(rs model.ResolvedSong) error {
	if len(rs.Ticks) != len(rs.Beats) {
		return errors.Wrapf(model.ErrIncompleteSong, "%d ticks but %d beats", len(rs.Ticks), len(rs.Beats))
	}
	if rs.Len() == 0 {
		return errors.Wrap(model.ErrIncompleteSong, "no notes")
	}
	if rs.Len() > math.MaxUint8 {
		return errors.Wrapf(model.ErrMemoryLimitExceeded, "%d notes do not fit the count byte", rs.Len())
	}
	if rs.PauseTicks > math.MaxUint8 {
		return errors.Wrapf(model.ErrPauseOutOfRange, "%d ticks", rs.PauseTicks)
	}
	if i := util.FirstOver(rs.Ticks, math.MaxUint8); i >= 0 {
		return &model.UnplayableNoteError{Index: i, Reason: fmt.Sprintf("tick period %d is out of range (pitch too low)", rs.Ticks[i])}
	}
	if i := util.FirstOver(rs.Beats, math.MaxUint8); i >= 0 {
		return &model.UnplayableNoteError{Index: i, Reason: fmt.Sprintf("%d beats is out of range", rs.Beats[i])}
	}
	return nil
}

func writeHead(buf *bytes.Buffer, rs model.ResolvedSong) {
	buf.WriteByte(byte(rs.Len()))
	buf.WriteByte(byte(rs.PauseTicks))
}

// tempo is stored little-endian, the receiver copies the word verbatim
func writeTempo(buf *bytes.Buffer, rs model.ResolvedSong) {
	binary.Write(buf, binary.LittleEndian, rs.TempoTicks)
}

// Encode builds a burst frame for a single song. It fails if the song does
// not fit in limit bytes.
func Encode(rs model.ResolvedSong, limit int) (*Frame, error) {
	if err := check(rs); err != nil {
		return nil, err
	}
	if size := Size(rs.Len()); size > limit {
		return nil, errors.Wrapf(model.ErrMemoryLimitExceeded, "%d notes need %d bytes, limit is %d", rs.Len(), size, limit)
	}

	buf := new(bytes.Buffer)
	writeHead(buf, rs)
	buf.Write(util.ToBytes(rs.Ticks))
	split := buf.Len()
	writeTempo(buf, rs)
	buf.Write(util.ToBytes(rs.Beats))

	return &Frame{Layout: Burst, Limit: limit, Songs: 1, data: buf.Bytes(), split: split}, nil
}

// EncodeAll packs songs in order until the next one would pass limit. The
// songs left out are counted in Dropped. It fails only when a song is
// invalid or not even the first one fits.
func EncodeAll(songs []model.ResolvedSong, limit int) (*Frame, error) {
	for i, rs := range songs {
		if err := check(rs); err != nil {
			return nil, errors.Wrapf(err, "song %d (%s)", i+1, rs.Title)
		}
	}

	f := &Frame{Layout: Packed, Limit: limit}
	buf := new(bytes.Buffer)
	for _, rs := range songs {
		if buf.Len()+Size(rs.Len()) > limit {
			break
		}
		writeHead(buf, rs)
		writeTempo(buf, rs)
		buf.Write(util.ToBytes(rs.Ticks))
		buf.Write(util.ToBytes(rs.Beats))
		f.Songs++
	}
	f.Dropped = len(songs) - f.Songs

	if f.Songs == 0 {
		n := 0
		if len(songs) > 0 {
			n = Size(songs[0].Len())
		}
		return nil, errors.Wrapf(model.ErrMemoryLimitExceeded, "first song needs %d bytes, limit is %d", n, limit)
	}
	f.data = buf.Bytes()
	f.split = len(f.data)
	return f, nil
}
