package frame

import (
	"encoding/binary"

	"github.com/jsphweid/dormbell/constants"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/util"
	"github.com/pkg/errors"
)

var ErrTruncated = errors.New("truncated frame")

// Decode reads the songs back out of an encoded payload.
func Decode(layout Layout, data []byte) ([]model.ResolvedSong, error) {
	var res []model.ResolvedSong
	for offset := 0; offset < len(data); {
		rs, n, err := decodeSong(layout, data[offset:])
		if err != nil {
			return nil, errors.Wrapf(err, "at byte %d", offset)
		}
		res = append(res, rs)
		offset += n
		if layout == Burst && offset != len(data) {
			return nil, errors.Errorf("burst frame has %d trailing bytes", len(data)-offset)
		}
	}
	return res, nil
}

func decodeSong(layout Layout, buf []byte) (model.ResolvedSong, int, error) {
	if len(buf) < constants.SongOverhead {
		return model.ResolvedSong{}, 0, ErrTruncated
	}
	n := int(buf[0])
	size := Size(n)
	if len(buf) < size {
		return model.ResolvedSong{}, 0, errors.Wrapf(ErrTruncated, "%d notes need %d bytes, have %d", n, size, len(buf))
	}

	var rs model.ResolvedSong
	rs.PauseTicks = uint16(buf[1])
	switch layout {
	case Burst:
		rs.Ticks = util.FromBytes[uint16](buf[2 : 2+n])
		rs.TempoTicks = binary.LittleEndian.Uint16(buf[2+n : 4+n])
		rs.Beats = util.FromBytes[uint16](buf[4+n : 4+2*n])
	case Packed:
		rs.TempoTicks = binary.LittleEndian.Uint16(buf[2:4])
		rs.Ticks = util.FromBytes[uint16](buf[4 : 4+n])
		rs.Beats = util.FromBytes[uint16](buf[4+n : 4+2*n])
	}
	return rs, size, nil
}
