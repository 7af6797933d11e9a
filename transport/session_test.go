package transport

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jsphweid/dormbell/constants"
	"github.com/jsphweid/dormbell/frame"
	"github.com/jsphweid/dormbell/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	written   bytes.Buffer
	replies   []byte
	readAt    []int
	failAfter int
	closed    bool
}

func (c *fakeChannel) Write(p []byte) (int, error) {
	if c.failAfter > 0 && c.written.Len()+len(p) > c.failAfter {
		return 0, errors.New("unplugged")
	}
	return c.written.Write(p)
}

func (c *fakeChannel) Read(p []byte) (int, error) {
	c.readAt = append(c.readAt, c.written.Len())
	if len(c.replies) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.replies)
	c.replies = c.replies[n:]
	return n, nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type sleepRecord struct {
	d       time.Duration
	written int
}

func newTestSession(ch *fakeChannel, opts Options) (*Session, *[]sleepRecord) {
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSession(ch, opts)
	var sleeps []sleepRecord
	s.sleep = func(d time.Duration) {
		sleeps = append(sleeps, sleepRecord{d, ch.written.Len()})
	}
	return s, &sleeps
}

func fragment() model.ResolvedSong {
	return model.ResolvedSong{
		Ticks:      []uint16{56, 56, 50, 42},
		Beats:      []uint16{3, 3, 3, 3},
		PauseTicks: 33,
		TempoTicks: 5120,
	}
}

func burstFrame(t *testing.T) *frame.Frame {
	f, err := frame.Encode(fragment(), constants.MemoryLimit)
	require.NoError(t, err)
	return f
}

func TestBurstWaitsForAckBetweenHalves(t *testing.T) {
	ch := &fakeChannel{replies: []byte{0xFF, 7, constants.AckByte}}
	s, sleeps := newTestSession(ch, Options{Pacing: AckWait})
	f := burstFrame(t)

	assert := assert.New(t)
	assert.NoError(s.Send(f))
	assert.Equal(f.Bytes(), ch.written.Bytes())
	first, _ := f.Halves()
	assert.Equal([]int{len(first)}, ch.readAt)
	assert.Empty(*sleeps)
	assert.Equal(Closed, s.State())
}

func TestBurstSleepsWithFixedDelay(t *testing.T) {
	ch := &fakeChannel{}
	s, sleeps := newTestSession(ch, Options{Pacing: FixedDelay, Delay: 500 * time.Millisecond})
	f := burstFrame(t)

	assert := assert.New(t)
	assert.NoError(s.Send(f))
	assert.Equal(f.Bytes(), ch.written.Bytes())
	assert.Equal([]sleepRecord{{500 * time.Millisecond, 6}}, *sleeps)
	assert.Empty(ch.readAt)
}

func TestPackedPacesEveryHalfLimit(t *testing.T) {
	songs := []model.ResolvedSong{fragment(), fragment(), fragment()}
	f, err := frame.EncodeAll(songs, 40)
	require.NoError(t, err)

	ch := &fakeChannel{}
	s, sleeps := newTestSession(ch, Options{Pacing: AckWait, PackedDelay: 2 * time.Second})

	assert := assert.New(t)
	assert.NoError(s.Send(f))
	assert.Equal(f.Bytes(), ch.written.Bytes())
	assert.Equal([]sleepRecord{{2 * time.Second, 20}}, *sleeps)
	assert.Empty(ch.readAt)
}

func TestMissingAckClosesSession(t *testing.T) {
	ch := &fakeChannel{}
	s, _ := newTestSession(ch, Options{Pacing: AckWait})

	err := s.Send(burstFrame(t))
	var te *model.TransportError
	assert := assert.New(t)
	assert.True(errors.As(err, &te))
	assert.Equal(BurstOneSent.String(), te.State)
	assert.True(errors.Is(err, io.EOF))
	assert.Equal(Closed, s.State())

	err = s.Send(burstFrame(t))
	assert.True(errors.Is(err, model.ErrSessionClosed))
}

func TestWriteFailureIsFatal(t *testing.T) {
	ch := &fakeChannel{failAfter: 3}
	s, sleeps := newTestSession(ch, Options{Pacing: FixedDelay})

	err := s.Send(burstFrame(t))
	var te *model.TransportError
	assert := assert.New(t)
	assert.True(errors.As(err, &te))
	assert.Equal(HeaderSent.String(), te.State)
	assert.Equal(Closed, s.State())
	assert.Empty(*sleeps)
	assert.Zero(ch.written.Len())
}

func packedFrame(t *testing.T) *frame.Frame {
	songs := []model.ResolvedSong{fragment(), fragment(), fragment()}
	f, err := frame.EncodeAll(songs, 40)
	require.NoError(t, err)
	return f
}

func TestPackedFailureReportsState(t *testing.T) {
	cases := []struct {
		name      string
		failAfter int
		state     State
		sleeps    int
	}{
		{"first chunk", 3, HeaderSent, 0},
		{"second chunk", 25, Paced, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ch := &fakeChannel{failAfter: c.failAfter}
			s, sleeps := newTestSession(ch, Options{PackedDelay: time.Second})

			err := s.Send(packedFrame(t))
			var te *model.TransportError
			assert := assert.New(t)
			assert.True(errors.As(err, &te))
			assert.Equal(c.state.String(), te.State)
			assert.Equal(Closed, s.State())
			assert.Len(*sleeps, c.sleeps)
		})
	}
}

func TestThrottledSendWritesEverything(t *testing.T) {
	ch := &fakeChannel{replies: []byte{constants.AckByte}}
	s, _ := newTestSession(ch, Options{Pacing: AckWait, ByteRate: 1000000})
	f := burstFrame(t)

	assert := assert.New(t)
	assert.NoError(s.Send(f))
	assert.Equal(f.Bytes(), ch.written.Bytes())
}

func TestCloseReleasesChannel(t *testing.T) {
	ch := &fakeChannel{}
	s, _ := newTestSession(ch, Options{})

	assert := assert.New(t)
	assert.NoError(s.Close())
	assert.True(ch.closed)
	assert.True(errors.Is(s.Send(burstFrame(t)), model.ErrSessionClosed))
}

func TestCloseLogsTransition(t *testing.T) {
	var logs bytes.Buffer
	s := NewSession(&fakeChannel{}, Options{
		Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	assert := assert.New(t)
	assert.NoError(s.Close())
	assert.Contains(logs.String(), "to=closed")
	assert.Equal(Closed, s.State())
}

func TestParsePaceMode(t *testing.T) {
	assert := assert.New(t)
	m, err := ParsePaceMode("delay")
	assert.NoError(err)
	assert.Equal(FixedDelay, m)
	_, err = ParsePaceMode("smoke")
	assert.Error(err)
}
