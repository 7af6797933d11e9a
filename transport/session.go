package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/dormbell/constants"
	"github.com/jsphweid/dormbell/frame"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/util"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Channel is the byte link to the receiver, normally a serial port.
type Channel interface {
	io.Reader
	io.Writer
}

type PaceMode int

const (
	// AckWait blocks until the receiver sends constants.AckByte.
	AckWait PaceMode = iota
	// FixedDelay sleeps for Options.Delay.
	FixedDelay
)

func (m PaceMode) String() string {
	if m == FixedDelay {
		return "delay"
	}
	return "ack"
}

func ParsePaceMode(s string) (PaceMode, error) {
	switch strings.ToLower(s) {
	case "", "ack":
		return AckWait, nil
	case "delay":
		return FixedDelay, nil
	}
	return AckWait, fmt.Errorf("unknown pacing %q (want ack or delay)", s)
}

type State int

const (
	Idle State = iota
	HeaderSent
	BurstOneSent
	Paced
	BurstTwoSent
	Closed
)

var stateNames = [...]string{"idle", "header sent", "first burst sent", "paced", "second burst sent", "closed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Options struct {
	Name   string
	Pacing PaceMode
	// pause between the halves of a burst frame
	Delay time.Duration
	// pause every Limit/2 bytes of a packed frame, while the receiver
	// writes its buffer to flash
	PackedDelay time.Duration
	// bytes per second, 0 for no limit
	ByteRate int
	Logger   *slog.Logger
}

// Session sends exactly one frame over an exclusively owned channel.
// Any failure closes it; there is no retry.
type Session struct {
	id      uuid.UUID
	ch      Channel
	out     *bufio.Writer
	in      *bufio.Reader
	opts    Options
	state   State
	limiter *rate.Limiter
	sleep   func(time.Duration)
	log     *slog.Logger
}

func NewSession(ch Channel, opts Options) *Session {
	s := &Session{
		id:    uuid.New(),
		ch:    ch,
		out:   bufio.NewWriterSize(ch, 128),
		in:    bufio.NewReader(ch),
		opts:  opts,
		sleep: time.Sleep,
		log:   opts.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("session", s.id.String(), "port", opts.Name)
	if opts.ByteRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.ByteRate), 1)
	}
	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) setState(st State) {
	s.log.Debug("transport state", "from", s.state.String(), "to", st.String())
	s.state = st
}

func (s *Session) fail(err error) error {
	te := &model.TransportError{State: s.state.String(), Err: err}
	s.setState(Closed)
	return te
}

// Send writes f to the receiver, pacing it as its layout requires.
func (s *Session) Send(f *frame.Frame) error {
	if s.state != Idle {
		return errors.Wrapf(model.ErrSessionClosed, "session is %s", s.state)
	}
	s.log.Info("sending frame", "layout", f.Layout.String(), "bytes", f.Len(), "songs", f.Songs)

	var err error
	if f.Layout == frame.Packed {
		err = s.sendPacked(f)
	} else {
		err = s.sendBurst(f)
	}
	if err != nil {
		return s.fail(err)
	}
	s.setState(Closed)
	return nil
}

func (s *Session) sendBurst(f *frame.Frame) error {
	first, second := f.Halves()

	if err := s.write(first[:2]); err != nil {
		return err
	}
	s.setState(HeaderSent)

	if err := s.write(first[2:]); err != nil {
		return err
	}
	if err := s.out.Flush(); err != nil {
		return err
	}
	s.setState(BurstOneSent)

	if err := s.pace(); err != nil {
		return err
	}
	s.setState(Paced)

	if err := s.write(second); err != nil {
		return err
	}
	if err := s.out.Flush(); err != nil {
		return err
	}
	s.setState(BurstTwoSent)
	return nil
}

// sendPacked follows the burst states: header, then each chunk but the last
// ends in BurstOneSent and is followed by a Paced wait, and the last chunk
// ends in BurstTwoSent.
func (s *Session) sendPacked(f *frame.Frame) error {
	chunks := f.Chunks()
	for i, chunk := range chunks {
		if i == 0 {
			if err := s.write(chunk[:2]); err != nil {
				return err
			}
			s.setState(HeaderSent)
			chunk = chunk[2:]
		}
		if err := s.write(chunk); err != nil {
			return err
		}
		if err := s.out.Flush(); err != nil {
			return err
		}
		if i == len(chunks)-1 {
			s.setState(BurstTwoSent)
			break
		}
		s.setState(BurstOneSent)
		s.log.Info("waiting for receiver to store buffer", "delay", s.opts.PackedDelay, "written", (i+1)*len(chunks[0]))
		s.sleep(s.opts.PackedDelay)
		s.setState(Paced)
	}
	return nil
}

func (s *Session) pace() error {
	if s.opts.Pacing == FixedDelay {
		s.log.Info("waiting for receiver", "delay", s.opts.Delay)
		s.sleep(s.opts.Delay)
		return nil
	}

	s.log.Info("waiting for acknowledgment", "ack", constants.AckByte)
	for {
		b, err := s.in.ReadByte()
		if err != nil {
			return errors.Wrap(err, "waiting for acknowledgment")
		}
		if b == constants.AckByte {
			return nil
		}
		s.log.Debug("ignoring byte from receiver", "byte", b)
	}
}

func (s *Session) write(p []byte) error {
	if s.limiter == nil {
		_, err := s.out.Write(p)
		return err
	}
	for len(p) > 0 {
		n := util.Min(len(p), s.limiter.Burst())
		if err := s.limiter.WaitN(context.Background(), n); err != nil {
			return err
		}
		if _, err := s.out.Write(p[:n]); err != nil {
			return err
		}
		if err := s.out.Flush(); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// Close releases the channel if it can be closed.
func (s *Session) Close() error {
	if s.state != Closed {
		s.setState(Closed)
	}
	if c, ok := s.ch.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
