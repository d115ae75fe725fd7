package voice

import (
	"strings"
	"sync/atomic"
	"time"
)

// State is the adapter's listening state.
type State int

// Adapter states.
const (
	StateIdle State = iota
	StateStarting
	StateListening
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	default:
		return "unknown"
	}
}

// Error kinds reported by a recognition session.
const (
	ErrKindNoSpeech   = "no-speech"
	ErrKindNetwork    = "network"
	ErrKindNotAllowed = "not-allowed"
	ErrKindAborted    = "aborted"
)

// Sink receives events from a live recognition session. The Adapter hands a
// Sink to the Provider when a session starts; the platform binding calls it
// from whatever goroutine it likes.
type Sink interface {
	// Result delivers the segments recognized so far for the current
	// utterance. Each call is a full snapshot, not a delta.
	Result(segments []string)
	// Error reports a session failure by kind (see the ErrKind constants).
	Error(kind string)
	// End signals that the session has finished.
	End()
}

// Session is a live recognition session.
type Session interface {
	// Stop requests a graceful end; End is expected to follow.
	Stop()
	// Abort tears the session down without a final result.
	Abort()
}

// Provider supplies speech-recognition sessions. It is injected rather than
// probed from any ambient global, so an unsupported runtime is an explicit,
// queryable condition.
type Provider interface {
	Supported() bool
	Start(sink Sink) (Session, error)
}

// Options tune the adapter's timers.
type Options struct {
	// ActivationDelay separates Starting from Listening, absorbing rapid
	// repeated start clicks.
	ActivationDelay time.Duration
	// AutoStop is the silence window: when no new result arrives within it,
	// the adapter requests a stop.
	AutoStop time.Duration
}

func (o *Options) defaults() {
	if o.ActivationDelay <= 0 {
		o.ActivationDelay = 100 * time.Millisecond
	}
	if o.AutoStop <= 0 {
		o.AutoStop = 600 * time.Millisecond
	}
}

// Adapter drives a recognition session through Idle → Starting → Listening
// → Idle, buffering the live transcript and bounding session length with an
// auto-stop timer.
//
// Concurrency model: a single internal event loop owns all mutable state
// (state, session, transcript, timers). Public methods and the session sink
// communicate with the loop through channels, so no mutexes are required.
type Adapter struct {
	provider Provider
	opts     Options

	startCh  chan struct{}
	stopCh   chan struct{}
	resultCh chan []string
	errCh    chan string
	endCh    chan struct{}
	stateCh  chan chan snapshot

	transcripts chan string

	quit    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

type snapshot struct {
	state      State
	transcript string
	err        string
}

// NewAdapter creates an adapter around the given provider. A nil provider
// is a programming error and panics.
func NewAdapter(provider Provider, opts Options) *Adapter {
	if provider == nil {
		panic("voice: nil provider")
	}
	opts.defaults()

	a := &Adapter{
		provider:    provider,
		opts:        opts,
		startCh:     make(chan struct{}),
		stopCh:      make(chan struct{}),
		resultCh:    make(chan []string, 16),
		errCh:       make(chan string, 4),
		endCh:       make(chan struct{}, 4),
		stateCh:     make(chan chan snapshot),
		transcripts: make(chan string, 16),
		quit:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	go a.run()
	return a
}

// Supported reports whether the underlying provider can recognize speech.
func (a *Adapter) Supported() bool { return a.provider.Supported() }

// Start requests a listening session. It is idempotent: a request while the
// adapter is already Starting or Listening is ignored.
func (a *Adapter) Start() {
	a.send(a.startCh)
}

// Stop requests the end of the current session. Stopping while Idle is a
// no-op.
func (a *Adapter) Stop() {
	a.send(a.stopCh)
}

// Transcripts delivers each finished, non-empty transcript exactly once,
// on the Listening → Idle transition.
func (a *Adapter) Transcripts() <-chan string { return a.transcripts }

// State returns the current adapter state.
func (a *Adapter) State() State { return a.query().state }

// Transcript returns the live transcript buffer.
func (a *Adapter) Transcript() string { return a.query().transcript }

// Err returns the user-facing message from the last session failure, or ""
// when the last session ended cleanly.
func (a *Adapter) Err() string { return a.query().err }

// Close shuts the event loop down. Any live session is aborted.
func (a *Adapter) Close() {
	if a.closed.CompareAndSwap(false, true) {
		close(a.quit)
	}
	<-a.stopped
}

func (a *Adapter) send(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	case <-a.stopped:
	}
}

func (a *Adapter) query() snapshot {
	resp := make(chan snapshot, 1)
	select {
	case a.stateCh <- resp:
	case <-a.stopped:
		return snapshot{state: StateIdle}
	}
	select {
	case s := <-resp:
		return s
	case <-a.stopped:
		return snapshot{state: StateIdle}
	}
}

// Sink implementation, called by the session.

type sessionSink struct{ a *Adapter }

func (s sessionSink) Result(segments []string) {
	select {
	case s.a.resultCh <- segments:
	case <-s.a.stopped:
	}
}

func (s sessionSink) Error(kind string) {
	select {
	case s.a.errCh <- kind:
	case <-s.a.stopped:
	}
}

func (s sessionSink) End() {
	select {
	case s.a.endCh <- struct{}{}:
	case <-s.a.stopped:
	}
}

func (a *Adapter) run() {
	defer close(a.stopped)

	var (
		state         = StateIdle
		session       Session
		transcript    string
		lastErr       string
		stopRequested bool
	)

	// Timers are single-instance: arming again replaces the pending fire.
	var activation, autoStop *time.Timer
	var activationCh, autoStopCh <-chan time.Time

	armActivation := func() {
		if activation == nil {
			activation = time.NewTimer(a.opts.ActivationDelay)
			activationCh = activation.C
		} else {
			if !activation.Stop() {
				drain(activationCh)
			}
			activation.Reset(a.opts.ActivationDelay)
		}
	}
	armAutoStop := func() {
		if autoStop == nil {
			autoStop = time.NewTimer(a.opts.AutoStop)
			autoStopCh = autoStop.C
		} else {
			if !autoStop.Stop() {
				drain(autoStopCh)
			}
			autoStop.Reset(a.opts.AutoStop)
		}
	}
	disarm := func(t *time.Timer, ch <-chan time.Time) {
		if t != nil && !t.Stop() {
			drain(ch)
		}
	}

	finish := func() {
		disarm(autoStop, autoStopCh)
		state = StateIdle
		session = nil
		stopRequested = false
		if transcript != "" {
			select {
			case a.transcripts <- transcript:
			default:
				// Consumer is not keeping up; drop rather than block the loop.
			}
		}
	}

	for {
		select {
		case <-a.quit:
			disarm(activation, activationCh)
			disarm(autoStop, autoStopCh)
			if session != nil {
				session.Abort()
			}
			close(a.transcripts)
			return

		case <-a.startCh:
			if state != StateIdle {
				continue
			}
			if !a.provider.Supported() {
				lastErr = "speech recognition is not supported on this device"
				continue
			}
			state = StateStarting
			armActivation()

		case <-activationCh:
			if state != StateStarting {
				continue
			}
			sess, err := a.provider.Start(sessionSink{a})
			if err != nil {
				lastErr = "failed to start listening"
				state = StateIdle
				continue
			}
			session = sess
			state = StateListening
			transcript = ""
			lastErr = ""
			stopRequested = false
			armAutoStop()

		case <-a.stopCh:
			switch state {
			case StateStarting:
				disarm(activation, activationCh)
				state = StateIdle
			case StateListening:
				if !stopRequested {
					stopRequested = true
					session.Stop()
				}
			}

		case segments := <-a.resultCh:
			if state != StateListening {
				continue
			}
			transcript = joinSegments(segments)
			if !stopRequested {
				armAutoStop()
			}

		case <-autoStopCh:
			if state != StateListening || stopRequested {
				continue
			}
			stopRequested = true
			session.Stop()

		case kind := <-a.errCh:
			if state == StateIdle {
				continue
			}
			// An abort with results in hand is a manual stop racing the
			// session; the utterance is already complete, so commit it
			// instead of discarding it.
			if kind == ErrKindAborted && state == StateListening && transcript != "" {
				disarm(activation, activationCh)
				finish()
				transcript = ""
				continue
			}
			// An abort with nothing recognized is noise; anything else
			// surfaces as a user-facing message.
			if kind != ErrKindAborted {
				lastErr = errMessage(kind)
			}
			disarm(activation, activationCh)
			disarm(autoStop, autoStopCh)
			state = StateIdle
			session = nil
			stopRequested = false
			transcript = ""

		case <-a.endCh:
			if state != StateListening {
				continue
			}
			finish()
			transcript = ""

		case resp := <-a.stateCh:
			resp <- snapshot{state: state, transcript: transcript, err: lastErr}
		}
	}
}

// joinSegments concatenates the utterance's segments into one transcript,
// replacing whatever was buffered before.
func joinSegments(segments []string) string {
	return strings.TrimSpace(strings.Join(segments, ""))
}

func errMessage(kind string) string {
	switch kind {
	case ErrKindNoSpeech:
		return "No speech detected - try speaking louder"
	case ErrKindNetwork:
		return "Network issue - recognition may be degraded"
	case ErrKindNotAllowed:
		return "Microphone access denied"
	default:
		return kind
	}
}

func drain(ch <-chan time.Time) {
	select {
	case <-ch:
	default:
	}
}
