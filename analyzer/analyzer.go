package analyzer

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-reactive/bands"
	"github.com/cwbudde/algo-reactive/capture"
	"github.com/cwbudde/algo-reactive/spectrum"
)

// StateCallback receives lifecycle transitions. message is non-empty for
// StateDenied and StateError.
type StateCallback func(state State, message string)

// Analyzer owns the capture device, the spectrum source, and the frame
// loop, and exposes smoothed band readings for polling at animation-frame
// rate.
//
// One Analyzer holds at most one device/source pair at a time. Start,
// Stop, SetConfig and the read accessors may be called from a different
// goroutine than the frame loop; readings are returned as value
// snapshots, never live references.
type Analyzer struct {
	mu sync.Mutex

	cfg     Config
	opener  DeviceOpener
	factory SourceFactory
	sched   FrameScheduler

	state     State
	stateMsg  string
	disposed  bool
	acquiring bool

	device spectrum.SampleProvider
	source spectrum.Source

	smoother *bands.Smoother
	reading  bands.Reading

	// gen invalidates frames scheduled before a stop or fault.
	gen         uint64
	cancelFrame func()
	inFlight    atomic.Bool

	nextCallbackID int
	callbacks      map[int]StateCallback
}

// New creates an analyzer. Invalid option values fall back to the
// defaults; see DefaultConfig.
func New(opts ...Option) *Analyzer {
	o := applyOptions(opts...)

	return &Analyzer{
		cfg:       o.cfg,
		opener:    o.opener,
		factory:   o.factory,
		sched:     o.scheduler,
		smoother:  bands.NewSmoother(o.cfg.Sensitivity, o.cfg.Smoothing),
		callbacks: make(map[int]StateCallback),
	}
}

// SourceAvailable reports whether a capture device exists, without
// requesting permission or allocating lasting resources.
func SourceAvailable() bool {
	return capture.Available()
}

// Start acquires the capture device and begins the frame loop.
//
// It is a no-op returning true when already active. It returns false
// while an earlier acquisition is still in flight, when access is denied
// (StateDenied), or on any other acquisition failure (StateError with a
// message). Denied and Error are sticky: only another Start re-attempts
// acquisition. All failure paths release whatever was partially acquired
// before returning.
func (a *Analyzer) Start() bool {
	a.mu.Lock()
	switch {
	case a.disposed:
		a.mu.Unlock()
		return false
	case a.state == StateActive:
		a.mu.Unlock()
		return true
	case a.acquiring:
		a.mu.Unlock()
		return false
	}
	a.acquiring = true
	token := a.gen
	transformSize := a.cfg.TransformSize
	notify := a.setStateLocked(StateRequesting, "")
	a.mu.Unlock()
	notify()

	// Acquisition is the only blocking step; it runs outside the lock so
	// read accessors stay responsive during permission negotiation.
	device, err := a.opener()
	if err != nil {
		if errors.Is(err, capture.ErrPermissionDenied) {
			return a.finishStartFailed(token, StateDenied, err)
		}
		return a.finishStartFailed(token, StateError, err)
	}

	source, err := a.factory(device, transformSize)
	if err != nil {
		device.Release()
		return a.finishStartFailed(token, StateError, err)
	}

	a.mu.Lock()
	a.acquiring = false
	if a.disposed || a.gen != token {
		// Disposed or stopped while acquiring: hand the resources back.
		a.mu.Unlock()
		source.Release()
		device.Release()
		return false
	}

	// SetConfig may have moved the transform size while acquisition was
	// blocked; bring the fresh source up to date before it goes live.
	if size := a.cfg.TransformSize; size != transformSize {
		if err := source.Resize(size); err != nil {
			a.mu.Unlock()
			source.Release()
			device.Release()
			return a.finishStartFailed(token, StateError, err)
		}
	}

	a.device = device
	a.source = source
	a.smoother.Reset()
	a.reading = bands.Reading{}
	a.gen++
	gen := a.gen
	notify = a.setStateLocked(StateActive, "")
	a.scheduleLocked(gen)
	a.mu.Unlock()
	notify()

	logrus.WithFields(logrus.Fields{
		"sampleRate":    source.SampleRate(),
		"transformSize": transformSize,
	}).Debug("analyzer: active")

	return true
}

func (a *Analyzer) finishStartFailed(token uint64, s State, err error) bool {
	logrus.WithError(err).Warn("analyzer: start failed")

	a.mu.Lock()
	a.acquiring = false
	if a.disposed || a.gen != token {
		// Stopped or disposed while acquiring; the caller already moved
		// the lifecycle on, so the late failure stays silent.
		a.mu.Unlock()
		return false
	}
	notify := a.setStateLocked(s, err.Error())
	a.mu.Unlock()
	notify()

	return false
}

// Stop cancels the frame loop, releases the source and device, zeroes
// the stored reading, and returns to StateInactive. It is idempotent and
// safe from any state; no frame body executes after Stop returns.
func (a *Analyzer) Stop() {
	a.mu.Lock()

	// Invalidate frames scheduled under the old generation before any
	// resource is released, so a straggling callback cannot observe a
	// released source.
	a.gen++
	if a.cancelFrame != nil {
		a.cancelFrame()
		a.cancelFrame = nil
	}

	a.releaseLocked()
	a.smoother.Reset()
	a.reading = bands.Reading{}

	var notify func()
	if a.state != StateInactive {
		notify = a.setStateLocked(StateInactive, "")
	}
	a.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Dispose stops the analyzer and drops all observer registrations. The
// instance is not reusable afterwards.
func (a *Analyzer) Dispose() {
	a.Stop()

	a.mu.Lock()
	a.disposed = true
	a.callbacks = make(map[int]StateCallback)
	a.mu.Unlock()
}

// SetConfig merges a partial update into the current configuration. An
// invalid value rejects the whole update and leaves state untouched.
// Sensitivity and smoothing take effect on the next frame without any
// reallocation; a transform-size change while active re-plans the
// spectrum source in place.
func (a *Analyzer) SetConfig(u ConfigUpdate) error {
	if u.Sensitivity != nil {
		if err := validateSensitivity(*u.Sensitivity); err != nil {
			return err
		}
	}
	if u.Smoothing != nil {
		if err := validateSmoothing(*u.Smoothing); err != nil {
			return err
		}
	}
	if u.TransformSize != nil {
		if err := validateTransformSize(*u.TransformSize); err != nil {
			return err
		}
	}

	var notify func()

	a.mu.Lock()
	if u.Sensitivity != nil {
		a.cfg.Sensitivity = *u.Sensitivity
		a.smoother.SetSensitivity(*u.Sensitivity)
	}
	if u.Smoothing != nil {
		a.cfg.Smoothing = *u.Smoothing
		a.smoother.SetSmoothing(*u.Smoothing)
	}
	if u.TransformSize != nil && *u.TransformSize != a.cfg.TransformSize {
		a.cfg.TransformSize = *u.TransformSize
		if a.source != nil {
			if err := a.source.Resize(*u.TransformSize); err != nil {
				// The size itself validated, so losing the transform is a
				// runtime fault of the source, not a config error.
				notify = a.faultLocked(err)
			}
		}
	}
	a.mu.Unlock()

	if notify != nil {
		notify()
	}

	return nil
}

// Config returns a copy of the current configuration.
func (a *Analyzer) Config() Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// State returns the current lifecycle state.
func (a *Analyzer) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Err returns the message attached to the last Denied or Error
// transition, or "".
func (a *Analyzer) Err() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateMsg
}

// Bands returns a snapshot of the latest smoothed reading. Safe to call
// at any time, including mid-frame.
func (a *Analyzer) Bands() bands.Reading {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reading
}

// Level returns the smoothed overall level in [0, 1].
func (a *Analyzer) Level() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reading.Level
}

// BandsArray returns the smoothed band values ordered bass, low-mid,
// high-mid, treble.
func (a *Analyzer) BandsArray() [4]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reading.Array()
}

// OnStateChange registers cb for lifecycle transitions and returns its
// unsubscribe func. Callbacks run outside the analyzer lock, on the
// goroutine driving the transition.
func (a *Analyzer) OnStateChange(cb StateCallback) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cb == nil || a.disposed {
		return func() {}
	}

	id := a.nextCallbackID
	a.nextCallbackID++
	a.callbacks[id] = cb

	return func() {
		a.mu.Lock()
		delete(a.callbacks, id)
		a.mu.Unlock()
	}
}

// frame runs one loop iteration, spectrum -> aggregate -> smooth ->
// store, then reschedules itself while still active.
func (a *Analyzer) frame(gen uint64) {
	// Single-flight: never re-enter while a previous iteration is still
	// materializing a reading.
	if !a.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer a.inFlight.Store(false)

	var notify func()

	a.mu.Lock()
	if a.state != StateActive || gen != a.gen || a.source == nil {
		a.mu.Unlock()
		return
	}

	mags, err := a.source.ReadSpectrum()
	if err != nil {
		notify = a.faultLocked(err)
		a.mu.Unlock()
		notify()
		return
	}

	raw := bands.Aggregate(mags, a.source.BinCount(), a.source.SampleRate())
	a.reading = a.smoother.Apply(raw)
	a.scheduleLocked(gen)
	a.mu.Unlock()
}

func (a *Analyzer) scheduleLocked(gen uint64) {
	a.cancelFrame = a.sched.Schedule(func() { a.frame(gen) })
}

// faultLocked terminates the session after a steady-state failure: the
// loop stops, resources are released, the reading zeroes, and the state
// carries the message. Returns the deferred notifier.
func (a *Analyzer) faultLocked(err error) func() {
	logrus.WithError(err).Error("analyzer: runtime fault")

	a.gen++
	if a.cancelFrame != nil {
		a.cancelFrame()
		a.cancelFrame = nil
	}
	a.releaseLocked()
	a.smoother.Reset()
	a.reading = bands.Reading{}

	return a.setStateLocked(StateError, err.Error())
}

func (a *Analyzer) releaseLocked() {
	if a.source != nil {
		if err := a.source.Release(); err != nil {
			logrus.WithError(err).Warn("analyzer: source release")
		}
		a.source = nil
	}
	if a.device != nil {
		if err := a.device.Release(); err != nil {
			logrus.WithError(err).Warn("analyzer: device release")
		}
		a.device = nil
	}
}

// setStateLocked records the transition and returns the deferred
// notifier; callers invoke it after dropping the lock.
func (a *Analyzer) setStateLocked(s State, msg string) func() {
	a.state = s
	a.stateMsg = msg

	cbs := make([]StateCallback, 0, len(a.callbacks))
	for _, cb := range a.callbacks {
		cbs = append(cbs, cb)
	}

	logrus.WithField("state", s.String()).Debug("analyzer: state change")

	return func() {
		for _, cb := range cbs {
			cb(s, msg)
		}
	}
}
