package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"cipherlab/internal/catalogue"
)

const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeInvalidToken = "invalid_token"
	OutcomeBusy         = "busy"
	OutcomeFailed       = "failed"
)

// Event describes one completed controller operation. Material values are never included.
type Event struct {
	SessionID string
	Algorithm string
	Action    string
	Mode      Mode
	Size      string
	Outcome   string
	Duration  time.Duration
}

type Observer interface {
	Observe(ctx context.Context, e Event)
}

type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

// Controller runs the workflow operations against sessions. It holds no
// per-session state and is safe for concurrent use.
type Controller struct {
	clock      clock.Clock
	lg         *zap.SugaredLogger
	gen        Generator
	fallback   Engine
	engines    map[string]Engine
	delayScale float64
	observers  []Observer
}

type Option func(*Controller)

func WithClock(clk clock.Clock) Option { return func(c *Controller) { c.clock = clk } }
func WithLogger(lg *zap.SugaredLogger) Option { return func(c *Controller) { c.lg = lg } }
func WithGenerator(g Generator) Option { return func(c *Controller) { c.gen = g } }
func WithObserver(o Observer) Option { return func(c *Controller) { c.observers = append(c.observers, o) } }

// WithDelayScale multiplies every artificial delay; 0 disables them.
func WithDelayScale(f float64) Option { return func(c *Controller) { c.delayScale = f } }

// WithEngine replaces the demo engine for one algorithm id.
func WithEngine(id string, e Engine) Option {
	return func(c *Controller) { c.engines[id] = e }
}

func NewController(opts ...Option) *Controller {
	c := &Controller{
		clock:      clock.New(),
		lg:         zap.NewNop().Sugar(),
		fallback:   DemoEngine{},
		engines:    make(map[string]Engine),
		delayScale: 1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) EngineFor(spec catalogue.Spec) Engine {
	if e, ok := c.engines[spec.ID]; ok {
		return e
	}
	return c.fallback
}

// Process validates every relevant field and, when all pass, runs the engine in
// the session's current mode after the algorithm's processing delay. Validation
// failures leave OutputText untouched.
func (c *Controller) Process(ctx context.Context, sess *Session) (State, error) {
	start := c.clock.Now()
	spec := sess.Spec()
	eng := c.EngineFor(spec)

	st, err := sess.begin(func(s State) ([]ValidationResult, bool) {
		return ValidateAll(s, spec, eng.Check)
	})
	if err != nil {
		c.observe(ctx, sess, "process", st, outcome(err), start)
		return st, err
	}

	c.sleep(spec.ProcessDelay)
	out, terr := c.transform(eng, st)

	result := OutcomeOK
	switch {
	case terr == nil:
	case st.Mode == Decrypt:
		c.lg.Debugw("decrypt failed", "session", sess.ID, "algorithm", spec.ID, "error", terr)
		out, terr, result = InvalidTokenText, nil, OutcomeInvalidToken
	default:
		c.lg.Warnw("encrypt failed", "session", sess.ID, "algorithm", spec.ID, "error", terr)
		e := &Error{Code: CipherFailed, Field: FieldInput, Message: "Encryption failed: " + terr.Error()}
		st, _ = sess.apply(Action{Type: workFailed, err: e})
		c.observe(ctx, sess, "process", st, OutcomeFailed, start)
		return st, e
	}
	st, _ = sess.apply(Action{Type: processFinished, Value: out})
	c.observe(ctx, sess, "process", st, result, start)
	return st, nil
}

// Generate fills the session's key material. A non-zero size changes the
// key-size selection for this run. On failure the previous material and size
// are kept as they were.
func (c *Controller) Generate(ctx context.Context, sess *Session, size int) (State, error) {
	start := c.clock.Now()
	spec := sess.Spec()
	st, prevSize, err := sess.beginSized(size)
	if err != nil {
		c.observe(ctx, sess, "generate", st, outcome(err), start)
		return st, err
	}

	c.sleep(spec.GenerateDelay)
	mats, gerr := c.generate(spec, st)
	if gerr != nil {
		c.lg.Errorw("material generation failed", "session", sess.ID, "algorithm", spec.ID, "error", gerr)
		field := FieldKey
		if spec.KeyPair {
			field = FieldPublicKey
		}
		e := &Error{Code: GenerationFailed, Field: field, Message: "Key generation failed. Please try again."}
		st, _ = sess.apply(Action{Type: workFailed, err: e, Size: prevSize})
		c.observe(ctx, sess, "generate", st, OutcomeFailed, start)
		return st, e
	}
	st, _ = sess.apply(Action{Type: generateFinished, materials: mats})
	c.observe(ctx, sess, "generate", st, OutcomeOK, start)
	return st, nil
}

// SwitchMode flips between encrypt and decrypt and clears input and output.
func (c *Controller) SwitchMode(ctx context.Context, sess *Session) (State, error) {
	start := c.clock.Now()
	st, err := sess.apply(Action{Type: SwitchMode})
	c.observe(ctx, sess, "switch_mode", st, outcome(err), start)
	return st, err
}

// ChangeKeySize updates the selection; manually entered keys are re-validated
// against the new length straight away.
func (c *Controller) ChangeKeySize(ctx context.Context, sess *Session, size int) (State, error) {
	start := c.clock.Now()
	st, err := sess.apply(Action{Type: ChangeKeySize, Size: size})
	c.observe(ctx, sess, "change_key_size", st, outcome(err), start)
	return st, err
}

func (c *Controller) sleep(d time.Duration) {
	d = time.Duration(float64(d) * c.delayScale)
	if d > 0 {
		c.clock.Sleep(d)
	}
}

func paramsFor(st State) Params {
	p := Params{
		Algorithm:   st.Algorithm,
		Key:         st.Material(FieldKey),
		IV:          st.Material(FieldIV),
		KeySizeBits: st.KeySizeBits,
		Curve:       st.Curve,
		BlockMode:   st.BlockMode,
		Counter:     st.Counter,
	}
	if st.HasMaterial(FieldPublicKey) {
		p.Key = st.Material(FieldPublicKey)
		if st.Mode == Decrypt {
			p.Key = st.Material(FieldPrivateKey)
		}
	}
	return p
}

func (c *Controller) transform(eng Engine, st State) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrCipherFailed, r)
		}
	}()
	p := paramsFor(st)
	if st.Mode == Encrypt {
		return eng.Encrypt(st.InputText, p)
	}
	return eng.Decrypt(st.InputText, p)
}

func (c *Controller) generate(spec catalogue.Spec, st State) (mats map[Field]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			mats, err = nil, fmt.Errorf("%w: %v", ErrGenerationFailed, r)
		}
	}()
	if spec.KeyPair {
		kp, err := c.gen.KeyPair(spec, st.KeySizeBits, st.Curve)
		if err != nil {
			return nil, err
		}
		return map[Field]string{FieldPublicKey: kp.PublicKey, FieldPrivateKey: kp.PrivateKey}, nil
	}
	m, err := c.gen.Symmetric(spec, st.KeySizeBits)
	if err != nil {
		return nil, err
	}
	mats = map[Field]string{FieldKey: m.Key}
	if spec.RequiresNonceOrIV {
		mats[FieldIV] = m.IV
	}
	return mats, nil
}

func outcome(err error) string {
	var verr ValidationErrors
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &verr):
		return OutcomeInvalid
	case errors.Is(err, ErrBusy):
		return OutcomeBusy
	case errors.Is(err, ErrUnsupported):
		return OutcomeInvalid
	}
	return OutcomeFailed
}

func (c *Controller) observe(ctx context.Context, sess *Session, action string, st State, result string, start time.Time) {
	e := Event{
		SessionID: sess.ID,
		Algorithm: st.Algorithm,
		Action:    action,
		Mode:      st.Mode,
		Size:      st.SizeLabel(),
		Outcome:   result,
		Duration:  c.clock.Since(start),
	}
	ctx = context.WithoutCancel(ctx)
	for _, o := range c.observers {
		o.Observe(ctx, e)
	}
}
