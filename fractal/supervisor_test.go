package fractal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func newTestSupervisor(pool Pool, opts ...Option) *Supervisor {
	opts = append([]Option{
		WithPool(pool),
		WithSourceFactory(func() WordSource { return NewSeededSource(1) }),
	}, opts...)
	return NewSupervisor(32, 32, opts...)
}

func TestSupervisor_Initial(t *testing.T) {
	initial := DefaultParameters().WithRotation(0.25)
	s := NewSupervisor(16, 8, WithInitialParameters(initial))
	defer s.Close()

	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	cur := s.Current()
	if cur.ID != 0 || cur.Params != initial {
		t.Errorf("Current() = id %d params %v", cur.ID, cur.Params)
	}
	if cur.Canvas.Width() != 16 || cur.Canvas.Height() != 8 {
		t.Errorf("canvas %dx%d, want 16x8", cur.Canvas.Width(), cur.Canvas.Height())
	}
	published, err := s.Poll()
	if published || err != nil {
		t.Errorf("Poll() on idle = %v, %v", published, err)
	}
}

func TestSupervisor_PollBeforeCompletion(t *testing.T) {
	pool := &manualPool{}
	s := newTestSupervisor(pool)

	if err := s.StartRender(testParams()); err != nil {
		t.Fatalf("StartRender: %v", err)
	}
	if s.State() != StateRendering || s.Pending() != 1 {
		t.Fatalf("after start: state %v pending %d", s.State(), s.Pending())
	}

	done := make(chan struct{})
	var published bool
	var err error
	go func() {
		published, err = s.Poll()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Poll blocked on an unfinished render")
	}

	if published || err != nil {
		t.Errorf("Poll() = %v, %v; want false, nil", published, err)
	}
	if s.Current().ID != 0 || s.State() != StateRendering || s.Pending() != 1 {
		t.Errorf("unfinished render changed the supervisor: id %d state %v pending %d",
			s.Current().ID, s.State(), s.Pending())
	}
}

func TestSupervisor_PublishesOnCompletion(t *testing.T) {
	pool := &manualPool{}
	var signals []Result
	s := newTestSupervisor(pool, WithOnComplete(func(r Result) { signals = append(signals, r) }))

	p := testParams()
	if err := s.StartRender(p); err != nil {
		t.Fatalf("StartRender: %v", err)
	}
	pool.run(t, 0)

	published, err := s.Poll()
	if !published || err != nil {
		t.Fatalf("Poll() = %v, %v; want true, nil", published, err)
	}
	if s.State() != StateReady || s.Pending() != 0 {
		t.Errorf("state %v pending %d, want ready 0", s.State(), s.Pending())
	}

	cur := s.Current()
	if cur.ID != 1 || cur.Params != p {
		t.Errorf("Current() = id %d params %v", cur.ID, cur.Params)
	}
	if cur.Stats.Plotted != p.Plots() || cur.Stats.Words != p.Words() {
		t.Errorf("stats = %+v", cur.Stats)
	}
	pix := cur.Canvas.Pix()
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 255 {
			t.Fatalf("alpha byte %d = %d, canvas not finalized", i, pix[i])
		}
	}
	if len(signals) != 1 || signals[0].ID != 1 {
		t.Errorf("completion signals = %d", len(signals))
	}

	// Ready decays to Idle on the next quiet poll.
	if published, _ := s.Poll(); published {
		t.Error("second Poll published again")
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if s.Current().ID != 1 {
		t.Error("published result lost")
	}
}

func TestSupervisor_LastCompletedWins(t *testing.T) {
	pool := &manualPool{}
	s := newTestSupervisor(pool)

	older := testParams().WithThetaOffset(1)
	newer := testParams().WithThetaOffset(2)
	if err := s.StartRender(older); err != nil {
		t.Fatal(err)
	}
	if err := s.StartRender(newer); err != nil {
		t.Fatal(err)
	}
	if s.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2: a second start must not cancel the first", s.Pending())
	}

	pool.run(t, 1)
	if published, _ := s.Poll(); !published || s.Current().Params != newer {
		t.Fatalf("newer render not published first")
	}
	if s.State() != StateRendering {
		t.Errorf("State() = %v with a render still in flight", s.State())
	}

	pool.run(t, 0)
	if published, _ := s.Poll(); !published {
		t.Fatal("older render not published")
	}
	if got := s.Current(); got.Params != older || got.ID != 1 {
		t.Errorf("Current() = id %d params %v, want the older render", got.ID, got.Params)
	}
	if s.State() != StateReady {
		t.Errorf("State() = %v, want ready", s.State())
	}
}

func TestSupervisor_SamePollPublishesInSubmissionOrder(t *testing.T) {
	pool := &manualPool{}
	signals := 0
	s := newTestSupervisor(pool, WithOnComplete(func(Result) { signals++ }))

	for i := range 3 {
		if err := s.StartRender(testParams().WithRotation(float32(i))); err != nil {
			t.Fatal(err)
		}
	}
	pool.run(t, 2)
	pool.run(t, 0)

	if published, err := s.Poll(); !published || err != nil {
		t.Fatalf("Poll() = %v, %v", published, err)
	}
	if signals != 2 {
		t.Errorf("%d completion signals, want 2", signals)
	}
	if s.Current().ID != 3 || s.Pending() != 1 {
		t.Errorf("id %d pending %d, want 3 and 1", s.Current().ID, s.Pending())
	}
}

func TestSupervisor_SubmitFailure(t *testing.T) {
	pool := &manualPool{fail: errNoCapacity}
	s := newTestSupervisor(pool)

	err := s.StartRender(testParams())
	if !errors.Is(err, ErrSubmit) || !errors.Is(err, errNoCapacity) {
		t.Fatalf("StartRender = %v, want ErrSubmit wrapping the pool error", err)
	}
	if s.State() != StateIdle || s.Pending() != 0 {
		t.Errorf("failed submit changed state: %v pending %d", s.State(), s.Pending())
	}
	if pool.calls != 1 {
		t.Errorf("pool called %d times, want exactly 1 (no retry)", pool.calls)
	}
}

func TestSupervisor_RenderPanicSurfacesFromPoll(t *testing.T) {
	pool := &manualPool{}
	s := NewSupervisor(8, 8,
		WithPool(pool),
		WithSourceFactory(func() WordSource { return panicSource{} }),
	)

	if err := s.StartRender(testParams()); err != nil {
		t.Fatal(err)
	}
	pool.run(t, 0)

	published, err := s.Poll()
	if published {
		t.Error("failed render was published")
	}
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("Poll() error = %v, want ErrRenderFailed", err)
	}
	if s.Pending() != 0 || s.State() != StateIdle || s.Current().ID != 0 {
		t.Errorf("after failure: pending %d state %v id %d", s.Pending(), s.State(), s.Current().ID)
	}
}

func TestSupervisor_EndToEnd(t *testing.T) {
	p := DefaultParameters().WithIterationBudget(64 * 500)
	s := NewSupervisor(64, 64, WithSourceFactory(func() WordSource { return NewSeededSource(21) }))
	defer s.Close()

	if err := s.StartRender(p); err != nil {
		t.Fatalf("StartRender: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	want := NewCanvas(64, 64)
	Render(p, NewSeededSource(21), want)
	want.Finalize()

	if !bytes.Equal(s.Current().Canvas.Pix(), want.Pix()) {
		t.Error("background render differs from a direct render with the same seed")
	}
}

func TestSupervisor_BoundedPoolExhausted(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	release := make(chan struct{})
	if err := pool.Go(func() { <-release }); err != nil {
		t.Fatal(err)
	}
	s := newTestSupervisor(pool)
	err := s.StartRender(testParams())
	close(release)
	pool.Wait()

	if !errors.Is(err, ErrSubmit) || !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("StartRender = %v, want ErrSubmit and ErrPoolExhausted", err)
	}
}

func TestSupervisor_Closed(t *testing.T) {
	s := NewSupervisor(8, 8)
	s.Close()
	if err := s.StartRender(testParams()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("StartRender after Close = %v, want ErrPoolClosed", err)
	}
}

func TestSupervisor_WaitHonorsContext(t *testing.T) {
	pool := &manualPool{}
	s := newTestSupervisor(pool)
	if err := s.StartRender(testParams()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want deadline exceeded", err)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{StateIdle: "idle", StateRendering: "rendering", StateReady: "ready"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestSupervisor_OnCompleteCanStartRender(t *testing.T) {
	pool := &manualPool{}
	var s *Supervisor
	chained := testParams().WithThetaOffset(-1)
	starts := 0
	s = newTestSupervisor(pool, WithOnComplete(func(r Result) {
		if r.ID != 1 {
			return
		}
		if s.State() != StateReady {
			t.Errorf("State() inside hook = %v, want ready", s.State())
		}
		if err := s.StartRender(chained); err != nil {
			t.Errorf("StartRender from hook: %v", err)
		}
		starts++
	}))

	if err := s.StartRender(testParams()); err != nil {
		t.Fatal(err)
	}
	pool.run(t, 0)
	if published, err := s.Poll(); !published || err != nil {
		t.Fatalf("Poll() = %v, %v", published, err)
	}
	if starts != 1 {
		t.Fatalf("hook started %d renders, want 1", starts)
	}
	if s.Pending() != 1 || s.State() != StateRendering {
		t.Fatalf("after chained start: pending %d state %v, want 1 rendering", s.Pending(), s.State())
	}

	pool.run(t, 1)
	if published, err := s.Poll(); !published || err != nil {
		t.Fatalf("second Poll() = %v, %v", published, err)
	}
	if got := s.Current(); got.ID != 2 || got.Params != chained {
		t.Errorf("Current() = id %d params %v, want the chained render", got.ID, got.Params)
	}
	if s.Pending() != 0 || s.State() != StateReady {
		t.Errorf("pending %d state %v, want 0 ready", s.Pending(), s.State())
	}
}
