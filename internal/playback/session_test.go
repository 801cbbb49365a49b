package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/learning-tracker/internal/progress"
)

type fakeSink struct {
	mu    sync.Mutex
	saves []progress.Update
	err   error
	ch    chan progress.Update
}

func (f *fakeSink) SaveProgress(_ context.Context, u progress.Update) (progress.Record, error) {
	f.mu.Lock()
	err := f.err
	if err == nil {
		f.saves = append(f.saves, u)
	}
	ch := f.ch
	f.mu.Unlock()

	if err != nil {
		return progress.Record{}, err
	}
	if ch != nil {
		ch <- u
	}
	rec := progress.Record{
		UserID:          u.UserID,
		PlaylistID:      u.PlaylistID,
		VideoID:         u.VideoID,
		WatchedSeconds:  u.WatchedSeconds,
		DurationSeconds: u.DurationSeconds,
		Completed:       u.Completed,
	}
	if u.DurationSeconds > 0 && u.WatchedSeconds/u.DurationSeconds >= progress.CompletionThreshold {
		rec.Completed = true
	}
	return rec, nil
}

func (f *fakeSink) all() []progress.Update {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]progress.Update, len(f.saves))
	copy(out, f.saves)
	return out
}

func newTestSession(t *testing.T) (*Session, *fakeSink, *fakeClock) {
	t.Helper()
	sink := &fakeSink{}
	clock := newFakeClock()
	s := NewSession("u1", "pl", sink, clock, nil)
	return s, sink, clock
}

func TestSession_NoSaveBeforeInterval(t *testing.T) {
	s, sink, clock := newTestSession(t)
	s.Switch("v1")
	s.OnReady(600)

	// Ticks well inside the 30s window.
	for i := 0; i < 10; i++ {
		clock.Advance(2 * time.Second)
		s.OnTick(float64(i*2), 600)
	}

	clock.Advance(2 * time.Second) // let any debounce drain
	if n := len(sink.all()); n != 0 {
		t.Fatalf("expected no saves inside the interval, got %d", n)
	}
}

func TestSession_SavesAfterIntervalWithDebounce(t *testing.T) {
	s, sink, clock := newTestSession(t)
	s.Switch("v1")
	s.OnReady(600)

	clock.Advance(31 * time.Second)
	s.OnTick(31, 600)

	if n := len(sink.all()); n != 0 {
		t.Fatalf("save must wait out the debounce, got %d immediate saves", n)
	}
	clock.Advance(time.Second)

	saves := sink.all()
	if len(saves) != 1 {
		t.Fatalf("expected exactly one save, got %d", len(saves))
	}
	u := saves[0]
	if u.VideoID != "v1" || u.WatchedSeconds != 31 || u.DurationSeconds != 600 {
		t.Fatalf("unexpected save payload: %+v", u)
	}
}

func TestSession_BurstTicksCoalesceToOneSave(t *testing.T) {
	s, sink, clock := newTestSession(t)
	s.Switch("v1")
	s.OnReady(600)

	clock.Advance(31 * time.Second)
	// Burst of due ticks; only the last state should be written once.
	s.OnTick(31, 600)
	s.OnTick(31.5, 600)
	s.OnTick(32, 600)
	clock.Advance(time.Second)

	saves := sink.all()
	if len(saves) != 1 {
		t.Fatalf("expected one coalesced save, got %d", len(saves))
	}
	if saves[0].WatchedSeconds != 32 {
		t.Fatalf("coalesced save must carry the latest position, got %v", saves[0].WatchedSeconds)
	}
}

func TestSession_PromptOncePerVideo(t *testing.T) {
	s, _, _ := newTestSession(t)
	var prompts []string
	s.OnPrompt = func(videoID string) { prompts = append(prompts, videoID) }

	s.Switch("v1")
	s.OnReady(300)

	s.OnTick(100, 300) // 200s remaining: no prompt
	if len(prompts) != 0 {
		t.Fatalf("prompt fired too early: %v", prompts)
	}

	s.OnTick(245, 300) // 55s remaining: prompt
	s.OnTick(250, 300) // still inside the window: no second prompt
	s.OnTick(290, 300)

	if len(prompts) != 1 || prompts[0] != "v1" {
		t.Fatalf("expected exactly one prompt for v1, got %v", prompts)
	}

	// A different video prompts independently.
	s.Switch("v2")
	s.OnReady(120)
	s.OnTick(90, 120)
	if len(prompts) != 2 || prompts[1] != "v2" {
		t.Fatalf("expected a prompt for v2, got %v", prompts)
	}
}

func TestSession_OnEndedFlushesCompleted(t *testing.T) {
	s, sink, _ := newTestSession(t)
	s.Switch("v1")
	s.OnReady(300)
	s.OnTick(150, 300)
	s.OnEnded()

	saves := sink.all()
	if len(saves) != 1 {
		t.Fatalf("expected one immediate save on end, got %d", len(saves))
	}
	u := saves[0]
	if !u.Completed || u.WatchedSeconds != 300 {
		t.Fatalf("ended video must save completed at full position: %+v", u)
	}
}

func TestSession_ManualSaveResetsBaseline(t *testing.T) {
	s, sink, clock := newTestSession(t)
	s.Switch("v1")
	s.OnReady(600)

	clock.Advance(25 * time.Second)
	s.OnTick(25, 600)
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("manual save: %v", err)
	}
	if len(sink.all()) != 1 {
		t.Fatalf("manual save must write immediately")
	}

	// 10s later the old 30s baseline would have expired; the manual save
	// pushed it out.
	clock.Advance(10 * time.Second)
	s.OnTick(35, 600)
	clock.Advance(2 * time.Second)
	if n := len(sink.all()); n != 1 {
		t.Fatalf("save baseline must reset after manual save, got %d saves", n)
	}

	clock.Advance(25 * time.Second)
	s.OnTick(60, 600)
	clock.Advance(time.Second)
	if n := len(sink.all()); n != 2 {
		t.Fatalf("expected automatic save after a full interval, got %d", n)
	}
}

func TestSession_MarkCompletedOptimisticRollback(t *testing.T) {
	s, sink, _ := newTestSession(t)
	s.Switch("v1")
	s.OnReady(300)
	s.OnTick(10, 300)

	sink.mu.Lock()
	sink.err = errors.New("backend down")
	sink.mu.Unlock()

	err := s.MarkCompleted(context.Background(), "v1")
	if err == nil {
		t.Fatal("expected sink error to surface")
	}
	s.mu.Lock()
	completed := s.items["v1"].completed
	s.mu.Unlock()
	if completed {
		t.Fatal("failed mark-completed must roll the local flag back")
	}

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	if err := s.MarkCompleted(context.Background(), "v1"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	s.mu.Lock()
	completed = s.items["v1"].completed
	s.mu.Unlock()
	if !completed {
		t.Fatal("successful mark-completed must keep the flag")
	}
	saves := sink.all()
	if len(saves) != 1 || !saves[0].Completed {
		t.Fatalf("expected one completed save, got %+v", saves)
	}
}

func TestSession_MarkCompletedForcesFullPosition(t *testing.T) {
	s, sink, _ := newTestSession(t)
	s.Switch("v1")
	s.OnReady(600)
	s.OnTick(120, 600)

	if err := s.MarkCompleted(context.Background(), "v1"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	saves := sink.all()
	if len(saves) != 1 {
		t.Fatalf("expected one save, got %d", len(saves))
	}
	u := saves[0]
	if !u.Completed || u.WatchedSeconds != 600 || u.DurationSeconds != 600 {
		t.Fatalf("mark-as-watched must persist the full duration, got %+v", u)
	}
	s.mu.Lock()
	pos := s.items["v1"].position
	s.mu.Unlock()
	if pos != 600 {
		t.Fatalf("local position must advance to the duration, got %v", pos)
	}
}

func TestSession_MarkCompletedRollsBackPosition(t *testing.T) {
	s, sink, _ := newTestSession(t)
	s.Switch("v1")
	s.OnReady(600)
	s.OnTick(120, 600)

	sink.mu.Lock()
	sink.err = errors.New("backend down")
	sink.mu.Unlock()

	if err := s.MarkCompleted(context.Background(), "v1"); err == nil {
		t.Fatal("expected sink error to surface")
	}
	s.mu.Lock()
	it := s.items["v1"]
	completed, pos := it.completed, it.position
	s.mu.Unlock()
	if completed || pos != 120 {
		t.Fatalf("failed mark must restore completed=false position=120, got completed=%v position=%v", completed, pos)
	}
}

func TestSession_NoPromptAtOrPastEnd(t *testing.T) {
	s, _, _ := newTestSession(t)
	var prompts []string
	s.OnPrompt = func(videoID string) { prompts = append(prompts, videoID) }

	s.Switch("v1")
	s.OnReady(300)
	s.OnTick(300, 300) // nothing remaining
	s.OnTick(305, 300) // player overshoot
	if len(prompts) != 0 {
		t.Fatalf("prompt must not fire with no time remaining: %v", prompts)
	}

	s.OnTick(250, 300) // rewound into the window
	if len(prompts) != 1 {
		t.Fatalf("expected a prompt inside the window, got %v", prompts)
	}
}

func TestSession_RevisitingVideoPromptsAgain(t *testing.T) {
	s, _, _ := newTestSession(t)
	var prompts []string
	s.OnPrompt = func(videoID string) { prompts = append(prompts, videoID) }

	s.Switch("v1")
	s.OnReady(300)
	s.OnTick(250, 300)
	if len(prompts) != 1 {
		t.Fatalf("expected first prompt, got %v", prompts)
	}

	s.Switch("v2")
	s.Switch("v1")
	s.OnReady(300)
	s.OnTick(255, 300)
	if len(prompts) != 2 || prompts[1] != "v1" {
		t.Fatalf("returning to a video must allow the prompt again, got %v", prompts)
	}
}

func TestSession_NoAutoSaveAtZeroPosition(t *testing.T) {
	s, sink, clock := newTestSession(t)
	s.Switch("v1")
	s.OnReady(600)

	// Paused at the very start, well past the save interval.
	clock.Advance(40 * time.Second)
	s.OnTick(0, 600)
	clock.Advance(2 * time.Second)
	if n := len(sink.all()); n != 0 {
		t.Fatalf("a zero-position tick must not schedule a write, got %d saves", n)
	}

	s.OnTick(1, 600)
	clock.Advance(2 * time.Second)
	if n := len(sink.all()); n != 1 {
		t.Fatalf("expected a save once playback advanced, got %d", n)
	}
}

func TestSession_SwitchFlushesStaleItems(t *testing.T) {
	sink := &fakeSink{ch: make(chan progress.Update, 4)}
	clock := newFakeClock()
	s := NewSession("u1", "pl", sink, clock, nil)

	s.Switch("v1")
	s.OnReady(600)
	clock.Advance(10 * time.Second)
	s.OnTick(10, 600)

	// v1 sits dirty past the interval, then the user switches away.
	clock.Advance(40 * time.Second)
	s.Switch("v2")

	select {
	case u := <-sink.ch:
		if u.VideoID != "v1" || u.WatchedSeconds != 10 {
			t.Fatalf("unexpected stale flush: %+v", u)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected v1 to be flushed on switch")
	}
}

func TestSession_SwitchKeepsFreshItems(t *testing.T) {
	s, sink, clock := newTestSession(t)
	s.Switch("v1")
	s.OnReady(600)
	clock.Advance(5 * time.Second)
	s.OnTick(5, 600)

	// Fresh dirty state (5s old) must not flush on switch.
	s.Switch("v2")
	clock.Advance(2 * time.Second)
	if n := len(sink.all()); n != 0 {
		t.Fatalf("fresh item must not flush on switch, got %d saves", n)
	}
}

func TestSession_TeardownFlushesWatchedItems(t *testing.T) {
	sink := &fakeSink{ch: make(chan progress.Update, 4)}
	clock := newFakeClock()
	s := NewSession("u1", "pl", sink, clock, nil)

	s.Switch("v1")
	s.OnReady(600)
	s.OnTick(42, 600)

	s.Switch("v2")
	s.OnReady(300)
	// v2 never advances past zero; it must not be flushed.
	s.OnTick(0, 300)

	s.Teardown()

	select {
	case u := <-sink.ch:
		if u.VideoID != "v1" || u.WatchedSeconds != 42 {
			t.Fatalf("unexpected teardown flush: %+v", u)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected v1 flushed on teardown")
	}

	select {
	case u := <-sink.ch:
		t.Fatalf("zero-progress item must not flush, got %+v", u)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSession_StateTransitions(t *testing.T) {
	s, _, _ := newTestSession(t)
	if s.State() != StateUninitialized {
		t.Fatalf("fresh session must be uninitialized, got %v", s.State())
	}
	s.Switch("v1")
	s.OnReady(300)
	if s.State() != StateReady {
		t.Fatalf("expected ready after OnReady, got %v", s.State())
	}
	s.OnTick(1, 300)
	if s.State() != StatePlaying {
		t.Fatalf("expected playing after OnTick, got %v", s.State())
	}
	s.OnError(150)
	if s.State() != StateError {
		t.Fatalf("expected error state, got %v", s.State())
	}
	s.Switch("v2")
	if s.State() != StateUninitialized {
		t.Fatalf("switch must reset state, got %v", s.State())
	}
}
