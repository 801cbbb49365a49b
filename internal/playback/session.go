package playback

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/progress"
)

// State is the lifecycle of the player attached to a session item.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StatePlaying
	StateError
)

const (
	// SaveInterval is the minimum spacing between automatic writes for
	// one video. A manual save resets the baseline.
	SaveInterval = 30 * time.Second

	// PromptWindow is how close to the end of a video the next-item
	// prompt fires.
	PromptWindow = 60.0 // seconds
)

// Sink delivers progress updates to the backend.
type Sink interface {
	SaveProgress(ctx context.Context, u progress.Update) (progress.Record, error)
}

type item struct {
	videoID     string
	position    float64
	duration    float64
	completed   bool
	dirty       bool
	lastWriteAt time.Time
	prompted    bool
	// gen invalidates in-flight async saves when the item is reset.
	gen uint64
}

// Session tracks playback across one playlist's videos and decides when
// progress actually gets written. All player callbacks apply to the
// current video, selected with Switch.
type Session struct {
	userID     string
	playlistID string
	sink       Sink
	clock      Clock
	writer     *CoalescingWriter
	log        *zap.Logger

	// OnPrompt, when set, is invoked at most once per video as playback
	// enters the final PromptWindow seconds.
	OnPrompt func(videoID string)

	mu      sync.Mutex
	state   State
	current string
	items   map[string]*item
}

func NewSession(userID, playlistID string, sink Sink, clock Clock, log *zap.Logger) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		userID:     userID,
		playlistID: playlistID,
		sink:       sink,
		clock:      clock,
		writer:     NewCoalescingWriter(clock, DefaultDebounce),
		log:        log,
	}
}

// State reports the lifecycle state of the current item.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) itemLocked(videoID string) *item {
	if s.items == nil {
		s.items = make(map[string]*item)
	}
	it, ok := s.items[videoID]
	if !ok {
		it = &item{videoID: videoID, lastWriteAt: s.clock.Now()}
		s.items[videoID] = it
	}
	return it
}

// Switch makes videoID the current item. Any other item whose unwritten
// progress has been sitting longer than SaveInterval is flushed on the
// way out, so nothing of substance is lost to a video change.
func (s *Session) Switch(videoID string) {
	s.mu.Lock()
	now := s.clock.Now()
	var stale []progress.Update
	for id, it := range s.items {
		if id == videoID || !it.dirty {
			continue
		}
		if now.Sub(it.lastWriteAt) > SaveInterval {
			stale = append(stale, s.updateLocked(it))
			it.dirty = false
			it.lastWriteAt = now
		}
	}
	s.current = videoID
	cur := s.itemLocked(videoID)
	cur.prompted = false
	s.state = StateUninitialized
	s.mu.Unlock()

	for _, u := range stale {
		s.deliverAsync(u)
	}
}

// OnReady is the player's ready callback for the current video.
func (s *Session) OnReady(duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return
	}
	it := s.itemLocked(s.current)
	if duration > 0 {
		it.duration = duration
	}
	s.state = StateReady
}

// OnTick is the periodic position callback. It advances local state,
// fires the end-of-video prompt once, and requests a debounced write
// when the save interval for this video has elapsed.
func (s *Session) OnTick(position, duration float64) {
	s.mu.Lock()
	if s.current == "" {
		s.mu.Unlock()
		return
	}
	it := s.itemLocked(s.current)
	s.state = StatePlaying
	if position >= 0 {
		it.position = position
	}
	if duration > 0 {
		it.duration = duration
	}
	it.dirty = true

	var prompt func(string)
	remaining := it.duration - it.position
	if !it.prompted && it.duration > 0 && remaining > 0 && remaining <= PromptWindow {
		it.prompted = true
		prompt = s.OnPrompt
	}
	videoID := it.videoID

	due := it.position > 0 && s.clock.Now().Sub(it.lastWriteAt) >= SaveInterval
	s.mu.Unlock()

	if prompt != nil {
		prompt(videoID)
	}
	if due {
		s.writer.Request(func() { s.flush(videoID) })
	}
}

// OnEnded marks the current video fully watched and flushes immediately.
func (s *Session) OnEnded() {
	s.mu.Lock()
	if s.current == "" {
		s.mu.Unlock()
		return
	}
	it := s.itemLocked(s.current)
	if it.duration > 0 {
		it.position = it.duration
	}
	it.completed = true
	it.dirty = true
	s.state = StateReady
	videoID := it.videoID
	s.mu.Unlock()

	s.writer.Cancel()
	s.flush(videoID)
}

// OnError flushes whatever the current video had and parks the session.
func (s *Session) OnError(code int) {
	s.mu.Lock()
	if s.current == "" {
		s.mu.Unlock()
		return
	}
	s.state = StateError
	videoID := s.current
	s.mu.Unlock()

	s.log.Warn("player error", zap.String("video_id", videoID), zap.Int("code", code))
	s.flush(videoID)
}

// Save is a manual, immediate save of the current video. It resets the
// automatic save baseline.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.current == "" {
		s.mu.Unlock()
		return nil
	}
	it := s.itemLocked(s.current)
	u := s.updateLocked(it)
	it.dirty = false
	it.lastWriteAt = s.clock.Now()
	s.mu.Unlock()

	s.writer.Cancel()
	_, err := s.sink.SaveProgress(ctx, u)
	return err
}

// MarkCompleted toggles completion optimistically: the local flag flips
// first, and rolls back if the backend write fails. Marking watched also
// forces the position to the full duration, so the persisted watch time
// matches a finished video rather than wherever playback happened to be.
func (s *Session) MarkCompleted(ctx context.Context, videoID string) error {
	s.mu.Lock()
	it := s.itemLocked(videoID)
	was := it.completed
	wasPosition := it.position
	it.completed = true
	if it.duration > 0 {
		it.position = it.duration
	}
	u := s.updateLocked(it)
	gen := it.gen
	s.mu.Unlock()

	if _, err := s.sink.SaveProgress(ctx, u); err != nil {
		s.mu.Lock()
		if cur, ok := s.items[videoID]; ok && cur.gen == gen {
			cur.completed = was
			cur.position = wasPosition
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if cur, ok := s.items[videoID]; ok && cur.gen == gen {
		cur.dirty = false
		cur.lastWriteAt = s.clock.Now()
	}
	s.mu.Unlock()
	return nil
}

// Teardown flushes every item with unwritten watch time. Fire and
// forget: delivery happens in the background and failures only log.
func (s *Session) Teardown() {
	s.writer.Cancel()

	s.mu.Lock()
	var updates []progress.Update
	for _, it := range s.items {
		if !it.dirty || it.position <= 0 {
			continue
		}
		updates = append(updates, s.updateLocked(it))
		it.dirty = false
	}
	s.mu.Unlock()

	for _, u := range updates {
		s.deliverAsync(u)
	}
}

// Reset forgets local state for a video, e.g. when the player reloads
// it. Results of in-flight saves for the old incarnation are discarded.
func (s *Session) Reset(videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[videoID]; ok {
		s.items[videoID] = &item{videoID: videoID, lastWriteAt: s.clock.Now(), gen: it.gen + 1}
	}
}

// flush writes one item's state synchronously, discarding the result if
// the item was reset while the write was being prepared.
func (s *Session) flush(videoID string) {
	s.mu.Lock()
	it, ok := s.items[videoID]
	if !ok || !it.dirty {
		s.mu.Unlock()
		return
	}
	u := s.updateLocked(it)
	gen := it.gen
	it.dirty = false
	it.lastWriteAt = s.clock.Now()
	s.mu.Unlock()

	rec, err := s.sink.SaveProgress(context.Background(), u)
	if err != nil {
		s.log.Warn("progress flush failed", zap.String("video_id", videoID), zap.Error(err))
		s.mu.Lock()
		if cur, ok := s.items[videoID]; ok && cur.gen == gen {
			cur.dirty = true
		}
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	if cur, ok := s.items[videoID]; ok && cur.gen == gen && rec.Completed {
		cur.completed = true
	}
	s.mu.Unlock()
}

func (s *Session) deliverAsync(u progress.Update) {
	go func() {
		if _, err := s.sink.SaveProgress(context.Background(), u); err != nil {
			s.log.Warn("background progress save failed",
				zap.String("video_id", u.VideoID), zap.Error(err))
		}
	}()
}

func (s *Session) updateLocked(it *item) progress.Update {
	return progress.Update{
		UserID:          s.userID,
		PlaylistID:      s.playlistID,
		VideoID:         it.videoID,
		WatchedSeconds:  it.position,
		DurationSeconds: it.duration,
		Completed:       it.completed,
	}
}
