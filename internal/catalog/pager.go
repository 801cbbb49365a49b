package catalog

import (
	"context"
	"errors"
	"sync"
)

// ErrLoadInFlight is returned by LoadMore while a previous load is running.
var ErrLoadInFlight = errors.New("page load already in flight")

// PageSource is the slice of Client a Pager needs; it exists so tests can
// drive pagination with a fake.
type PageSource interface {
	GetPlaylistPage(ctx context.Context, playlistID, cursor string) (Page, error)
}

// Pager accumulates playlist pages into a deduplicated video list.
//
// The listing is done only when a page comes back without a next cursor;
// an empty page that still carries a cursor keeps the pager going. Items
// already seen on earlier pages are dropped, so the accumulated list is
// unique by video id no matter what the upstream returns.
type Pager struct {
	src        PageSource
	playlistID string

	mu       sync.Mutex
	inFlight bool
	cursor   string
	done     bool
	seen     map[string]struct{}
	videos   []Video
}

func NewPager(src PageSource, playlistID string) *Pager {
	return &Pager{
		src:        src,
		playlistID: playlistID,
		seen:       make(map[string]struct{}),
	}
}

// LoadMore fetches the next page and folds it into the accumulated list.
// Only one load may run at a time; a second concurrent call fails with
// ErrLoadInFlight rather than queueing. After exhaustion it is a no-op.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return nil
	}
	if p.inFlight {
		p.mu.Unlock()
		return ErrLoadInFlight
	}
	p.inFlight = true
	cursor := p.cursor
	p.mu.Unlock()

	page, err := p.src.GetPlaylistPage(ctx, p.playlistID, cursor)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if err != nil {
		return err
	}

	for _, v := range page.Videos {
		if _, dup := p.seen[v.ID]; dup {
			continue
		}
		p.seen[v.ID] = struct{}{}
		p.videos = append(p.videos, v)
	}
	p.cursor = page.NextCursor
	if page.NextCursor == "" {
		p.done = true
	}
	return nil
}

// LoadAll drives LoadMore until the listing is exhausted, bounded by
// maxPages as a runaway guard (0 means no bound).
func (p *Pager) LoadAll(ctx context.Context, maxPages int) error {
	for pages := 0; ; pages++ {
		if maxPages > 0 && pages >= maxPages {
			return nil
		}
		if p.Done() {
			return nil
		}
		if err := p.LoadMore(ctx); err != nil {
			return err
		}
	}
}

// Videos returns a copy of the accumulated, deduplicated list in order.
func (p *Pager) Videos() []Video {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Video, len(p.videos))
	copy(out, p.videos)
	return out
}

// Done reports whether the upstream listing is exhausted.
func (p *Pager) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
