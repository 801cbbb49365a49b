package catalog

// Video is one playlist entry enriched with per-video details.
type Video struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	ChannelTitle    string `json:"channel_title,omitempty"`
	Position        int64  `json:"position"`
	PublishedAt     string `json:"published_at,omitempty"`
	DurationSeconds int64  `json:"duration_seconds"`
	Duration        string `json:"duration"`
	ViewCount       uint64 `json:"view_count"`
}

// PlaylistMeta describes the playlist itself, independent of its items.
type PlaylistMeta struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ChannelID    string `json:"channel_id,omitempty"`
	ChannelTitle string `json:"channel_title,omitempty"`
	ItemCount    int64  `json:"item_count"`
}

// Page is one playlist page plus the cursor for the next one.
// An empty NextCursor means the listing is exhausted.
type Page struct {
	Videos     []Video `json:"videos"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// Comment is a top-level comment with its replies inlined.
type Comment struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	AuthorImage string    `json:"author_image,omitempty"`
	Text        string    `json:"text"`
	LikeCount   int64     `json:"like_count"`
	PublishedAt string    `json:"published_at,omitempty"`
	Replies     []Comment `json:"replies,omitempty"`
}
