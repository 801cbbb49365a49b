package catalog

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrPlaylistNotFound means the playlist id does not exist or is private.
// An existing playlist with zero items is NOT this error.
var ErrPlaylistNotFound = errors.New("playlist not found")

// ErrVideoNotFound means the video id does not exist or has comments disabled.
var ErrVideoNotFound = errors.New("video not found")

const pageSize = 50

// Client wraps the YouTube Data API for playlist and comment reads.
type Client struct {
	svc *youtube.Service
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("youtube api key required")
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// GetPlaylistMetadata fetches the playlist's own snippet and item count.
func (c *Client) GetPlaylistMetadata(ctx context.Context, playlistID string) (PlaylistMeta, error) {
	resp, err := c.svc.Playlists.List([]string{"snippet", "contentDetails"}).
		Id(playlistID).
		Context(ctx).
		Do()
	if err != nil {
		return PlaylistMeta{}, classifyAPIError(err, ErrPlaylistNotFound)
	}
	if len(resp.Items) == 0 {
		return PlaylistMeta{}, ErrPlaylistNotFound
	}

	p := resp.Items[0]
	meta := PlaylistMeta{ID: p.Id}
	if p.Snippet != nil {
		meta.Title = p.Snippet.Title
		meta.Description = p.Snippet.Description
		meta.ChannelID = p.Snippet.ChannelId
		meta.ChannelTitle = p.Snippet.ChannelTitle
		meta.ThumbnailURL = bestThumbnail(p.Snippet.Thumbnails)
	}
	if p.ContentDetails != nil {
		meta.ItemCount = p.ContentDetails.ItemCount
	}
	return meta, nil
}

// GetPlaylistPage fetches one page of playlist items and joins in per-video
// duration and view count via a single batched videos.list call. A missing
// playlist surfaces as ErrPlaylistNotFound; an existing but empty playlist
// returns an empty page with no error.
func (c *Client) GetPlaylistPage(ctx context.Context, playlistID, cursor string) (Page, error) {
	resp, err := c.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(pageSize).
		PageToken(cursor).
		Context(ctx).
		Do()
	if err != nil {
		return Page{}, classifyAPIError(err, ErrPlaylistNotFound)
	}

	videos := make([]Video, 0, len(resp.Items))
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		v := Video{}
		if item.ContentDetails != nil {
			v.ID = item.ContentDetails.VideoId
		}
		if item.Snippet != nil {
			v.Title = item.Snippet.Title
			v.Description = item.Snippet.Description
			v.ChannelTitle = item.Snippet.ChannelTitle
			v.Position = item.Snippet.Position
			v.PublishedAt = item.Snippet.PublishedAt
			v.ThumbnailURL = bestThumbnail(item.Snippet.Thumbnails)
		}
		if v.ID == "" {
			continue
		}
		ids = append(ids, v.ID)
		videos = append(videos, v)
	}

	if err := c.joinVideoDetails(ctx, ids, videos); err != nil {
		return Page{}, err
	}

	return Page{Videos: videos, NextCursor: resp.NextPageToken}, nil
}

// joinVideoDetails backfills duration and view count onto videos in place.
// Videos the API no longer knows about (deleted, private) keep zero values.
func (c *Client) joinVideoDetails(ctx context.Context, ids []string, videos []Video) error {
	if len(ids) == 0 {
		return nil
	}
	resp, err := c.svc.Videos.List([]string{"contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return classifyAPIError(err, ErrVideoNotFound)
	}

	type detail struct {
		seconds int64
		views   uint64
	}
	details := make(map[string]detail, len(resp.Items))
	for _, item := range resp.Items {
		d := detail{}
		if item.ContentDetails != nil {
			d.seconds = ParseDuration(item.ContentDetails.Duration)
		}
		if item.Statistics != nil {
			d.views = item.Statistics.ViewCount
		}
		details[item.Id] = d
	}

	for i := range videos {
		d := details[videos[i].ID]
		videos[i].DurationSeconds = d.seconds
		videos[i].Duration = FormatDuration(d.seconds)
		videos[i].ViewCount = d.views
	}
	return nil
}

// GetComments fetches the top relevance-ordered comment threads with replies.
func (c *Client) GetComments(ctx context.Context, videoID string, limit int64) ([]Comment, error) {
	if limit <= 0 {
		limit = 20
	}
	resp, err := c.svc.CommentThreads.List([]string{"snippet", "replies"}).
		VideoId(videoID).
		Order("relevance").
		MaxResults(limit).
		TextFormat("plainText").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err, ErrVideoNotFound)
	}

	comments := make([]Comment, 0, len(resp.Items))
	for _, thread := range resp.Items {
		if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
			continue
		}
		top := toComment(thread.Snippet.TopLevelComment)
		if thread.Replies != nil {
			for _, r := range thread.Replies.Comments {
				top.Replies = append(top.Replies, toComment(r))
			}
		}
		comments = append(comments, top)
	}
	return comments, nil
}

func toComment(c *youtube.Comment) Comment {
	out := Comment{ID: c.Id}
	if s := c.Snippet; s != nil {
		out.Author = s.AuthorDisplayName
		out.AuthorImage = s.AuthorProfileImageUrl
		out.Text = s.TextDisplay
		out.LikeCount = s.LikeCount
		out.PublishedAt = s.PublishedAt
	}
	return out
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// classifyAPIError maps a 404 from the Data API onto the given sentinel
// and passes everything else through.
func classifyAPIError(err error, notFound error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 404 {
		return notFound
	}
	return err
}
