package publish

import (
	"context"
	"io"

	"viewtuber/internal/domain/video"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const defaultCategoryID = "22"

// YouTubeClient uploads videos through the YouTube Data API on behalf of the
// channel owner.
type YouTubeClient struct{}

func NewYouTubeClient() *YouTubeClient {
	return &YouTubeClient{}
}

func (c *YouTubeClient) service(ctx context.Context, accessToken string) (*youtube.Service, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return youtube.NewService(ctx, option.WithTokenSource(source))
}

func (c *YouTubeClient) Upload(ctx context.Context, accessToken string, v *video.Video, media io.Reader) (string, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return "", err
	}

	snippet := &youtube.VideoSnippet{
		Title:      v.Title,
		CategoryId: defaultCategoryID,
		Tags:       v.Tags,
	}
	if v.Description != nil {
		snippet.Description = *v.Description
	}
	if v.Category != nil && *v.Category != "" {
		snippet.CategoryId = *v.Category
	}
	if v.DefaultLanguage != nil {
		snippet.DefaultLanguage = *v.DefaultLanguage
	}

	status := &youtube.VideoStatus{
		PrivacyStatus:           "private",
		SelfDeclaredMadeForKids: v.MadeForKids,
		// The API rejects the field unless it is explicitly sent.
		ForceSendFields: []string{"SelfDeclaredMadeForKids"},
	}
	if v.PrivacyStatus != nil && *v.PrivacyStatus != "" {
		status.PrivacyStatus = *v.PrivacyStatus
	}
	if v.PublishAt != nil {
		// Scheduled publishing requires the video to stay private until then.
		status.PrivacyStatus = "private"
		status.PublishAt = v.PublishAt.Format("2006-01-02T15:04:05Z07:00")
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, &youtube.Video{
		Snippet: snippet,
		Status:  status,
	})

	inserted, err := call.Media(media).Do()
	if err != nil {
		return "", err
	}

	return inserted.Snippet.ChannelId, nil
}

// ChannelInfo is the caller-facing projection of a YouTube channel.
type ChannelInfo struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	CustomURL       string `json:"customUrl,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	SubscriberCount uint64 `json:"subscriberCount"`
	VideoCount      uint64 `json:"videoCount"`
	ViewCount       uint64 `json:"viewCount"`
}

// Channel returns the authenticated user's own channel.
func (c *YouTubeClient) Channel(ctx context.Context, accessToken string) (*ChannelInfo, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Channels.List([]string{"snippet", "statistics"}).Mine(true).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	ch := resp.Items[0]
	info := &ChannelInfo{
		ID:          ch.Id,
		Title:       ch.Snippet.Title,
		Description: ch.Snippet.Description,
		CustomURL:   ch.Snippet.CustomUrl,
	}
	if ch.Snippet.Thumbnails != nil && ch.Snippet.Thumbnails.Default != nil {
		info.Thumbnail = ch.Snippet.Thumbnails.Default.Url
	}
	if ch.Statistics != nil {
		info.SubscriberCount = ch.Statistics.SubscriberCount
		info.VideoCount = ch.Statistics.VideoCount
		info.ViewCount = ch.Statistics.ViewCount
	}

	return info, nil
}
