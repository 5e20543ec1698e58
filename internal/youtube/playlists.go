package youtube

import (
	"context"

	"google.golang.org/api/youtube/v3"
)

// CreatePlaylist creates an empty playlist on the authenticated user's channel.
func (c *Client) CreatePlaylist(ctx context.Context, title, privacy string) (Playlist, error) {
	created, err := c.service.Playlists.Insert([]string{"snippet", "status"}, &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: "Created with playlistmix",
		},
		Status: &youtube.PlaylistStatus{
			PrivacyStatus: privacy,
		},
	}).Context(ctx).Do()
	if err != nil {
		return Playlist{}, classify("create playlist", err)
	}

	return Playlist{
		ID:  created.Id,
		URL: PlaylistURL(created.Id),
	}, nil
}

// InsertItem appends a video to the end of a playlist.
func (c *Client) InsertItem(ctx context.Context, playlistID, videoID string) error {
	_, err := c.service.PlaylistItems.Insert([]string{"snippet"}, &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return classify("insert playlist item", err)
	}
	return nil
}
