package pipeline

import (
	"errors"

	"github.com/gauthierbraillon/playlistmix/internal/criteria"
	"github.com/gauthierbraillon/playlistmix/internal/youtube"
	"github.com/gauthierbraillon/playlistmix/pkg/oauth"
)

// User-facing messages, one per failure.
const (
	MsgNoCandidates     = "No videos found matching your criteria. Try broadening your search."
	MsgNoMatches        = "No videos match your filters. Try adjusting minimum views or duration range."
	MsgQuotaExceeded    = "YouTube API quota exceeded. Please try again tomorrow."
	MsgRateLimited      = "YouTube is limiting requests. Please try again in a minute."
	MsgNotAuthenticated = "Not authenticated. Please sign in again."
	MsgSessionExpired   = "Session expired. Please sign in again."
	MsgNotConfigured    = "YouTube API key not configured"
	MsgNoVideos         = "No videos selected"
	MsgSearchFailed     = "Failed to search videos. Please try again."
	MsgCreateFailed     = "Failed to create playlist. Please try again."
)

// classify converts an error from any stage into a Failure. fallback is the
// message used when the error is not one the user can act on.
func classify(err error, fallback string) *Failure {
	var verr *criteria.ValidationError
	switch {
	case errors.As(err, &verr):
		return &Failure{Kind: KindValidation, Message: verr.Message}
	case errors.Is(err, youtube.ErrQuotaExceeded):
		return &Failure{Kind: KindQuotaExceeded, Message: MsgQuotaExceeded}
	case errors.Is(err, youtube.ErrRateLimited):
		return &Failure{Kind: KindQuotaExceeded, Message: MsgRateLimited}
	case errors.Is(err, oauth.ErrTokenNotFound):
		return &Failure{Kind: KindAuth, Message: MsgNotAuthenticated}
	case errors.Is(err, oauth.ErrRefreshFailed), errors.Is(err, youtube.ErrUnauthorized):
		return &Failure{Kind: KindAuth, Message: MsgSessionExpired}
	default:
		return &Failure{Kind: KindInternal, Message: fallback}
	}
}
