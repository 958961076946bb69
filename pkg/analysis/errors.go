package analysis

import "errors"

var (
	// ErrInvalidLink means the input is not a recognised shorts link.
	ErrInvalidLink = errors.New("invalid shorts link")
	// ErrVideoNotFound means the provider returned no data for the video.
	ErrVideoNotFound = errors.New("video data unavailable")
	// ErrAnalysisFailed covers every unexpected failure while analyzing.
	ErrAnalysisFailed = errors.New("analysis failed")
)

const (
	msgInvalidLink = "Invalid URL. Please enter a valid YouTube Shorts URL."
	msgNotFound    = "Could not retrieve video data. Please check the URL and try again."
	msgFailed      = "An error occurred during analysis. Please try again later."
)

// UserMessage maps an error from Analyze to the sentence shown to users.
// Underlying provider errors are never exposed.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLink):
		return msgInvalidLink
	case errors.Is(err, ErrVideoNotFound):
		return msgNotFound
	default:
		return msgFailed
	}
}
