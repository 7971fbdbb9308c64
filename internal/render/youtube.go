package render

import "regexp"

var youtubeRe = regexp.MustCompile(
	`(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:[^#]*&)?v=|embed/|shorts/|v/|live/)|youtu\.be/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)

// YouTubeID extracts the 11-character video id from watch, embed, shorts,
// live and short-link URLs.
func YouTubeID(url string) (string, bool) {
	m := youtubeRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}
