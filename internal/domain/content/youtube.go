package content

import (
	"net/url"
	"regexp"
	"strings"
)

var youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)

// YouTubeEmbedURL returns the embeddable player URL for a watch, share, shorts or embed link.
func YouTubeEmbedURL(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(parsed.Path, "/")
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtube-nocookie.com":
		if v := parsed.Query().Get("v"); v != "" {
			id = v
		} else if rest, ok := strings.CutPrefix(parsed.Path, "/embed/"); ok {
			id = rest
		} else if rest, ok := strings.CutPrefix(parsed.Path, "/shorts/"); ok {
			id = rest
		}
	}

	id = strings.TrimSuffix(id, "/")
	if !youtubeIDPattern.MatchString(id) {
		return "", false
	}
	return "https://www.youtube.com/embed/" + id, true
}
