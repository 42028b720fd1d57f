// Package mediaurl classifies a shared media locator into the kind the
// player needs: a plain video file, a static image, or an embedded stream.
// The locator is otherwise opaque to the server.
package mediaurl

import (
	"regexp"
	"strings"
)

const (
	KindVideo  = "video"
	KindImage  = "image"
	KindStream = "stream"
)

var (
	videoExtRe = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)$`)
	imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)
)

// Kind returns the media kind for url. Unrecognized locators default to
// video, which lets direct file links without an extension still play.
func Kind(url string) string {
	if videoExtRe.MatchString(url) {
		return KindVideo
	}
	if imageExtRe.MatchString(url) {
		return KindImage
	}
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		return KindStream
	}

	return KindVideo
}

// IsValidKind reports whether kind is one of the kinds Kind can return.
func IsValidKind(kind string) bool {
	switch kind {
	case KindVideo, KindImage, KindStream:
		return true
	}

	return false
}
