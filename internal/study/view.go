// Package study holds the student-side view of a published study pack:
// key points that jump into the lecture video, a linear quiz and a
// flashcard deck.
package study

import (
	"regexp"
	"strconv"
	"strings"
)

// EmptySummary is shown until an instructor publishes the pack.
const EmptySummary = "Summary will appear once the content is approved by the instructor."

// DefaultKeyPoints are shown when a pack has none.
var DefaultKeyPoints = []string{
	"Foundational concept introduced",
	"Core mechanism explained",
	"Practical example and follow-up activity",
}

var timestampRe = regexp.MustCompile(`\b(\d{1,3}):(\d{2})\b`)

// SummaryText returns summary, or EmptySummary when it is blank.
func SummaryText(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return EmptySummary
	}
	return summary
}

// KeyPoints returns points, or DefaultKeyPoints when there are none.
func KeyPoints(points []string) []string {
	if len(points) == 0 {
		return DefaultKeyPoints
	}
	return points
}

// EmbedURL turns a watch URL into its embeddable form. Other URLs are
// returned unchanged.
func EmbedURL(videoURL string) string {
	return strings.Replace(videoURL, "watch?v=", "embed/", 1)
}

// Offset returns the first M:SS timestamp in line, in seconds. Minutes may
// have up to three digits.
func Offset(line string) (int, bool) {
	m := timestampRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	mins, _ := strconv.Atoi(m[1])
	secs, _ := strconv.Atoi(m[2])
	return mins*60 + secs, true
}

// JumpTarget returns the embed URL that starts playback at the first
// timestamp in keyPoint. It reports false when there is no video or no
// timestamp.
func JumpTarget(keyPoint, videoURL string) (string, bool) {
	embed := EmbedURL(videoURL)
	if embed == "" {
		return "", false
	}
	start, ok := Offset(keyPoint)
	if !ok {
		return "", false
	}
	sep := "?"
	if strings.Contains(embed, "?") {
		sep = "&"
	}
	return embed + sep + "start=" + strconv.Itoa(start), true
}
