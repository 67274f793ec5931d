package studypack

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// transcriptLine matches caption lines rendered as "M:SS - text". Minutes
// run to three digits for lectures past the hour and a half.
var transcriptLine = regexp.MustCompile(`^\s*(\d{1,3}:\d{2})\s+-\s+(.+)$`)

const maxKeyPointLen = 90

// DeriveKeyPoints picks up to max key points for a pack. Timestamped
// transcripts yield evenly spaced "M:SS - text" lines so students can jump
// into the video; otherwise the leading sentences of the summary are used.
func DeriveKeyPoints(content, summary string, max int) []string {
	if max <= 0 {
		return nil
	}

	var stamped []string
	for _, line := range strings.Split(content, "\n") {
		m := transcriptLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		stamped = append(stamped, m[1]+" - "+clip(strings.TrimSpace(m[2]), maxKeyPointLen))
	}
	if len(stamped) > 0 {
		return spread(stamped, max)
	}

	var points []string
	for _, s := range sentences(summary) {
		points = append(points, clip(s, maxKeyPointLen))
		if len(points) == max {
			break
		}
	}
	return points
}

// spread returns up to n items sampled at even intervals, keeping order.
func spread(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	out := make([]string, n)
	for i := range n {
		out[i] = items[i*len(items)/n]
	}
	return out
}

func sentences(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		for _, s := range strings.SplitAfter(para, ". ") {
			s = strings.TrimSpace(s)
			s = strings.TrimSuffix(s, ".")
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// clip shortens s to at most n bytes on a word boundary, adding an ellipsis.
// Text without spaces is cut at the last rune that fits.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := strings.LastIndexByte(s[:n], ' ')
	if cut <= 0 {
		cut = n
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
	}
	return strings.TrimSpace(s[:cut]) + "..."
}
