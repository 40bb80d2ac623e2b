package topic

import "strings"

// Topic names an event stream, such as "input.keyboard" or
// "capture.state". Subscriptions may use patterns where "*" stands for
// one segment and "**" for any number of trailing segments.
type Topic string

const (
	any1    = "*"
	anyRest = "**"
	sep     = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments splits the topic on dots.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), sep)
}

// IsValid reports whether the topic is non-empty with no empty segment.
func (t Topic) IsValid() bool {
	return t != "" && !strings.Contains(sep+string(t)+sep, sep+sep)
}

// IsWildcard reports whether t is a pattern rather than a concrete topic.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), any1)
}

// Matches reports whether t is covered by pattern. "**" is only
// meaningful as the last segment of a pattern.
func (t Topic) Matches(pattern Topic) bool {
	segs, pats := t.Segments(), pattern.Segments()
	for i, p := range pats {
		if p == anyRest && i == len(pats)-1 {
			return true
		}
		if i >= len(segs) || (p != any1 && p != segs[i]) {
			return false
		}
	}
	return len(segs) == len(pats)
}
