package polls

import "time"

// RecentWindow is how far back a publish date may lie for the question to
// still count as recently published.
const RecentWindow = 24 * time.Hour

// IsPublished reports whether the question is live at the given instant.
// A question goes live the moment its publish date arrives; a future
// publish date means not yet published.
func IsPublished(publishedAt, now time.Time) bool {
	return !publishedAt.After(now)
}

// WasPublishedRecently reports whether publishedAt falls within the last
// day, both bounds inclusive. Future publish dates are never recent.
func WasPublishedRecently(publishedAt, now time.Time) bool {
	earliest := now.Add(-RecentWindow)
	return !publishedAt.Before(earliest) && !publishedAt.After(now)
}
