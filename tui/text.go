package tui

// UI text constants
const (
	TextTitle         = "devfeed"
	TextIdle          = "Waiting to start..."
	TextLoading       = "Loading feeds from %s"
	TextFailed        = "Could not load feeds: %v"
	TextRetry         = "Press 'r' to try again"
	TextEmptySection  = "Nothing here right now."
	TextSectionHeader = "%s (%d)"
	TextMoreItems     = "+%d more"
	TextRotation      = "Rotating every %s"
	TextAnonymous     = "Anonymous"
	TextNoLanguage    = "n/a"
	TextDateLayout    = "Jan 2, 2006"
)
