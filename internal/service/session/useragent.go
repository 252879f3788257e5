package session

import "strings"

// parsedUA is the coarse device classification stored on a session. It only
// needs to be stable enough for fingerprint display and suspicion checks,
// not a full UA database.
type parsedUA struct {
	Device  string
	Browser string
	OS      string
}

func parseUserAgent(ua string) parsedUA {
	out := parsedUA{Device: "desktop", Browser: "unknown", OS: "unknown"}
	if ua == "" {
		out.Device = "unknown"
		return out
	}
	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet"):
		out.Device = "tablet"
	case strings.Contains(lower, "mobile") || strings.Contains(lower, "iphone") ||
		strings.Contains(lower, "android"):
		out.Device = "mobile"
	case strings.Contains(lower, "bot") || strings.Contains(lower, "curl") ||
		strings.Contains(lower, "wget"):
		out.Device = "bot"
	}

	switch {
	case strings.Contains(lower, "edg/"):
		out.Browser = "edge"
	case strings.Contains(lower, "opr/") || strings.Contains(lower, "opera"):
		out.Browser = "opera"
	case strings.Contains(lower, "chrome"):
		out.Browser = "chrome"
	case strings.Contains(lower, "firefox"):
		out.Browser = "firefox"
	case strings.Contains(lower, "safari"):
		out.Browser = "safari"
	case strings.Contains(lower, "curl"):
		out.Browser = "curl"
	}

	switch {
	case strings.Contains(lower, "windows"):
		out.OS = "windows"
	case strings.Contains(lower, "android"):
		out.OS = "android"
	case strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad") ||
		strings.Contains(lower, "ios"):
		out.OS = "ios"
	case strings.Contains(lower, "mac os") || strings.Contains(lower, "macintosh"):
		out.OS = "macos"
	case strings.Contains(lower, "linux"):
		out.OS = "linux"
	}

	return out
}
