package uicheck

import "time"

// sessionConfig holds internal configuration for a Session.
type sessionConfig struct {
	chromePath   string
	autoDownload bool
	noSandbox    bool
	headless     string
	width        int
	height       int
	navTimeout   time.Duration
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		headless:   "new",
		width:      1400,
		height:     900,
		navTimeout: 30 * time.Second,
	}
}

// Option configures a Session.
type Option func(*sessionConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the driver searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *sessionConfig) {
		c.chromePath = path
	}
}

// WithAutoDownload downloads a compatible Chromium binary when none is
// installed, caching it under the user's cache directory.
func WithAutoDownload() Option {
	return func(c *sessionConfig) {
		c.autoDownload = true
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *sessionConfig) {
		c.noSandbox = true
	}
}

// WithVisible runs the browser with a visible window instead of headless.
// Useful when watching a scenario run during debugging.
func WithVisible() Option {
	return func(c *sessionConfig) {
		c.headless = ""
	}
}

// WithViewport sets the browser window size. Defaults to 1400x900, the
// size the application layout was designed against.
func WithViewport(width, height int) Option {
	return func(c *sessionConfig) {
		c.width = width
		c.height = height
	}
}

// WithNavTimeout sets the maximum duration for navigation and element
// waits that do not carry their own timeout. Defaults to 30 seconds.
func WithNavTimeout(d time.Duration) Option {
	return func(c *sessionConfig) {
		c.navTimeout = d
	}
}
