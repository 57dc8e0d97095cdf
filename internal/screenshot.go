package internal

import "context"

// ScreenshotProvider returns an opaque image reference for a tab
type ScreenshotProvider interface {
	Capture(ctx context.Context, tab TabID) (string, error)
}

// ScreenshotFunc adapts a function to the ScreenshotProvider interface
type ScreenshotFunc func(ctx context.Context, tab TabID) (string, error)

// Capture calls f(ctx, tab)
func (f ScreenshotFunc) Capture(ctx context.Context, tab TabID) (string, error) {
	return f(ctx, tab)
}

// captureScreenshot asks the provider for a screenshot. Failures, including
// panics, yield an empty reference.
func captureScreenshot(ctx context.Context, p ScreenshotProvider, tab TabID) (shot string) {
	if p == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			LogWarn("Screenshot capture for tab %d panicked: %v", tab, r)
			shot = ""
		}
	}()

	shot, err := p.Capture(ctx, tab)
	if err != nil {
		LogDebug("Screenshot unavailable for tab %d: %v", tab, err)
		return ""
	}
	return shot
}
