package cian

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// Fetcher retrieves the document text behind a URL. Implementations are
// expected to get past the source's anti-bot challenge; the pipeline only
// ever sees the resulting markup.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HeadlessFetcher loads pages through a headless browser. The source site
// serves a JS challenge to plain HTTP clients, so a real browser profile
// is the reliable way to obtain the listing markup.
type HeadlessFetcher struct {
	allocCtx context.Context
	timeout  time.Duration
	settle   time.Duration
}

// NewHeadlessFetcher sets up the browser allocator and returns the fetcher
// together with a cleanup function that must be called at run end.
func NewHeadlessFetcher(chromeBin string) (*HeadlessFetcher, func()) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	f := &HeadlessFetcher{
		allocCtx: silentCtx,
		timeout:  60 * time.Second,
		settle:   2 * time.Second,
	}
	cleanup := func() {
		cancelSilent()
		cancelAlloc()
	}
	return f, cleanup
}

// Fetch navigates a fresh tab to the URL and returns the rendered document
// markup.
func (f *HeadlessFetcher) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTimeout()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		defer cancelDeadline()
	}

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(f.settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return html, nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
