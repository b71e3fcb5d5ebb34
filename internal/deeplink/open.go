package deeplink

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
)

// Opener hands links to the desktop.
type Opener interface {
	// OpenNew shows a web page in a new browser window.
	OpenNew(link string) error
	// Navigate passes a link to the handler registered for its scheme.
	Navigate(link string) error
}

var (
	lookBrowser  = launcher.LookPath
	openInWindow = launcher.Open
	startCommand = func(name string, args ...string) error {
		cmd := exec.Command(name, args...)
		if err := cmd.Start(); err != nil {
			return err
		}
		go func() { _ = cmd.Wait() }()
		return nil
	}
)

// SystemOpener opens links with the local browser and URL handlers.
type SystemOpener struct{}

// OpenNew opens an http(s) link in a new window of the installed Chromium
// browser, or with the system handler when none is found.
func (SystemOpener) OpenNew(link string) error {
	if err := validate(link, "http", "https"); err != nil {
		return err
	}
	if bin, ok := lookBrowser(); ok {
		slog.Debug("Opening link in new browser window", "browser", bin, "url", link)
		openInWindow(link)
		return nil
	}
	return systemOpen(link)
}

// Navigate opens a Stremio or web link with the system handler.
func (SystemOpener) Navigate(link string) error {
	if err := validate(link, "stremio", "http", "https"); err != nil {
		return err
	}
	return systemOpen(link)
}

func systemOpen(link string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		name = "xdg-open"
	}
	args = append(args, link)

	slog.Debug("Opening link with system handler", "command", name, "url", link)
	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", link, err)
	}
	return nil
}
