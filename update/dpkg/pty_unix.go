//go:build linux || darwin

package dpkg

import (
	"context"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/anchore/debup/internal/log"
)

// runInteractive attaches the command to a pty so that sudo can prompt for a password.
func runInteractive(ctx context.Context, args []string) error {
	log.Trace("running (pty): " + strings.Join(args, " "))

	c := exec.CommandContext(ctx, args[0], args[1:]...)

	ptmx, err := pty.Start(c)
	if err != nil {
		return err
	}

	// make sure to close the pty at the end
	defer func() { _ = ptmx.Close() }() // best effort

	// handle pty size
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for range ch {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				log.Debugf("error resizing pty: %s", err)
			}
		}
	}()
	ch <- syscall.SIGWINCH                        // initial resize
	defer func() { signal.Stop(ch); close(ch) }() // cleanup signals when done

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		_ = c.Process.Kill()
		_ = c.Wait()
		return err
	}
	defer func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }() // best effort

	// copy stdin to the pty and the pty to stdout. The goroutine will keep reading until the next keystroke before returning.
	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	_, _ = io.Copy(os.Stdout, ptmx)

	return c.Wait()
}
