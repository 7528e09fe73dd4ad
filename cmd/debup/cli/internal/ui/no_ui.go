package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/wagoodman/go-partybus"

	"github.com/anchore/clio"
	"github.com/anchore/debup/event"
	"github.com/anchore/debup/internal/log"
)

var _ clio.UI = (*NoUI)(nil)

// NoUI renders nothing while running: reports are written to stdout and notifications to stderr on teardown.
type NoUI struct {
	finalizeEvents []partybus.Event
	subscription   partybus.Unsubscribable
	quiet          bool
	lock           sync.Mutex
	stdout         io.Writer
	stderr         io.Writer
}

func None(quiet bool) *NoUI {
	return &NoUI{
		quiet:  quiet,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (n *NoUI) Setup(subscription partybus.Unsubscribable) error {
	n.subscription = subscription
	return nil
}

func (n *NoUI) Handle(e partybus.Event) error {
	n.lock.Lock()
	defer n.lock.Unlock()

	switch e.Type {
	case event.CLIReport, event.CLINotification:
		// keep these for when the UI is terminated to show to the screen (or perform other events)
		n.finalizeEvents = append(n.finalizeEvents, e)

	case event.UpdateDecidedEvent:
		d, err := event.ParseUpdateDecided(e)
		if err != nil {
			log.WithFields("error", err).Warn("unable to parse event")
			return nil
		}
		log.WithFields("package", d.PackageName(), "installed", d.InstalledVersion(), "latest", d.LatestVersion(), "needs-install", d.UpdateNeeded()).
			Info("checked for update")

	case event.PackageInstalledEvent:
		pkg, version, err := event.ParsePackageInstalled(e)
		if err != nil {
			log.WithFields("error", err).Warn("unable to parse event")
			return nil
		}
		log.WithFields("package", pkg, "version", version).Info("package installed")

	case event.CLIExit:
		if n.subscription != nil {
			return n.subscription.Unsubscribe()
		}
	}
	return nil
}

func (n *NoUI) Teardown(_ bool) error {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.postEvents()
	n.finalizeEvents = nil
	return nil
}

func (n *NoUI) postEvents() {
	for _, e := range n.finalizeEvents {
		switch e.Type {
		case event.CLIReport:
			_, report, err := event.ParseCLIReport(e)
			if err != nil {
				log.WithFields("error", err).Warn("failed to gather final report")
				continue
			}
			writeLine(n.stdout, report)

		case event.CLINotification:
			if n.quiet {
				continue
			}
			_, notification, err := event.ParseCLINotification(e)
			if err != nil {
				log.WithFields("error", err).Warn("failed to gather notification")
				continue
			}
			writeLine(n.stderr, notification)
		}
	}
}

func writeLine(w io.Writer, s string) {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, _ = fmt.Fprint(w, s)
}
