package event

import (
	"github.com/wagoodman/go-partybus"
)

const (
	typePrefix    = "debup"
	cliTypePrefix = typePrefix + "-cli"

	// Events from the debup library

	// UpdateDecidedEvent is a partybus event that occurs once the installed and latest released versions of the
	// target package have been compared
	UpdateDecidedEvent partybus.EventType = typePrefix + "-update-decided"

	// PackageInstalledEvent is a partybus event that occurs when a downloaded package has been installed successfully
	PackageInstalledEvent partybus.EventType = typePrefix + "-package-installed"

	// Events exclusively for the CLI

	// CLIReport is a partybus event that occurs when an analysis result is ready for final presentation to stdout
	CLIReport partybus.EventType = cliTypePrefix + "-report"

	// CLINotification is a partybus event that occurs when auxiliary information is ready for presentation to stderr
	CLINotification partybus.EventType = cliTypePrefix + "-notification"

	// CLIExit is a partybus event that occurs when the command has finished and the UI should stop listening
	CLIExit partybus.EventType = cliTypePrefix + "-exit"
)
