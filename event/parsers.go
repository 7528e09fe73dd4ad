package event

import (
	"fmt"

	"github.com/wagoodman/go-partybus"
)

// Decision describes the outcome of comparing the installed and released versions of a package.
type Decision interface {
	PackageName() string
	InstalledVersion() string
	LatestVersion() string
	UpdateNeeded() bool
}

type ErrBadPayload struct {
	Type  partybus.EventType
	Field string
	Value interface{}
}

func (e *ErrBadPayload) Error() string {
	return fmt.Sprintf("event='%s' has bad event payload field='%v': '%+v'", string(e.Type), e.Field, e.Value)
}

func newPayloadErr(t partybus.EventType, field string, value interface{}) error {
	return &ErrBadPayload{
		Type:  t,
		Field: field,
		Value: value,
	}
}

func checkEventType(actual, expected partybus.EventType) error {
	if actual != expected {
		return newPayloadErr(expected, "Type", actual)
	}
	return nil
}

func ParseUpdateDecided(e partybus.Event) (Decision, error) {
	if err := checkEventType(e.Type, UpdateDecidedEvent); err != nil {
		return nil, err
	}

	d, ok := e.Source.(Decision)
	if !ok {
		return nil, newPayloadErr(e.Type, "Source", e.Source)
	}

	return d, nil
}

// ParsePackageInstalled returns the package name and the version that was installed.
func ParsePackageInstalled(e partybus.Event) (string, string, error) {
	if err := checkEventType(e.Type, PackageInstalledEvent); err != nil {
		return "", "", err
	}

	pkg, ok := e.Source.(string)
	if !ok {
		return "", "", newPayloadErr(e.Type, "Source", e.Source)
	}

	version, ok := e.Value.(string)
	if !ok {
		return "", "", newPayloadErr(e.Type, "Value", e.Value)
	}

	return pkg, version, nil
}

func ParseCLIReport(e partybus.Event) (string, string, error) {
	if err := checkEventType(e.Type, CLIReport); err != nil {
		return "", "", err
	}

	context, ok := e.Source.(string)
	if !ok {
		// this is optional
		context = ""
	}

	report, ok := e.Value.(string)
	if !ok {
		return "", "", newPayloadErr(e.Type, "Value", e.Value)
	}

	return context, report, nil
}

func ParseCLINotification(e partybus.Event) (string, string, error) {
	if err := checkEventType(e.Type, CLINotification); err != nil {
		return "", "", err
	}

	context, ok := e.Source.(string)
	if !ok {
		// this is optional
		context = ""
	}

	notification, ok := e.Value.(string)
	if !ok {
		return "", "", newPayloadErr(e.Type, "Value", e.Value)
	}

	return context, notification, nil
}
