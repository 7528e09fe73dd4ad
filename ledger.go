package debup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/anchore/debup/internal/log"
)

const ledgerFileName = ".debup.state.json"

// Ledger records successful installs in a JSON state file under a root directory.
type Ledger struct {
	root    string
	entries []LedgerEntry
	lock    *sync.RWMutex
}

type ledgerState struct {
	Entries []LedgerEntry `json:"entries"`
}

type LedgerEntry struct {
	Package     string            `json:"package"`
	Version     string            `json:"version"`
	Asset       string            `json:"asset"`
	URL         string            `json:"url"`
	Digests     map[string]string `json:"digests,omitempty"`
	TargetID    string            `json:"target"`
	InstalledAt time.Time         `json:"installedAt"`
}

// MatchesTarget reports whether the entry was recorded under the given target configuration.
func (e LedgerEntry) MatchesTarget(t Target) bool {
	id, err := t.ID()
	if err != nil {
		return false
	}
	return e.TargetID == id
}

func NewLedger(root string) (*Ledger, error) {
	l := &Ledger{
		root:    root,
		entries: []LedgerEntry{},
		lock:    &sync.RWMutex{},
	}

	return l, l.loadState()
}

func (l Ledger) Root() string {
	return l.root
}

func (l Ledger) Path() string {
	return filepath.Join(l.root, ledgerFileName)
}

// Get returns the entry for the given package, or nil if nothing was recorded.
func (l *Ledger) Get(pkg string) *LedgerEntry {
	l.lock.RLock()
	defer l.lock.RUnlock()

	for _, en := range l.entries {
		if en.Package == pkg {
			entry := en
			return &entry
		}
	}
	return nil
}

// Entries returns all entries sorted by package name.
func (l Ledger) Entries() (entries []LedgerEntry) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	entries = append(entries, l.entries...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Package < entries[j].Package
	})
	return entries
}

// Record adds the entry, replacing any previous entry for the same package, and persists the ledger.
func (l *Ledger) Record(entry LedgerEntry) error {
	if entry.Package == "" {
		return fmt.Errorf("ledger entry has no package name")
	}

	log.WithFields("package", entry.Package, "version", entry.Version).Trace("recording install in ledger")

	if err := l.loadState(); err != nil {
		return err
	}

	if _, err := os.Stat(l.root); os.IsNotExist(err) {
		if err := os.MkdirAll(l.root, 0755); err != nil {
			return err
		}
	}

	if entry.InstalledAt.IsZero() {
		entry.InstalledAt = time.Now().UTC()
	}

	l.lock.Lock()
	replaced := false
	for i, existing := range l.entries {
		if existing.Package == entry.Package {
			log.WithFields("package", entry.Package, "previous", existing.Version).Trace("replacing existing ledger entry")
			l.entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		l.entries = append(l.entries, entry)
	}
	l.lock.Unlock()

	return l.saveState()
}

func (l *Ledger) loadState() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	stateFilePath := l.Path()
	log.WithFields("path", stateFilePath).Trace("loading ledger")

	if _, err := os.Stat(stateFilePath); os.IsNotExist(err) {
		return nil
	}

	stateFile, err := os.Open(stateFilePath)
	if err != nil {
		return err
	}
	defer stateFile.Close()

	var decoded ledgerState

	decoder := json.NewDecoder(stateFile)
	if err := decoder.Decode(&decoded); err != nil {
		return fmt.Errorf("unable to decode ledger %q: %w", stateFilePath, err)
	}

	l.entries = decoded.Entries
	if l.entries == nil {
		l.entries = []LedgerEntry{}
	}

	return nil
}

func (l *Ledger) saveState() error {
	l.lock.RLock()
	defer l.lock.RUnlock()

	stateFilePath := l.Path()
	log.WithFields("path", stateFilePath).Trace("saving ledger")

	tmpFile, err := os.CreateTemp(l.root, ledgerFileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	// no-op once the rename has succeeded
	defer func() { _ = os.Remove(tmpPath) }()

	encoder := json.NewEncoder(tmpFile)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(ledgerState{Entries: l.entries}); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("unable to encode ledger: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return err
	}

	// replace the state file in one step so an interrupted write never leaves it truncated
	return os.Rename(tmpPath, stateFilePath)
}
