package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/omrstudio/pilotctl/internal/types"
)

// PersistedSession is the durable session record, stored as JSON.
type PersistedSession struct {
	User         *types.User `json:"user"`
	SessionToken string      `json:"sessionToken"`
}

// Persister stores the two durable keys the console keeps between runs:
// the theme (a plain string) and the session (a JSON record).
type Persister interface {
	LoadTheme() (Theme, bool)
	SaveTheme(Theme) error
	LoadSession() (*PersistedSession, error)
	SaveSession(PersistedSession) error
	ClearSession() error
}

// FilePersister keeps the theme and session as two files, mirroring the
// two localStorage keys of the web console.
type FilePersister struct {
	ThemePath   string
	SessionPath string
}

// NewFilePersister builds a persister over the given file paths.
func NewFilePersister(themePath, sessionPath string) *FilePersister {
	return &FilePersister{ThemePath: themePath, SessionPath: sessionPath}
}

// LoadTheme reads the persisted theme. Unknown or missing values report ok=false.
func (p *FilePersister) LoadTheme() (Theme, bool) {
	data, err := os.ReadFile(p.ThemePath)
	if err != nil {
		return "", false
	}
	theme := Theme(strings.TrimSpace(string(data)))
	if theme != ThemeLight && theme != ThemeDark {
		return "", false
	}
	return theme, true
}

// SaveTheme writes the theme as a plain string.
func (p *FilePersister) SaveTheme(theme Theme) error {
	if err := os.WriteFile(p.ThemePath, []byte(theme), 0644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}
	return nil
}

// LoadSession reads the persisted session. A missing file is not an error;
// it simply means no session survives.
func (p *FilePersister) LoadSession() (*PersistedSession, error) {
	data, err := os.ReadFile(p.SessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var sess PersistedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &sess, nil
}

// SaveSession writes the session record as JSON.
func (p *FilePersister) SaveSession(sess PersistedSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(p.SessionPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// ClearSession removes the session record entirely.
func (p *FilePersister) ClearSession() error {
	if err := os.Remove(p.SessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryPersister is an in-memory Persister for tests.
type MemoryPersister struct {
	Theme    Theme
	HasTheme bool
	Session  *PersistedSession

	ThemeErr   error
	SessionErr error
}

func (m *MemoryPersister) LoadTheme() (Theme, bool) { return m.Theme, m.HasTheme }

func (m *MemoryPersister) SaveTheme(theme Theme) error {
	if m.ThemeErr != nil {
		return m.ThemeErr
	}
	m.Theme = theme
	m.HasTheme = true
	return nil
}

func (m *MemoryPersister) LoadSession() (*PersistedSession, error) {
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return m.Session, nil
}

func (m *MemoryPersister) SaveSession(sess PersistedSession) error {
	if m.SessionErr != nil {
		return m.SessionErr
	}
	m.Session = &sess
	return nil
}

func (m *MemoryPersister) ClearSession() error {
	m.Session = nil
	return nil
}
