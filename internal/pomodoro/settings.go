package pomodoro

import (
	"strconv"
	"strings"

	"github.com/ktakeda/focusdo/internal/logging"
)

// Default durations in seconds.
const (
	DefaultWorkDuration      = 25 * 60
	DefaultBreakDuration     = 5 * 60
	DefaultLongBreakDuration = 15 * 60
	DefaultSessions          = 4
)

// Settings store keys. Duration values are persisted as whole minutes.
const (
	KeyWork      = "pomodoro_work"
	KeyBreak     = "pomodoro_break"
	KeyLongBreak = "pomodoro_long_break"
	KeySessions  = "pomodoro_sessions"
)

// Settings holds the timer durations in seconds and the number of work
// phases completed before a long break. An engine takes an immutable
// snapshot; changing settings replaces the snapshot wholesale.
type Settings struct {
	WorkDuration            int
	BreakDuration           int
	LongBreakDuration       int
	SessionsBeforeLongBreak int
}

// DefaultSettings returns the documented defaults: 25/5/15 minutes, 4
// sessions before a long break.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:            DefaultWorkDuration,
		BreakDuration:           DefaultBreakDuration,
		LongBreakDuration:       DefaultLongBreakDuration,
		SessionsBeforeLongBreak: DefaultSessions,
	}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
// The engine accepts whatever positive values it is given; range checks
// belong to the UI.
type SettingsPatch struct {
	WorkDuration            *int
	BreakDuration           *int
	LongBreakDuration       *int
	SessionsBeforeLongBreak *int
}

func (s Settings) merge(p SettingsPatch) Settings {
	if p.WorkDuration != nil {
		s.WorkDuration = *p.WorkDuration
	}
	if p.BreakDuration != nil {
		s.BreakDuration = *p.BreakDuration
	}
	if p.LongBreakDuration != nil {
		s.LongBreakDuration = *p.LongBreakDuration
	}
	if p.SessionsBeforeLongBreak != nil {
		s.SessionsBeforeLongBreak = *p.SessionsBeforeLongBreak
	}
	return s
}

// Store is the key-value persistence surface for settings. *store.Store
// satisfies it.
type Store interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// LoadSettings reads settings from st. Stored durations are whole minutes
// and converted to seconds here. A missing, malformed, or non-positive value
// falls back to the default for that field; corruption is treated as absence.
func LoadSettings(st Store) Settings {
	s := DefaultSettings()
	s.WorkDuration = loadMinutes(st, KeyWork, s.WorkDuration)
	s.BreakDuration = loadMinutes(st, KeyBreak, s.BreakDuration)
	s.LongBreakDuration = loadMinutes(st, KeyLongBreak, s.LongBreakDuration)
	s.SessionsBeforeLongBreak = loadCount(st, KeySessions, s.SessionsBeforeLongBreak)
	return s
}

// SaveSettings writes s to st, durations as whole minutes. Failures are
// logged and reported but must not abort timer operation; in-memory state
// stays authoritative either way.
func SaveSettings(st Store, s Settings) error {
	var firstErr error
	put := func(key string, value int) {
		if err := st.SetSetting(key, strconv.Itoa(value)); err != nil {
			logging.Warnf("save setting %s: %v", key, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	put(KeyWork, s.WorkDuration/60)
	put(KeyBreak, s.BreakDuration/60)
	put(KeyLongBreak, s.LongBreakDuration/60)
	put(KeySessions, s.SessionsBeforeLongBreak)
	return firstErr
}

func loadMinutes(st Store, key string, fallback int) int {
	n, ok := loadPositive(st, key)
	if !ok {
		return fallback
	}
	return n * 60
}

func loadCount(st Store, key string, fallback int) int {
	n, ok := loadPositive(st, key)
	if !ok {
		return fallback
	}
	return n
}

func loadPositive(st Store, key string) (int, bool) {
	v, err := st.GetSetting(key)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		logging.Warnf("setting %s: unusable value %q, using default", key, v)
		return 0, false
	}
	return n, true
}
