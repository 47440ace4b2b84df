package prefs

import (
	"errors"
	"fmt"
)

// StorageKey is the key the preference record is persisted under.
const StorageKey = "app-preferences"

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Language is the UI locale.
type Language string

const (
	LanguagePtBR Language = "pt-BR"
	LanguageEnUS Language = "en-US"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguagePtBR || l == LanguageEnUS
}

var (
	ErrInvalidTheme    = errors.New("prefs: invalid theme")
	ErrInvalidLanguage = errors.New("prefs: invalid language")
)

// ParseTheme validates s as a Theme.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidTheme, s, ThemeLight, ThemeDark)
	}
	return t, nil
}

// ParseLanguage validates s as a Language.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidLanguage, s, LanguagePtBR, LanguageEnUS)
	}
	return l, nil
}

// State is the full persisted preference record.
type State struct {
	Theme               Theme    `json:"theme" yaml:"theme"`
	Language            Language `json:"language" yaml:"language"`
	OnboardingCompleted bool     `json:"onboardingCompleted" yaml:"onboarding_completed"`
}

// Preferences is the user-facing subset of State.
type Preferences struct {
	Theme    Theme    `json:"theme" yaml:"theme"`
	Language Language `json:"language" yaml:"language"`
}

// DefaultState is the record a fresh install starts with.
func DefaultState() State {
	return State{
		Theme:    ThemeLight,
		Language: LanguagePtBR,
	}
}

// Preferences returns the user-facing view of s.
func (s State) Preferences() Preferences {
	return Preferences{Theme: s.Theme, Language: s.Language}
}

// envelope is the persisted wire format: the state plus a schema version.
type envelope struct {
	State   snapshot `json:"state"`
	Version int      `json:"version"`
}

// snapshot decodes a persisted state where any field may be missing.
// Missing fields keep their current value.
type snapshot struct {
	Theme               *Theme    `json:"theme,omitempty"`
	Language            *Language `json:"language,omitempty"`
	OnboardingCompleted *bool     `json:"onboardingCompleted,omitempty"`
}

const schemaVersion = 0

func newEnvelope(s State) envelope {
	return envelope{
		State: snapshot{
			Theme:               &s.Theme,
			Language:            &s.Language,
			OnboardingCompleted: &s.OnboardingCompleted,
		},
		Version: schemaVersion,
	}
}

// mergeInto overlays the snapshot onto base.
func (p snapshot) mergeInto(base State) (State, error) {
	if p.Theme != nil {
		if !p.Theme.Valid() {
			return base, fmt.Errorf("%w: %q", ErrInvalidTheme, *p.Theme)
		}
		base.Theme = *p.Theme
	}
	if p.Language != nil {
		if !p.Language.Valid() {
			return base, fmt.Errorf("%w: %q", ErrInvalidLanguage, *p.Language)
		}
		base.Language = *p.Language
	}
	if p.OnboardingCompleted != nil {
		base.OnboardingCompleted = *p.OnboardingCompleted
	}
	return base, nil
}
