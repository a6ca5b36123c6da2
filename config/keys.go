package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lixenwraith/teacup/terminal"
)

// KeyMap binds action names to key names: a single character, a named
// key ("enter", "ctrl+d", "f5") or either prefixed with "alt+"
type KeyMap map[string][]string

// Validate reports unknown key names
func (m KeyMap) Validate() error {
	var errs []error
	actions := make([]string, 0, len(m))
	for action := range m {
		actions = append(actions, action)
	}
	slices.Sort(actions)

	for _, action := range actions {
		for _, name := range m[action] {
			if !validKeyName(name) {
				errs = append(errs, fmt.Errorf("keys.%s: unknown key %q", action, name))
			}
		}
	}
	return errors.Join(errs...)
}

// Matches reports whether k is bound to action. Pasted text never matches.
func (m KeyMap) Matches(action string, k terminal.KeyEvent) bool {
	if k.Paste {
		return false
	}
	for _, name := range m[action] {
		if keyMatches(name, k) {
			return true
		}
	}
	return false
}

// Help renders the bindings of action as "q/esc"
func (m KeyMap) Help(action string) string {
	return strings.Join(m[action], "/")
}

func splitAlt(name string) (string, bool) {
	if rest, ok := strings.CutPrefix(name, "alt+"); ok && rest != "" {
		return rest, true
	}
	return name, false
}

func validKeyName(name string) bool {
	name, _ = splitAlt(name)
	if _, ok := terminal.KeyTypeByName(name); ok {
		return true
	}
	return utf8.RuneCountInString(name) == 1
}

func keyMatches(name string, k terminal.KeyEvent) bool {
	name, alt := splitAlt(name)
	if k.Alt != alt {
		return false
	}
	if kt, ok := terminal.KeyTypeByName(name); ok {
		return k.Type == kt
	}
	return k.Type == terminal.KeyRunes && string(k.Runes) == name
}
