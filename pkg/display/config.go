// Package display holds presentation state shared by views: the romaji
// toggle and the Joyo/Jinmeiyo membership tables.
package display

import (
	"sync"

	"github.com/japaniel/kanjikai/pkg/kana"
)

// Config is the display configuration. It is created once at startup,
// changed only by ToggleRomaji/SetRomaji, and read by any number of views.
type Config struct {
	mu     sync.RWMutex
	romaji bool
}

// NewConfig returns a Config with the initial romaji setting.
func NewConfig(romaji bool) *Config {
	return &Config{romaji: romaji}
}

// IsRomaji reports whether readings render romanized.
func (c *Config) IsRomaji() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.romaji
}

// SetRomaji sets the romaji toggle.
func (c *Config) SetRomaji(on bool) {
	c.mu.Lock()
	c.romaji = on
	c.mu.Unlock()
}

// ToggleRomaji flips the toggle and returns the new value.
func (c *Config) ToggleRomaji() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.romaji = !c.romaji
	return c.romaji
}

// FormatReading renders a reading according to the current toggle.
func (c *Config) FormatReading(reading string) string {
	return kana.FormatReading(reading, c.IsRomaji())
}
