package console

// HistoryConfig holds all history-related configuration.
//
// History lives in memory only. Entries are recorded on every submit and
// navigated with the Up and Down keys while a prompt is open.
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`    // Enable/disable history functionality
	MaxEntries int  `yaml:"maxEntries"` // Maximum number of entries to keep (default: 1000)
	Wrap       bool `yaml:"wrap"`       // Wrap around at either end instead of stopping
}

// DefaultHistoryConfig returns a default history configuration.
func DefaultHistoryConfig() *HistoryConfig {
	return &HistoryConfig{
		Enabled:    true,
		MaxEntries: 1000, // Default memory limit
	}
}

// History is a bounded, ordered buffer of past submissions with a
// navigation cursor.
//
// The cursor ranges over [0, Len()]. Len() is the "draft" position: the line
// the user was typing before navigating. Moving back to the draft restores
// that text.
type History struct {
	config  HistoryConfig
	entries []string
	cursor  int
	draft   string
}

// NewHistory creates a history buffer with the given configuration.
func NewHistory(config *HistoryConfig) *History {
	if config == nil {
		config = DefaultHistoryConfig()
	}
	c := *config
	if c.MaxEntries <= 0 {
		c.MaxEntries = 1000
	}
	return &History{
		config:  c,
		entries: make([]string, 0),
	}
}

// IsEnabled returns whether history functionality is enabled
func (h *History) IsEnabled() bool {
	return h.config.Enabled
}

// Add records a submission. Empty entries and consecutive duplicates are
// skipped; the oldest entries are dropped once MaxEntries is exceeded.
// The cursor is reset to the draft position.
func (h *History) Add(entry string) {
	defer h.Reset()
	if !h.config.Enabled || entry == "" {
		return
	}

	// Avoid duplicate consecutive entries
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		return
	}

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.config.MaxEntries {
		h.entries = h.entries[len(h.entries)-h.config.MaxEntries:]
	}
}

// Prev moves the cursor one entry back and returns it. current is the text on
// the input line; it is remembered as the draft when leaving the draft
// position. ok is false when there is nothing to move to.
func (h *History) Prev(current string) (entry string, ok bool) {
	if !h.config.Enabled || len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	switch {
	case h.cursor > 0:
		h.cursor--
	case h.config.Wrap:
		h.cursor = len(h.entries)
		return h.draft, true
	default:
		return "", false
	}
	return h.entries[h.cursor], true
}

// Next moves the cursor one entry forward. Moving past the newest entry
// returns the draft.
func (h *History) Next() (entry string, ok bool) {
	if !h.config.Enabled || len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor < len(h.entries)-1:
		h.cursor++
		return h.entries[h.cursor], true
	case h.cursor == len(h.entries)-1:
		h.cursor++
		return h.draft, true
	case h.config.Wrap:
		h.cursor = 0
		return h.entries[0], true
	default:
		return "", false
	}
}

// Reset moves the cursor back to the draft position and forgets the draft.
func (h *History) Reset() {
	h.cursor = len(h.entries)
	h.draft = ""
}

// Entries returns a copy of the recorded entries, oldest first.
func (h *History) Entries() []string {
	if !h.config.Enabled {
		return []string{}
	}
	return append([]string{}, h.entries...)
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Set replaces the recorded entries, keeping at most MaxEntries.
func (h *History) Set(entries []string) {
	if !h.config.Enabled {
		return
	}
	h.entries = append([]string{}, entries...)
	if len(h.entries) > h.config.MaxEntries {
		h.entries = h.entries[len(h.entries)-h.config.MaxEntries:]
	}
	h.Reset()
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = []string{}
	h.Reset()
}
