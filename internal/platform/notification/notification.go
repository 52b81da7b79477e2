// Package notification provides the short success/error messages shown after
// console actions, a catalog of their texts, and a recorder for tests.
package notification

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Notification Types
// ---------------------------------------------------------------------------

// Level tells whether a notification reports success or failure.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one message as delivered to a Notifier.
type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// Keys of the built-in messages.
const (
	UserRegistered     = "user-registered"
	UserRegisterFailed = "user-register-failed"
	UserUpdated        = "user-updated"
	UserUpdateFailed   = "user-update-failed"
	UserDeleted        = "user-deleted"
	UserDeleteFailed   = "user-delete-failed"
	AvailabilityAdded  = "availability-added"
	SlotOverlap        = "slot-overlap"
	SlotDeleted        = "slot-deleted"
	DayCleared         = "day-cleared"
)

// Catalog maps message keys to texts with {{key}} placeholders.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]string
}

// NewCatalog creates a Catalog with the built-in messages registered.
func NewCatalog() *Catalog {
	c := &Catalog{messages: make(map[string]string)}
	c.registerBuiltIn()
	return c
}

func (c *Catalog) registerBuiltIn() {
	builtIn := map[string]string{
		UserRegistered:     "User registered successfully!",
		UserRegisterFailed: "Failed to register user",
		UserUpdated:        "User updated successfully!",
		UserUpdateFailed:   "Failed to update user",
		UserDeleted:        "User deleted successfully",
		UserDeleteFailed:   "Failed to delete user",
		AvailabilityAdded:  "Availability added successfully!",
		SlotOverlap:        "Time slots cannot overlap",
		SlotDeleted:        "Time slot deleted",
		DayCleared:         "Removed all slots for {{day}}",
	}
	for k, v := range builtIn {
		c.Register(k, v)
	}
}

// Register adds or replaces a message.
func (c *Catalog) Register(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages[key] = text
}

// Render looks up key and performs {{name}} replacement using data.
// Placeholders absent from data are left as-is.
func (c *Catalog) Render(key string, data map[string]string) (string, error) {
	c.mu.RLock()
	text, ok := c.messages[key]
	c.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("message %q not found", key)
	}
	for k, v := range data {
		text = strings.ReplaceAll(text, "{{"+k+"}}", v)
	}
	return text, nil
}

// Text is Render for callers that know key exists. An unknown key renders as
// the key itself.
func (c *Catalog) Text(key string, data map[string]string) string {
	text, err := c.Render(key, data)
	if err != nil {
		return key
	}
	return text
}

// ---------------------------------------------------------------------------
// Console Notifier
// ---------------------------------------------------------------------------

// ConsoleNotifier prints "✓ msg" and "✗ msg" lines and logs each message.
type ConsoleNotifier struct {
	mu  sync.Mutex
	w   io.Writer
	log zerolog.Logger
}

func NewConsoleNotifier(w io.Writer, log zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{w: w, log: log.With().Str("component", "notification").Logger()}
}

func (n *ConsoleNotifier) Success(msg string) {
	n.write("✓", msg)
	n.log.Debug().Str("kind", string(LevelSuccess)).Msg(msg)
}

func (n *ConsoleNotifier) Error(msg string) {
	n.write("✗", msg)
	n.log.Debug().Str("kind", string(LevelError)).Msg(msg)
}

func (n *ConsoleNotifier) write(mark, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s %s\n", mark, msg)
}

// ---------------------------------------------------------------------------
// Recorder (test double)
// ---------------------------------------------------------------------------

// Recorder is a Notifier that keeps every message.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Level: level, Message: msg, CreatedAt: time.Now().UTC()})
}

// Notifications returns a copy of the recorded messages.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Last returns the most recent message and whether there was one.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

// Reset forgets every recorded message.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
