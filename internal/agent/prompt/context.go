package prompt

import (
	"fmt"
	"time"
)

// ContextOptions holds options for building message context
type ContextOptions struct {
	Now time.Time // zero means time.Now()
}

// BuildMessageContext prefixes the user's prompt with the current date so
// "recent" or "new releases" requests resolve against today
func BuildMessageContext(message string, opts ContextOptions) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return BuildDateInstruction(now) + "\n\n" + message
}

// BuildDateInstruction renders the date line
func BuildDateInstruction(now time.Time) string {
	return fmt.Sprintf("[Current date: %s]", now.Format("Monday, January 2, 2006"))
}
