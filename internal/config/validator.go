package config

import (
	"fmt"
	"strings"

	"github.com/TWRT/rtm2todoist/internal/logging"
)

type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate checks structure only. Credentials are checked by the command
// that needs them.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of debug, info, warn, error",
		})
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "http.timeout",
			Value:   c.HTTP.Timeout,
			Message: "must be positive",
		})
	}
	if c.Ledger.Enabled && c.Ledger.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "ledger.path",
			Value:   c.Ledger.Path,
			Message: "is required while the ledger is enabled",
		})
	}
	for _, id := range c.RoutingTable().ListIDs() {
		route := c.Routing[id]
		if route.ProjectID < 0 || route.SectionID < 0 {
			errs = append(errs, ValidationError{
				Field:   "routing." + id,
				Value:   fmt.Sprintf("project=%d section=%d", route.ProjectID, route.SectionID),
				Message: "ids cannot be negative",
			})
		}
	}

	return errs
}

// RequireSource reports missing RTM credentials. Exports need none.
func (c *Config) RequireSource() error {
	if c.UseExport() {
		return nil
	}
	return c.RequireRTM()
}

// RequireRTM reports missing RTM API credentials.
func (c *Config) RequireRTM() error {
	var missing []string
	if c.Credentials.RTMAPIKey == "" {
		missing = append(missing, "RTM_API_KEY")
	}
	if c.Credentials.RTMSecret == "" {
		missing = append(missing, "RTM_SECRET")
	}
	if c.Credentials.RTMToken == "" {
		missing = append(missing, "RTM_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing source credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) RequireDestination() error {
	if c.Credentials.TodoistAPIKey == "" {
		return fmt.Errorf("missing destination credentials: TODOIST_API_KEY")
	}
	return nil
}
