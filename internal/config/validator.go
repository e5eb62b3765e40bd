package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/idilsaglam/todoboard/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // config key, e.g. "board.page_size"
	Value   any
	Message string
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
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

// ValidThemes returns the theme names the ui package knows.
func ValidThemes() []string {
	return []string{"classic", "neon", "mono"}
}

// ValidStores returns the storage backends of the dev server.
func ValidStores() []string {
	return []string{"memory", "file", "redis"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateAPI()...)
	errs = append(errs, c.validateBoard()...)
	errs = append(errs, c.validateTUI()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateServer()...)
	return errs
}

func (c *Config) validateAPI() []ValidationError {
	var errs []ValidationError
	check := func(field, raw string, required bool) {
		if strings.TrimSpace(raw) == "" {
			if required {
				errs = append(errs, ValidationError{Field: field, Value: raw, Message: "must not be empty"})
			}
			return
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{Field: field, Value: raw, Message: "must be an absolute http(s) URL"})
		}
	}
	check("api.base_url", c.API.BaseURL, true)
	check("api.list_url", c.API.ListURL, false)
	check("api.create_url", c.API.CreateURL, false)
	check("api.update_url", c.API.UpdateURL, false)
	check("api.delete_url", c.API.DeleteURL, false)
	return errs
}

func (c *Config) validateBoard() []ValidationError {
	var errs []ValidationError
	b := c.Board
	if len(b.PageSizeOptions) == 0 {
		errs = append(errs, ValidationError{Field: "board.page_size_options", Value: b.PageSizeOptions, Message: "must list at least one size"})
	}
	for _, n := range b.PageSizeOptions {
		if n <= 0 {
			errs = append(errs, ValidationError{Field: "board.page_size_options", Value: n, Message: "sizes must be positive"})
			break
		}
	}
	if len(b.PageSizeOptions) > 0 && !slices.Contains(b.PageSizeOptions, b.PageSize) {
		errs = append(errs, ValidationError{Field: "board.page_size", Value: b.PageSize, Message: fmt.Sprintf("must be one of %v", b.PageSizeOptions)})
	}
	if b.TotalEstimate <= 0 {
		errs = append(errs, ValidationError{Field: "board.total_estimate", Value: b.TotalEstimate, Message: "must be positive"})
	}
	if b.ToastDurationMs < 0 {
		errs = append(errs, ValidationError{Field: "board.toast_duration_ms", Value: b.ToastDurationMs, Message: "must not be negative"})
	}
	return errs
}

func (c *Config) validateTUI() []ValidationError {
	var errs []ValidationError
	if !slices.Contains(ValidThemes(), strings.ToLower(c.TUI.Theme)) {
		errs = append(errs, ValidationError{Field: "tui.theme", Value: c.TUI.Theme, Message: fmt.Sprintf("must be one of %v", ValidThemes())})
	}
	if c.TUI.SkeletonRows < 0 || c.TUI.SkeletonRows > 50 {
		errs = append(errs, ValidationError{Field: "tui.skeleton_rows", Value: c.TUI.SkeletonRows, Message: "must be between 0 and 50"})
	}
	return errs
}

func (c *Config) validateLogging() []ValidationError {
	if !logging.ValidLevel(c.Logging.Level) {
		return []ValidationError{{Field: "logging.level", Value: c.Logging.Level, Message: "must be one of debug, info, warn, error"}}
	}
	return nil
}

func (c *Config) validateServer() []ValidationError {
	var errs []ValidationError
	s := c.Server
	if !slices.Contains(ValidStores(), s.Store) {
		errs = append(errs, ValidationError{Field: "server.store", Value: s.Store, Message: fmt.Sprintf("must be one of %v", ValidStores())})
	}
	if s.Store == "file" && strings.TrimSpace(s.File) == "" {
		errs = append(errs, ValidationError{Field: "server.file", Value: s.File, Message: "required when server.store is file"})
	}
	if s.Store == "redis" && strings.TrimSpace(s.RedisAddr) == "" {
		errs = append(errs, ValidationError{Field: "server.redis_addr", Value: s.RedisAddr, Message: "required when server.store is redis"})
	}
	if s.Seed < 0 {
		errs = append(errs, ValidationError{Field: "server.seed", Value: s.Seed, Message: "must not be negative"})
	}
	return errs
}
