// Package env reads typed settings from the process environment. Unset or
// unparsable values fall back to the given default.
package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func String(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func Int(key string, fallback int) int {
	if n, err := strconv.Atoi(String(key, "")); err == nil {
		return n
	}
	return fallback
}

func Bool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(String(key, "")); err == nil {
		return b
	}
	return fallback
}

func Duration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(String(key, "")); err == nil {
		return d
	}
	return fallback
}

// List splits a comma separated value and drops empty items.
func List(key string, fallback string) []string {
	var out []string
	for _, item := range strings.Split(String(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Problems collects configuration errors and reports them as one numbered error.
type Problems []string

func (p *Problems) Addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p Problems) Err(title string) error {
	if len(p) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString(":\n")
	for i, msg := range p {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, msg)
	}
	return fmt.Errorf("%s", b.String())
}
