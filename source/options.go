package source

import (
	"maps"
	"strconv"
	"strings"
)

// Options are free-form per-extraction settings such as credentials.
type Options map[string]string

// ParseOptions reads `key=value` pairs.
func ParseOptions(pairs []string) (Options, error) {
	opts := make(Options, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, &InvalidInputError{Field: "option", Reason: strconv.Quote(pair) + " is not key=value"}
		}
		opts[k] = strings.TrimSpace(v)
	}
	return opts, nil
}

// Get returns a non-empty value.
func (o Options) Get(key string) (string, bool) {
	v, ok := o[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// String returns the value of key, or fallback when it is unset or empty.
func (o Options) String(key, fallback string) string {
	if v, ok := o.Get(key); ok {
		return v
	}
	return fallback
}

// Bool parses the value of key, falling back on unset or malformed values.
func (o Options) Bool(key string, fallback bool) bool {
	v, ok := o.Get(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// Int parses the value of key as a decimal, falling back like Bool.
func (o Options) Int(key string, fallback int) int {
	v, ok := o.Get(key)
	if !ok {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

// Merge returns a new set where values of other take precedence.
func (o Options) Merge(other Options) Options {
	merged := maps.Clone(o)
	if merged == nil {
		merged = make(Options, len(other))
	}
	maps.Copy(merged, other)
	return merged
}
