package directive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// OptionValidator converts a raw option value into its typed form.
type OptionValidator func(raw string) (any, error)

// Flag accepts an option that carries no value.
func Flag(raw string) (any, error) {
	if strings.TrimSpace(raw) != "" {
		return nil, fmt.Errorf("no argument allowed, got %q", raw)
	}
	return true, nil
}

// PositiveInt accepts an integer greater than zero.
func PositiveInt(raw string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("integer required, got %q", raw)
	}
	if n < 1 {
		return nil, errors.New("positive integer required")
	}
	return n, nil
}

// Unchanged accepts any text as is.
func Unchanged(raw string) (any, error) {
	return raw, nil
}

// Option is a validated option value.
type Option struct {
	Name  string
	Value any
}

// Options holds validated options in the order they were written.
type Options []Option

// set appends or replaces name, keeping the first position.
func (o Options) set(name string, val any) Options {
	for i := range o {
		if o[i].Name == name {
			o[i].Value = val
			return o
		}
	}
	return append(o, Option{Name: name, Value: val})
}

// Lookup returns the value of name.
func (o Options) Lookup(name string) (any, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return nil, false
}

// Has reports whether name was supplied.
func (o Options) Has(name string) bool {
	_, ok := o.Lookup(name)
	return ok
}

// Int returns the integer value of name, or def when absent.
func (o Options) Int(name string, def int) int {
	if v, ok := o.Lookup(name); ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return def
}

// String returns the text value of name, or def when absent.
func (o Options) String(name, def string) string {
	if v, ok := o.Lookup(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}
