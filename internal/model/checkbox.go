package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Checkbox is a boolean form field. Form bodies carry a browser checkbox's
// value ("on" by default) or a plain boolean; JSON bodies carry a boolean or
// the same strings.
type Checkbox bool

func (c *Checkbox) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "on", "true", "1", "yes":
		*c = true
	case "", "off", "false", "0", "no":
		*c = false
	default:
		return fmt.Errorf("invalid checkbox value %q", text)
	}
	return nil
}

func (c *Checkbox) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = Checkbox(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid checkbox value %s", data)
	}
	return c.UnmarshalText([]byte(s))
}
