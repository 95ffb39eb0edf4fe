package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PresenceAction is one clock action recorded for a staff member
type PresenceAction string

const (
	PresenceLogin      PresenceAction = "login"
	PresenceLogout     PresenceAction = "logout"
	PresenceBreakStart PresenceAction = "break-start"
	PresenceBreakEnd   PresenceAction = "break-end"
)

func (a PresenceAction) String() string {
	return string(a)
}

// IsValid reports whether a is a known action
func (a PresenceAction) IsValid() bool {
	switch a {
	case PresenceLogin, PresenceLogout, PresenceBreakStart, PresenceBreakEnd:
		return true
	}
	return false
}

func (a *PresenceAction) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := PresenceAction(str)
	if !v.IsValid() {
		return fmt.Errorf("unknown presence action %q", str)
	}
	*a = v
	return nil
}

func (a PresenceAction) Value() (driver.Value, error) {
	return string(a), nil
}

func (a *PresenceAction) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*a = PresenceAction(v)
	case []byte:
		*a = PresenceAction(string(v))
	}
	return nil
}

// PresenceStatus is derived from the presence log; it is never stored
type PresenceStatus string

const (
	PresenceLoggedOut PresenceStatus = "logged-out"
	PresenceLoggedIn  PresenceStatus = "logged-in"
	PresenceOnBreak   PresenceStatus = "on-break"
)

func (s PresenceStatus) String() string {
	return string(s)
}
