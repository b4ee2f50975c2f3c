package transform

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const (
	screenshotKey = "screenshot"
	savedKey      = "screenshot_saved"
	stepsKey      = "step_results"
)

// Slot is a screenshot field located inside one DSL step result.
type Slot struct {
	// HolderPath is the gjson/sjson path of the object holding the field.
	HolderPath string
	Prefix     string
}

// NativeSlot addresses result.observations.native of step i.
func NativeSlot(i int) Slot {
	return Slot{HolderPath: fmt.Sprintf("%s.%d.result.observations.native", stepsKey, i), Prefix: "observe"}
}

// DebugSlot addresses debug of step i.
func DebugSlot(i int) Slot {
	return Slot{HolderPath: fmt.Sprintf("%s.%d.debug", stepsKey, i), Prefix: "debug"}
}

// Candidate returns the inline screenshot held by the slot. ok is false when
// the holder is not an object, the value is not a string or the field is
// already marked as saved.
func (s Slot) Candidate(body []byte) (value string, ok bool) {
	holder := gjson.GetBytes(body, s.HolderPath)
	if !holder.IsObject() {
		return "", false
	}
	shot := holder.Get(screenshotKey)
	if shot.Type != gjson.String || shot.Str == "" {
		return "", false
	}
	if truthy(holder.Get(savedKey)) {
		return "", false
	}
	return shot.Str, true
}

func (s Slot) screenshotPath() string { return s.HolderPath + "." + screenshotKey }

func (s Slot) savedPath() string { return s.HolderPath + "." + savedKey }

// truthy follows loose JSON truthiness: false, null, 0, "" and missing
// values are false; objects and arrays are true.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return false
	}
}
