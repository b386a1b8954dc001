package tagutil

import "strings"

// JSONTag holds the parts of a json struct tag relevant for decoding.
type JSONTag struct {
	Name      string
	Explicit  bool
	Transient bool
}

// ParseJSONTag parses a json tag value; defaultName is used when the tag names nothing.
func ParseJSONTag(defaultName string, raw string) JSONTag {
	if raw == "" {
		return JSONTag{Name: defaultName}
	}
	parts := strings.Split(raw, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return JSONTag{Name: defaultName, Transient: true}
	}
	tag := JSONTag{Name: parts[0], Explicit: parts[0] != ""}
	if tag.Name == "" {
		tag.Name = defaultName
	}
	return tag
}
