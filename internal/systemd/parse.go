package systemd

import (
	"strings"

	"github.com/trly/servicedeck/internal/unit"
)

// showProperties is the property list requested from `systemctl show`.
const showProperties = "Id,LoadState,ActiveState,SubState,Description"

// ParseListUnits parses `systemctl list-units --no-legend --plain` output.
// Each line is "UNIT LOAD ACTIVE SUB DESCRIPTION...". Lines naming a unit but
// missing status columns become a not-found record; lines without a unit
// name are skipped.
func ParseListUnits(output string) []unit.Record {
	var records []unit.Record
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		// Some systemctl versions mark failed units with a bullet even in plain mode.
		if len(fields) > 0 && (fields[0] == "●" || fields[0] == "*") {
			fields = fields[1:]
		}
		if len(fields) == 0 || !strings.Contains(fields[0], ".") {
			continue
		}

		name := fields[0]
		if len(fields) < 4 {
			records = append(records, unit.NotFound(name))
			continue
		}

		records = append(records, unit.Record{
			Name:        name,
			Load:        unit.ParseLoadState(fields[1]),
			State:       unit.ParseState(fields[2]),
			SubState:    fields[3],
			Description: strings.Join(fields[4:], " "),
		})
	}
	return records
}

// ParseShow parses KEY=VALUE lines produced by `systemctl show`.
func ParseShow(raw string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		props[strings.TrimSpace(line[:idx])] = strings.TrimSpace(line[idx+1:])
	}
	return props
}

// recordFromProperties builds a record from show properties, falling back to
// name when the Id property is absent.
func recordFromProperties(name string, props map[string]string) unit.Record {
	id := props["Id"]
	if id == "" {
		id = name
	}
	return unit.Record{
		Name:        id,
		Load:        unit.ParseLoadState(props["LoadState"]),
		State:       unit.ParseState(props["ActiveState"]),
		SubState:    props["SubState"],
		Description: props["Description"],
	}
}

// ParseCatHeader extracts the file path from the first line of `systemctl cat`
// output ("# /etc/systemd/system/foo.service"). It reports false when the first
// line has fewer than two tokens.
func ParseCatHeader(text string) (string, bool) {
	first, _, _ := strings.Cut(text, "\n")
	tokens := strings.Fields(first)
	if len(tokens) < 2 {
		return "", false
	}
	return tokens[1], true
}
