package systemd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrInvalidUnitFile is wrapped when unit file text does not parse.
var ErrInvalidUnitFile = errors.New("invalid unit file")

// UnitFile is one file from `systemctl cat` output.
type UnitFile struct {
	Path    string
	Content string
}

var unitLoadOptions = ini.LoadOptions{
	AllowShadows:            true,
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
}

// ParseUnitFile parses unit file text. Repeated keys are kept as shadows.
func ParseUnitFile(content string) (*ini.File, error) {
	file, err := ini.LoadSources(unitLoadOptions, []byte(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUnitFile, err)
	}
	return file, nil
}

// ValidateUnitFile checks that content is well formed: it parses, has at
// least one section, and places no assignment outside a section.
func ValidateUnitFile(content string) error {
	file, err := ParseUnitFile(content)
	if err != nil {
		return err
	}

	if keys := file.Section(ini.DefaultSection).KeyStrings(); len(keys) > 0 {
		return fmt.Errorf("%w: %q is outside of a section", ErrInvalidUnitFile, keys[0])
	}
	if len(file.SectionStrings()) <= 1 {
		return fmt.Errorf("%w: no sections", ErrInvalidUnitFile)
	}
	return nil
}

// Section renders a single section of the unit file text, merging the
// same section across the fragment and its drop-ins.
func Section(content, name string) (string, error) {
	file, err := ParseUnitFile(content)
	if err != nil {
		return "", err
	}

	sec, err := file.GetSection(name)
	if err != nil {
		return "", fmt.Errorf("section [%s] not found", name)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s]\n", sec.Name())
	for _, key := range sec.Keys() {
		for _, v := range key.ValueWithShadows() {
			fmt.Fprintf(&b, "%s=%s\n", key.Name(), v)
		}
	}
	return b.String(), nil
}

// SplitCat splits `systemctl cat` output into its files. Text before the
// first header is dropped. A header is a line holding only "# /absolute/path";
// after the first file it must follow the blank separator line and name a
// drop-in (".conf"), so path-like comments inside a file stay in its body.
func SplitCat(text string) []UnitFile {
	var files []UnitFile
	var current *UnitFile
	var body strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimRight(body.String(), "\n") + "\n"
		files = append(files, *current)
		body.Reset()
	}

	prevBlank := true
	for _, line := range strings.SplitAfter(text, "\n") {
		if path, ok := catHeaderPath(line); ok && prevBlank && (current == nil || strings.HasSuffix(path, ".conf")) {
			flush()
			current = &UnitFile{Path: path}
			prevBlank = false
			continue
		}
		if current != nil {
			body.WriteString(line)
		}
		prevBlank = strings.TrimSpace(line) == ""
	}
	flush()
	return files
}

func catHeaderPath(line string) (string, bool) {
	tokens := strings.Fields(line)
	if len(tokens) != 2 || tokens[0] != "#" || !strings.HasPrefix(tokens[1], "/") {
		return "", false
	}
	return tokens[1], true
}
