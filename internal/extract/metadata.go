package extract

import (
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata splits trailing inline YAML metadata off a text.
//
// If the text ends with '}', every '{' is tried from the left and the
// remainder decoded as a YAML mapping; the first suffix that is exactly one
// mapping becomes the data and is cut from the text. Text without a decodable suffix is
// returned unchanged with nil data.
func Metadata(text string) (string, map[string]any) {
	if !strings.HasSuffix(strings.TrimRight(text, " \t\r\n"), "}") {
		return text, nil
	}
	for idx := strings.IndexByte(text, '{'); idx >= 0; {
		if data, ok := decodeMapping(text[idx:]); ok {
			return strings.TrimRight(text[:idx], " \t\r\n"), data
		}
		next := strings.IndexByte(text[idx+1:], '{')
		if next < 0 {
			break
		}
		idx += next + 1
	}
	return text, nil
}

// decodeMapping accepts s only when it holds a single YAML mapping and
// nothing after it.
func decodeMapping(s string) (map[string]any, bool) {
	dec := yaml.NewDecoder(strings.NewReader(s))
	var data map[string]any
	if err := dec.Decode(&data); err != nil || data == nil {
		return nil, false
	}
	var rest any
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return data, true
}
