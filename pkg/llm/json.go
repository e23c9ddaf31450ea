package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrNoJSON means a model reply carried no JSON value.
var ErrNoJSON = errors.New("no json in model reply")

// ExtractJSON pulls the JSON value out of a model reply, dropping markdown
// code fences and any prose around the outermost object or array.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// Schema is a compiled JSON schema for a model reply contract.
type Schema struct {
	schema *gojsonschema.Schema
}

// MustSchema compiles src and panics on a malformed schema.
func MustSchema(src string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("llm: compile schema: %v", err))
	}
	return &Schema{schema: s}
}

// Decode extracts JSON from raw, checks it against the schema and unmarshals it into v.
func (s *Schema) Decode(raw string, v any) error {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	res, err := s.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("parse model json: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("model json violates contract: %s", strings.Join(msgs, "; "))
	}
	return json.Unmarshal([]byte(doc), v)
}
