package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed schemas/user.json
	userSchemaJSON string
	//go:embed schemas/task.json
	taskSchemaJSON string
	//go:embed schemas/session.json
	sessionSchemaJSON string

	userSchema    = jsonschema.MustCompileString("user.json", userSchemaJSON)
	taskSchema    = jsonschema.MustCompileString("task.json", taskSchemaJSON)
	sessionSchema = jsonschema.MustCompileString("session.json", sessionSchemaJSON)
)

// validateRaw checks one JSON document against schema. On failure the
// returned error lists every leaf violation.
func validateRaw(schema *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return errors.Join(leafErrors(ve)...)
		}
		return err
	}
	return nil
}

func leafErrors(ve *jsonschema.ValidationError) []error {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []error{fmt.Errorf("%s: %s", loc, ve.Message)}
	}
	var out []error
	for _, c := range ve.Causes {
		out = append(out, leafErrors(c)...)
	}
	return out
}
