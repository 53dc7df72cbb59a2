package storage

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// stateShape describes what a stored application may look like. Partial
// applications are saved on every keystroke, so nothing is required; only
// types are checked.
const stateShape = `{
  "type": "object",
  "required": ["personalInfo", "experience"],
  "properties": {
    "personalInfo": {
      "type": "object",
      "properties": {
        "fullName":     {"type": "string"},
        "email":        {"type": "string"},
        "phone":        {"type": "string"},
        "portfolioUrl": {"type": "string"}
      }
    },
    "experience": {
      "type": "object",
      "properties": {
        "currentRole":       {"type": "string"},
        "yearsOfExperience": {"type": "integer"},
        "skills":            {"type": ["array", "null"], "items": {"type": "string"}},
        "company":           {"type": "string"}
      }
    }
  }
}`

var shapeSchema = mustCompile(stateShape)

func mustCompile(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("storage: invalid state schema: %v", err))
	}
	return s
}

// checkShape validates a serialized state against stateShape.
func checkShape(doc string) error {
	result, err := shapeSchema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("stored data does not match schema: %s", strings.Join(errs, "; "))
	}
	return nil
}
