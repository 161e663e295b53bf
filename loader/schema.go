package loader

import (
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// feedSchema describes the shape of a feed document. Value formats
// (UUID identifiers, image URI references) are checked while decoding.
var feedSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"items"},
	Properties: map[string]*jsonschema.Schema{
		"items": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"id", "image"},
				Properties: map[string]*jsonschema.Schema{
					"id":          {Type: "string"},
					"description": {Types: []string{"null", "string"}},
					"location":    {Types: []string{"null", "string"}},
					"image":       {Type: "string"},
				},
			},
		},
	},
}

var resolvedFeedSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	return feedSchema.Resolve(nil)
})
