package graph

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID is the $id of the published graph schema.
const SchemaID = "https://jerusalem-70-ad.github.io/schema/transmission_graph.schema.json"

// Schema returns the JSON schema of TransmissionGraph as indented JSON.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := reflector.Reflect(&TransmissionGraph{})
	s.ID = jsonschema.ID(SchemaID)
	s.Title = "TransmissionGraph"
	s.Description = "Ancestors and descendants of one passage with layout positions."

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}
