package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// GenerateSchema generates a JSON schema for the analysis configuration.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(c)
	schema.Title = "stock-analysis-config"
	schema.Description = "Configuration schema for the stock screening and backtest tool"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates an indented JSON schema string for the
// analysis configuration.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal config schema", err)
	}

	return string(schemaBytes), nil
}
