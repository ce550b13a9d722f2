package ner

// responseSchema constrains the sidecar's /entities response. The sidecar is
// an external process; a shape drift should surface here, not as a zero-value
// record three stages later.
func responseSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"model": map[string]any{"type": "string"},
			"entities": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"label": map[string]any{
							"type": "string",
							"enum": []string{"PERSON", "DATE", "MONEY", "ORG", "PROVIDER", "GPE", "CARDINAL", "TIME", "QUANTITY", "ORDINAL", "PERCENT"},
						},
						"text": map[string]any{"type": "string", "minLength": 1},
					},
					"required": []string{"label", "text"},
				},
			},
		},
		"required": []string{"entities"},
	}
}
