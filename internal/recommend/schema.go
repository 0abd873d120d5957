package recommend

// ResponseSchemaName is the schema identifier sent with structured-output
// requests.
const ResponseSchemaName = "FinanceRecommendation"

// ResponseSchema builds the JSON schema the model reply must conform to.
// Array bounds follow the limits the parser later enforces.
func ResponseSchema() map[string]any {
	stringSchema := map[string]any{"type": "string"}

	productSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"productId":           stringSchema,
			"headline":            stringSchema,
			"benefits":            map[string]any{"type": "array", "items": stringSchema, "minItems": 1},
			"caution":             stringSchema,
			"nextAction":          stringSchema,
			"minMonthlyAmount":    map[string]any{"type": "integer"},
			"maxMonthlyAmount":    map[string]any{"type": "integer"},
			"guardianRequired":    map[string]any{"type": "boolean"},
			"highlightCategories": map[string]any{"type": "array", "items": stringSchema},
			"digitalFriendly":     map[string]any{"type": "boolean"},
		},
		"required": []string{"productId"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": stringSchema,
			"insights": map[string]any{
				"type":     "array",
				"items":    stringSchema,
				"minItems": 1,
				"maxItems": 4,
			},
			"savings": map[string]any{
				"type":     "array",
				"items":    productSchema,
				"minItems": 1,
				"maxItems": 2,
			},
			"cards": map[string]any{
				"type":     "array",
				"items":    productSchema,
				"minItems": 1,
				"maxItems": 2,
			},
		},
		"required": []string{"summary", "insights", "savings", "cards"},
	}
}
