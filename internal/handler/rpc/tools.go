package rpc

// toolCatalog is the static tools/list payload.
var toolCatalog = []map[string]any{
	{
		"name":        "get_articles",
		"description": "Retrieve RECENT articles from a domain (max 15 days old). Uses 4-layer fallback (Official RSS -> RSSHub -> Google News -> Scraper). Returns newest first in reverse chronological order. Default: 10 articles from last 15 days.",
		"inputSchema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"domain": map[string]any{
					"type":        "string",
					"description": "The domain to fetch articles from (e.g., 'techcrunch.com')",
				},
				"topic": map[string]any{
					"type":        "string",
					"description": "Optional topic keyword to filter articles by title/summary",
				},
				"location": map[string]any{
					"type":        "string",
					"description": "Optional location keyword to filter articles",
				},
				"lastNDays": map[string]any{
					"type":        "integer",
					"description": "Days to look back (1-15, default: 15). For 'recent' news, capped at 15 days max",
					"minimum":     1,
					"maximum":     15,
					"default":     15,
				},
				"count": map[string]any{
					"type":        "integer",
					"description": "Number of articles to return (default: 10 when user says 'recent/top/latest' without number)",
					"minimum":     1,
					"maximum":     50,
					"default":     10,
				},
				"fast_mode": map[string]any{
					"type":        "boolean",
					"description": "Skip to Google News directly (faster but may miss some articles)",
					"default":     false,
				},
			},
			"required": []string{"domain"},
		},
	},
	{
		"name":        "health_check",
		"description": "Check server health and list configured domains",
		"inputSchema": map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	},
	{
		"name":        "get_metrics",
		"description": "Get detailed server metrics for monitoring and observability",
		"inputSchema": map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	},
	{
		"name":        "get_top_news",
		"description": "Aggregate top RECENT news from ALL configured domains. Returns newest first. Default: 8 articles from last 15 days across all priority sites.",
		"inputSchema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"count": map[string]any{
					"type":        "integer",
					"description": "Number of articles to return (default: 8, max: 50)",
					"default":     8,
					"minimum":     1,
					"maximum":     50,
				},
				"topic": map[string]any{
					"type":        "string",
					"description": "Optional topic keyword to filter articles",
				},
				"location": map[string]any{
					"type":        "string",
					"description": "Optional location keyword to filter articles",
				},
				"lastNDays": map[string]any{
					"type":        "integer",
					"description": "Days to look back (1-15, default: 15). Capped at 15 for recent news",
					"default":     15,
					"minimum":     1,
					"maximum":     15,
				},
			},
			"required": []string{},
		},
	},
}
