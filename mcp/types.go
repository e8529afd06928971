package mcp

type SimilarInput struct {
	Term  string `json:"term"`
	Limit int    `json:"limit,omitempty"`
}

type SimilarTerm struct {
	Word     string  `json:"word"`
	Score    float64 `json:"score"`
	Category string  `json:"category,omitempty"`
}

type SimilarOutput struct {
	Term    string        `json:"term"`
	Results []SimilarTerm `json:"results"`
}

type LookupInput struct {
	Word string `json:"word"`
}

type LookupOutput struct {
	Word     string  `json:"word"`
	Found    bool    `json:"found"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score,omitempty"`
}

type CategoriesInput struct {
	TopWords int `json:"topWords,omitempty"`
}

type CategorySummary struct {
	Name     string   `json:"name"`
	Words    int      `json:"words"`
	TopWords []string `json:"topWords,omitempty"`
}

type CategoriesOutput struct {
	Categories []CategorySummary `json:"categories"`
}
