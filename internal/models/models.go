package models

// ChatMessage is one turn of the conversation, OpenAI-style.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatReply is the success response of POST /api/chat.
type ChatReply struct {
	Reply string `json:"reply"`
}

// ChatError is the failure response shape for every endpoint.
type ChatError struct {
	Error string `json:"error"`
}

// StatsData summarizes the loaded listing table for GET /api/stats.
type StatsData struct {
	TotalListings int             `json:"total_listings"`
	ByCity        []DimensionStat `json:"by_city"`
	ByType        []DimensionStat `json:"by_property_type"`
}

// DimensionStat is one bucket of the stats aggregation.
type DimensionStat struct {
	Name         string  `json:"name"`
	Listings     int     `json:"listings"`
	AvgListPrice float64 `json:"avg_list_price,omitempty"`
}

// Health is the GET /healthz response.
type Health struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}
