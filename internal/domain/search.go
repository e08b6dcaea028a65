package domain

// Vertical is the top-level search category of a query
type Vertical string

const (
	VerticalEcommerce Vertical = "ECOMMERCE"
	VerticalFlight    Vertical = "FLIGHT"
	VerticalHotel     Vertical = "HOTEL"
)

// Classification is the result of routing a free-text query to a vertical
type Classification struct {
	Vertical        Vertical       `json:"vertical"`
	Confidence      float64        `json:"confidence"` // always within [0,1]
	ExtractedParams map[string]any `json:"extractedParams,omitempty"`
}

// SearchRequest represents an incoming search
type SearchRequest struct {
	Query  string `json:"query" binding:"required"`
	UserID string `json:"userId,omitempty"`
}

// IsAnonymous reports whether the request carries no usable user identity
func (r *SearchRequest) IsAnonymous() bool {
	return IsAnonymousUser(r.UserID)
}

// IsAnonymousUser reports whether a caller-supplied user id is a placeholder
func IsAnonymousUser(userID string) bool {
	return userID == "" || userID == "guest" || userID == "anonymous"
}

// FormField describes one input the caller must render to complete a clarification
type FormField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// Clarification asks the caller for the parameters the classifier could not extract
type Clarification struct {
	RequiresInput   bool           `json:"requiresInput"`
	Vertical        Vertical       `json:"vertical"`
	Message         string         `json:"message"`
	MissingParams   []string       `json:"missingParams"`
	ExtractedParams map[string]any `json:"extractedParams"`
	FormFields      []FormField    `json:"formFields"`
}

// SearchResponse is the outcome of a pipeline run. Exactly one of Comparison,
// Clarification or Placeholder is set.
type SearchResponse struct {
	Classification Classification
	Comparison     *ComparisonSummary
	Sources        []SourceReport
	Clarification  *Clarification
	Placeholder    string
}

// DefaultInteractionAction is recorded when a tracking request names no action
const DefaultInteractionAction = "CLICK"

// TrackRequest represents a user acting on a listing
type TrackRequest struct {
	UserID      string  `json:"userId,omitempty"`
	ProductName string  `json:"productName" binding:"required"`
	Vendor      string  `json:"vendor" binding:"required"`
	Price       float64 `json:"price"`
	Action      string  `json:"action,omitempty"`
}
