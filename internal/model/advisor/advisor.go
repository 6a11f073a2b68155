package advisor

// Advisor captures a domain persona exposed to the client for selection.
// The engine treats the identifier as an opaque partition key; prompt
// behavior belongs to the backend.
type Advisor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Seed provides the default ChatERP advisor catalog.
func Seed() []Advisor {
	return []Advisor{
		{
			ID:          "general",
			Name:        "General Assistant",
			Description: "ChatERP - General doesn't generate IFC information and can be used for general purpose only. It protects IFC and client information.",
			Icon:        "🌐",
		},
		{
			ID:          "document-analyzer",
			Name:        "Document Analyzer",
			Description: "The Document Analyzer can help you save significant time by automatically analyzing long and complex documents for you.",
			Icon:        "📄",
		},
		{
			ID:          "ask-controllers",
			Name:        "Ask Controllers",
			Description: "This advisor helps to understand the general impact of transactions/products on IFC's audited financial statements under generally accepted accounting principles (US GAAP).",
			Icon:        "🔍",
		},
		{
			ID:          "askcba",
			Name:        "AskCBA",
			Description: `"AskCBA" is CBA's knowledge-based Chatbot, which will assist you with queries related to Budget, Administration, Procurement and Real Estate policies, procedures, and systems.`,
			Icon:        "💼",
		},
		{
			ID:          "blended-finance",
			Name:        "Blended Finance",
			Description: "This advisor helps to understand the world of blended finance. Blended finance combines public and private funds to support development projects with high impact.",
			Icon:        "💰",
		},
		{
			ID:          "business-risk",
			Name:        "Business Risk Compliance Manual",
			Description: "Try the Compliance Manual to quickly and easily search and browse Business Risk and Compliance (BRC) policies and procedures.",
			Icon:        "📊",
		},
		{
			ID:          "personalize",
			Name:        "Personalized Assistant",
			Description: "Adapts to your specific needs and remembers your preferences.",
			Icon:        "👤",
		},
	}
}
