package server

// thinkModeSuffix asks the model to wrap its reasoning in think tags, which
// the client's parser later splits off.
const thinkModeSuffix = "\n\nPlease think step by step. First, analyze the question carefully. " +
	"Then, break down your reasoning process explicitly, showing your work as you arrive at the answer. " +
	"Consider different angles and explain your thought process in detail.\n\n" +
	"Wrap your thinking process in <think> and </think> tags. After your thinking process, " +
	"provide a clear, concise final answer without the tags."

// systemMessage selects the system prompt for an advisor. Advisors without a
// dedicated prompt fall back to the generic assistant.
func systemMessage(advisorID string, thinkMode bool) string {
	prompt := "You are a helpful AI assistant."

	switch advisorID {
	case "document-analyzer":
		prompt = "You are an expert document analyzer. You help users understand and extract information from documents."
	case "personalize":
		prompt = "You are a personalized AI assistant that adapts to the user's preferences and needs."
	case "ask-controllers":
		prompt = "You are an accounting advisor. You help users understand the impact of transactions and products on audited financial statements under US GAAP."
	case "askcba":
		prompt = "You are a knowledge-based assistant for Budget, Administration, Procurement and Real Estate policies, procedures, and systems."
	case "blended-finance":
		prompt = "You are an advisor on blended finance: combining public and private funds to support development projects with high impact."
	case "business-risk":
		prompt = "You are a compliance advisor. You help users search and browse Business Risk and Compliance policies and procedures."
	}

	if thinkMode {
		prompt += thinkModeSuffix
	}
	return prompt
}
