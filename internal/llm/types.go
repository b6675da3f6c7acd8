package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
	// Schema constrains a JSON response. Implies JSONMode.
	Schema     *Schema
	SchemaName string
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// ImageRequest asks a provider to render a single image from a prompt.
type ImageRequest struct {
	Model  string
	Prompt string
}

// Image is one generated image. Exactly one of Data or URL is set.
type Image struct {
	MIMEType string
	Data     []byte
	URL      string
}

// ImageResponse contains the images a provider returned, possibly none.
type ImageResponse struct {
	Images []Image
	Model  string
}
