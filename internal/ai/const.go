package ai

const (
	ProviderOpenai = "openai-compatible"

	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"

	ContentTypeText     = "text"
	ContentTypeImageURL = "image_url"
	ContentTypeFile     = "file"

	sharedConversationKey = "shared"
	anonymousKey          = "anonymous"
)
