package models

// DefaultBaseURL is the SiliconFlow OpenAI-compatible endpoint
const DefaultBaseURL = "https://api.siliconflow.cn/v1"

// MaxCompletionTokens caps every completion request
const MaxCompletionTokens = 1024

// Model identifiers accepted by the provider
const (
	ModelDeepSeekV25  = "deepseek-ai/DeepSeek-V2.5"
	ModelDeepSeekV3   = "deepseek-ai/DeepSeek-V3"
	ModelQwen25       = "Qwen/Qwen2.5-72B-Instruct"
	ModelGLM4         = "THUDM/glm-4-9b-chat"
	ModelInternLM25   = "internlm/internlm2_5-20b-chat"
)

// DefaultModel is the recommended default
const DefaultModel = ModelDeepSeekV25

// AllModels returns the built-in model identifiers. The settings panel may
// extend this list with models discovered from the provider.
func AllModels() []string {
	return []string{
		ModelDeepSeekV25,
		ModelDeepSeekV3,
		ModelQwen25,
		ModelGLM4,
		ModelInternLM25,
	}
}

// IsKnownModel reports whether name is one of the built-in identifiers
func IsKnownModel(name string) bool {
	for _, m := range AllModels() {
		if m == name {
			return true
		}
	}
	return false
}
