package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/invopop/jsonschema"

	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/kiosk404/echosql/internal/llm/domain/entity"
)

// StructuredCall invokes chatModel once, asking it to return JSON
// conforming to target's shape, and unmarshals the response into target.
// target must be a non-nil pointer.
//
// This is the "single call(structured_schema, messages) → structured_value"
// contract: provider SDKs differ in how (or whether) they enforce a JSON
// schema server-side, so that enforcement is treated as best-effort and a
// local unmarshal is the final authority — a response that isn't valid
// JSON for target's shape is reported as ErrLLMSchemaViolation rather than
// silently accepted.
func StructuredCall(ctx context.Context, chatModel model.BaseChatModel, messages []*schema.Message, target interface{}) (*schema.Message, error) {
	schemaText, err := schemaInstruction(target)
	if err != nil {
		return nil, fmt.Errorf("build schema instruction: %w", err)
	}

	augmented := make([]*schema.Message, 0, len(messages)+1)
	augmented = append(augmented, &schema.Message{
		Role:    schema.System,
		Content: "Respond with a single JSON object matching this schema, no prose, no markdown fences:\n" + schemaText,
	})
	augmented = append(augmented, messages...)

	resp, err := chatModel.Generate(ctx, augmented)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrLLMProviderUnavailable, err)
	}

	content := stripCodeFence(resp.Content)
	if err := json.Unmarshal([]byte(content), target); err != nil {
		return resp, fmt.Errorf("%w: %v", errno.ErrLLMSchemaViolation, err)
	}
	return resp, nil
}

// schemaInstruction renders target's type as a JSON Schema document via
// reflection. Nothing is cached: a fresh Reflector per call keeps this
// stateless and safe across concurrent requests with different target
// shapes.
func schemaInstruction(target interface{}) (string, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		RequiredFromJSONSchemaTags: false,
	}
	s := reflector.Reflect(target)
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// stripCodeFence removes a leading/trailing ``` fence some providers emit
// around JSON output even when asked not to.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// ResponseFormatForStructured returns the LLM params response format that
// requests JSON-mode output where the provider supports it, reducing how
// often StructuredCall needs to fall back to fence-stripping.
func ResponseFormatForStructured() entity.ModelResponseFormat {
	return entity.ModelResponseFormatJSON
}
