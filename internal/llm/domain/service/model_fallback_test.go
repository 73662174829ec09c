package service

import (
	"context"
	"errors"
	"testing"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/stretchr/testify/require"

	"github.com/kiosk404/echosql/internal/llm/domain/entity"
	"github.com/kiosk404/echosql/internal/llm/store/inmemory"
)

// fakeJSONModeManager implements ModelManager with just enough behavior to
// drive RunWithFallback's candidate filtering: ResolveCompat reports a fixed
// SupportsJSONMode per provider, and BuildChatModel always fails so the test
// never needs a working eino BaseChatModel.
type fakeJSONModeManager struct {
	ModelManager
	compat map[string]*entity.ModelCompatConfig
}

func (f *fakeJSONModeManager) ResolveCompat(ctx context.Context, ref entity.ModelRef) (*entity.ModelCompatConfig, error) {
	return f.compat[ref.ProviderID], nil
}

func (f *fakeJSONModeManager) BuildChatModel(ctx context.Context, ref entity.ModelRef, params *entity.LLMParams) (einoModel.BaseChatModel, error) {
	return nil, errors.New("fake manager never builds a real chat model")
}

func boolPtr(b bool) *bool { return &b }

func noopRun(ctx context.Context, cm einoModel.BaseChatModel) (string, error) {
	return "", nil
}

func TestRunWithFallback_SkipsCandidatesWithoutJSONMode(t *testing.T) {
	anthropicRef := entity.ModelRef{ProviderID: "anthropic", ModelID: "claude"}
	openaiRef := entity.ModelRef{ProviderID: "openai", ModelID: "gpt"}

	manager := &fakeJSONModeManager{
		compat: map[string]*entity.ModelCompatConfig{
			"anthropic": {SupportsJSONMode: boolPtr(false)},
			"openai":    {SupportsJSONMode: boolPtr(true)},
		},
	}
	executor := NewFallbackExecutor(inmemory.NewModelStore(), manager)

	config := entity.FallbackConfig{
		Primary:         anthropicRef,
		Fallbacks:       []entity.ModelRef{openaiRef},
		RequireJSONMode: true,
	}

	result := RunWithFallback(context.Background(), executor, config, nil, noopRun, nil)

	require.Len(t, result.Attempts, 2)

	require.True(t, result.Attempts[0].Skipped)
	require.Equal(t, anthropicRef, result.Attempts[0].Ref)
	require.Equal(t, entity.FailoverReason_Format, result.Attempts[0].Reason)

	require.False(t, result.Attempts[1].Skipped)
	require.Equal(t, openaiRef, result.Attempts[1].Ref)
}

func TestRunWithFallback_JSONModeNotRequiredTriesEveryCandidate(t *testing.T) {
	anthropicRef := entity.ModelRef{ProviderID: "anthropic", ModelID: "claude"}
	manager := &fakeJSONModeManager{
		compat: map[string]*entity.ModelCompatConfig{
			"anthropic": {SupportsJSONMode: boolPtr(false)},
		},
	}
	executor := NewFallbackExecutor(inmemory.NewModelStore(), manager)

	config := entity.FallbackConfig{Primary: anthropicRef}

	result := RunWithFallback(context.Background(), executor, config, nil, noopRun, nil)

	require.Len(t, result.Attempts, 1)
	require.False(t, result.Attempts[0].Skipped)
}

func TestFallbackConfig_RequireJSONMode_UnresolvableCompatDefaultsToSupported(t *testing.T) {
	ref := entity.ModelRef{ProviderID: "unknown", ModelID: "m"}
	manager := &fakeJSONModeManager{compat: map[string]*entity.ModelCompatConfig{}}
	executor := NewFallbackExecutor(inmemory.NewModelStore(), manager)

	config := entity.FallbackConfig{Primary: ref, RequireJSONMode: true}

	result := RunWithFallback(context.Background(), executor, config, nil, noopRun, nil)

	require.Len(t, result.Attempts, 1)
	require.False(t, result.Attempts[0].Skipped)
}
