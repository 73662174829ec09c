package queryflow

import (
	"testing"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestRenderExamples_Empty(t *testing.T) {
	assert.Equal(t, "none", renderExamples(nil))
}

func TestRenderExamples(t *testing.T) {
	out := renderExamples([]entity.QueryExample{
		{Description: "top customers by spend", SQL: "SELECT 1", Tables: []string{"public.orders", "public.customers"}},
	})
	assert.Contains(t, out, "top customers by spend")
	assert.Contains(t, out, "public.orders, public.customers")
	assert.Contains(t, out, "SELECT 1")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Equal(t, "none", renderHistory(nil, nil))
}

func TestRenderHistory(t *testing.T) {
	turns := []*entity.Turn{
		entity.NewUserTurn("req-1", "show me revenue"),
		entity.NewAssistantTurn("req-1", "SELECT revenue FROM sales"),
	}
	out := renderHistory(turns, []string{"declared column foo is missing"})
	assert.Contains(t, out, "user: show me revenue")
	assert.Contains(t, out, "assistant: SELECT revenue FROM sales")
	assert.Contains(t, out, "system: declared column foo is missing")
}
