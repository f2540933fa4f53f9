package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"recipechef/internal/assembler"
	"recipechef/internal/domain"
)

func contextWith(text string) assembler.Context {
	return assembler.Context{Text: text, SourceDocuments: []string{"book.pdf"}}
}

func TestClassify(t *testing.T) {
	p := Default()
	prior := &domain.ConversationTurn{
		OfferedOptions: []string{"Chocolate Chip Cookies", "Lemon Drizzle Cake", "Banana Bread"},
	}

	tests := []struct {
		name     string
		question string
		ctx      assembler.Context
		prior    *domain.ConversationTurn
		want     Mode
	}{
		{
			name:     "named recipe request",
			question: "chocolate chip cookies",
			ctx:      contextWith("cookie dough instructions"),
			want:     ModeSpecificRequest,
		},
		{
			name:     "ingredient question offers options",
			question: "what can I make with chicken?",
			ctx:      contextWith("four chicken recipes"),
			want:     ModeOptionsOffered,
		},
		{
			name:     "suggestion request offers options",
			question: "suggest a dessert for tonight",
			ctx:      contextWith("desserts"),
			want:     ModeOptionsOffered,
		},
		{
			name:     "empty context forces no match",
			question: "what can I make with chicken?",
			ctx:      assembler.Context{},
			want:     ModeNoMatch,
		},
		{
			name:     "ordinal reference selects option",
			question: "the second one please",
			ctx:      contextWith("cake recipes"),
			prior:    prior,
			want:     ModeOptionSelected,
		},
		{
			name:     "title words select option",
			question: "lemon drizzle cake sounds great",
			ctx:      contextWith("cake recipes"),
			prior:    prior,
			want:     ModeOptionSelected,
		},
		{
			name:     "no prior options cannot select",
			question: "the second one please",
			ctx:      contextWith("cake recipes"),
			want:     ModeSpecificRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Classify(tt.question, tt.ctx, tt.prior)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSpecificRequest(t *testing.T) {
	p := Default()
	out, mode := p.Build(Request{
		Question: "chocolate chip cookies",
		Context:  contextWith("[From: baking.pdf]\ncream butter and sugar"),
	})
	assert.Equal(t, ModeSpecificRequest, mode)
	assert.Contains(t, out, p.ModeInstructions[ModeSpecificRequest])
	assert.Contains(t, out, "COOKBOOK SECTIONS:\n[From: baking.pdf]\ncream butter and sugar")
	assert.Contains(t, out, "USER QUESTION:\nchocolate chip cookies")
	assert.NotContains(t, out, "ranked short list")
}

func TestBuildOptionsOffered(t *testing.T) {
	p := Default()
	out, mode := p.Build(Request{
		Question: "what can I make with chicken?",
		Context:  contextWith("chicken curry\n\nchicken pie\n\nroast chicken\n\nchicken soup"),
	})
	assert.Equal(t, ModeOptionsOffered, mode)
	assert.Contains(t, out, "2-3 candidate recipes")
	assert.Contains(t, out, "ask which one")
}

func TestBuildOptionSelectedIncludesPriorOptions(t *testing.T) {
	p := Default()
	prior := &domain.ConversationTurn{
		OfferedOptions: []string{"Chicken Curry", "Roast Chicken"},
	}
	out, mode := p.Build(Request{
		Question: "the first one",
		Context:  contextWith("chicken recipes"),
		Prior:    prior,
	})
	assert.Equal(t, ModeOptionSelected, mode)
	assert.Contains(t, out, "PREVIOUSLY OFFERED OPTIONS:\n1. Chicken Curry\n2. Roast Chicken")
}

func TestBuildNoMatchUsesFixedMessage(t *testing.T) {
	p := Default()
	out, mode := p.Build(Request{
		Question: "moussaka",
		Context:  assembler.Context{},
	})
	assert.Equal(t, ModeNoMatch, mode)
	assert.Contains(t, out, p.NoMatchMessage)
	assert.NotContains(t, out, "COOKBOOK SECTIONS")
}

func TestDietaryNoteEmptyProfile(t *testing.T) {
	p := Default()
	assert.Equal(t, "", p.DietaryNote(nil))
	assert.Equal(t, "", p.DietaryNote([]string{}))

	out, _ := p.Build(Request{Question: "soup", Context: contextWith("soup recipe")})
	assert.NotContains(t, out, "dietary restrictions")
}

// A vegan profile with a butter-based recipe in context must surface the
// known substitute and the fixed disclaimer sentence verbatim.
func TestBuildVeganButterSubstitution(t *testing.T) {
	p := Default()
	out, _ := p.Build(Request{
		Question: "shortbread",
		Context:  contextWith("[From: baking.pdf]\nshortbread: 200g butter, 100g sugar, 300g flour"),
		Profile:  domain.DietaryProfile{"vegan"},
	})
	assert.Contains(t, out, "butter -> plant-based margarine")
	assert.Contains(t, out, p.Disclaimer)
	assert.Contains(t, out, fmt.Sprintf("\"%s\"", p.WarningTemplate))
	assert.Contains(t, out, "Never silently replace an ingredient")
}

func TestDietaryNoteEnumeratesAllTags(t *testing.T) {
	p := Default()
	note := p.DietaryNote([]string{"vegan", "gluten-free"})
	assert.Contains(t, note, "vegan, gluten-free")
	assert.Contains(t, note, "for vegan: butter -> plant-based margarine")
	assert.Contains(t, note, "for gluten-free: soy sauce -> tamari")
}

func TestBuildMealPlan(t *testing.T) {
	p := Default()

	out := p.BuildMealPlan(contextWith("porridge\n\nlentil soup\n\nroast vegetables"), nil)
	assert.Contains(t, out, "7-day meal plan")
	assert.Contains(t, out, "The user has no dietary restrictions.")
	assert.Contains(t, out, "porridge")

	out = p.BuildMealPlan(contextWith("recipes"), domain.DietaryProfile{"kosher", "nut-free"})
	assert.Contains(t, out, "dietary restrictions: kosher, nut-free")
	assert.Contains(t, out, "ALL meals must strictly respect these restrictions.")
}

func TestBuildIsPure(t *testing.T) {
	p := Default()
	req := Request{Question: "soup", Context: contextWith("soup recipe"), Profile: domain.DietaryProfile{"vegan"}}
	first, _ := p.Build(req)
	second, _ := p.Build(req)
	assert.Equal(t, first, second)
	assert.False(t, strings.Contains(first, "%!"), "unexpanded format verb in prompt")
}
