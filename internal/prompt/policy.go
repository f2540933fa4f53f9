// Package prompt builds the instruction documents handed to the generation
// gateway. Response-mode rules and dietary rule sentences are held as data
// on a Policy value rather than branched string literals, so each rule can
// be tested on its own.
package prompt

import (
	"fmt"
	"strings"

	"recipechef/internal/assembler"
	"recipechef/internal/domain"
)

// Mode is the response shape selected for one conversation turn.
type Mode string

const (
	// ModeSpecificRequest answers a named-recipe request with one full recipe.
	ModeSpecificRequest Mode = "specific_request"
	// ModeOptionsOffered answers a general or ingredient request with a
	// ranked short list of candidates and a follow-up question.
	ModeOptionsOffered Mode = "options_offered"
	// ModeOptionSelected answers the pick of a previously offered option
	// with immediate full detail.
	ModeOptionSelected Mode = "option_selected"
	// ModeNoMatch is forced whenever the assembled context is empty.
	ModeNoMatch Mode = "no_match"
)

// Substitution maps a restricted ingredient to a viable stand-in.
type Substitution struct {
	Ingredient string
	Substitute string
}

// Policy holds every response-shaping rule as data.
type Policy struct {
	// Persona opens every prompt.
	Persona string
	// ModeInstructions carries the response-shaping rule per mode.
	ModeInstructions map[Mode]string
	// NoMatchMessage is the fixed apologetic reply for an empty context.
	NoMatchMessage string
	// Disclaimer is appended verbatim after every substitution suggestion.
	Disclaimer string
	// WarningTemplate names a conflicting ingredient and restriction when
	// no substitute exists; emitted verbatim by the model.
	WarningTemplate string
	// Substitutions lists known viable substitutes per restriction tag.
	Substitutions map[string][]Substitution
	// GeneralCues are lowercase markers of a general/ingredient question.
	GeneralCues []string
}

// Request is the input to Build. Prior, when set, is the preceding turn of
// the same conversation.
type Request struct {
	Question string
	Context  assembler.Context
	Profile  domain.DietaryProfile
	Prior    *domain.ConversationTurn
}

// Default returns the production policy.
func Default() Policy {
	return Policy{
		Persona: "You are Recipe Chef, a helpful chef assistant. Use ONLY the cookbook sections below to answer; never invent recipes that are not in them.",
		ModeInstructions: map[Mode]string{
			ModeSpecificRequest: "The user is asking for a specific recipe by name. Reply with the single best matching recipe in full: its name, the complete ingredient list with quantities, and numbered preparation steps.",
			ModeOptionsOffered:  "The user is asking a general or ingredient-based question. Offer a ranked short list of 2-3 candidate recipes from the cookbook sections, numbered, with one enticing line each, then ask which one they would like to see in full.",
			ModeOptionSelected:  "The user is selecting one of the options you offered in your previous answer. Identify the selected option and reply immediately with that recipe in full detail: ingredients, quantities and numbered steps.",
		},
		NoMatchMessage:  "I'm sorry, I couldn't find anything matching your request in your cookbooks. Try asking about another dish or ingredient, or upload a cookbook that covers it.",
		Disclaimer:      "Please note that substitutions may change the taste and texture of the final dish.",
		WarningTemplate: "Warning: this recipe uses %s, which conflicts with the %s restriction and has no suitable substitute.",
		Substitutions:   defaultSubstitutions(),
		GeneralCues: []string{
			"what can i make", "what can i cook", "what should i",
			"any ideas", "ideas for", "suggest", "recommend",
			"something with", "options", "which recipes",
		},
	}
}

// Build composes the full instruction document for one turn: persona, mode
// rule, dietary note, context and the literal question. It is pure text
// construction and performs no I/O.
func (p Policy) Build(req Request) (string, Mode) {
	mode := p.Classify(req.Question, req.Context, req.Prior)

	var b strings.Builder
	b.WriteString(p.Persona)
	b.WriteString("\n\n")

	if mode == ModeNoMatch {
		fmt.Fprintf(&b, "No cookbook sections matched the user's question. Reply with exactly this message and nothing else:\n%s\n\n", p.NoMatchMessage)
		fmt.Fprintf(&b, "USER QUESTION:\n%s", req.Question)
		return b.String(), mode
	}

	b.WriteString(p.ModeInstructions[mode])
	b.WriteString("\n")

	if note := p.DietaryNote(req.Profile); note != "" {
		b.WriteString("\n")
		b.WriteString(note)
	}

	b.WriteString("\nCOOKBOOK SECTIONS:\n")
	b.WriteString(req.Context.Text)
	b.WriteString("\n")

	if mode == ModeOptionSelected && req.Prior != nil {
		b.WriteString("\nPREVIOUSLY OFFERED OPTIONS:\n")
		for i, opt := range req.Prior.OfferedOptions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
		}
	}

	fmt.Fprintf(&b, "\nUSER QUESTION:\n%s", req.Question)
	return b.String(), mode
}

// BuildMealPlan composes the 7-day meal plan prompt over a broad retrieval.
func (p Policy) BuildMealPlan(ctx assembler.Context, profile domain.DietaryProfile) string {
	note := "The user has no dietary restrictions."
	if len(profile) > 0 {
		note = fmt.Sprintf("The user has the following dietary restrictions: %s. ALL meals must strictly respect these restrictions.",
			strings.Join(profile, ", "))
	}
	var b strings.Builder
	b.WriteString("You are a professional chef and meal planner. Using ONLY recipes from the cookbook sections below, create a varied and balanced 7-day meal plan.\n\n")
	b.WriteString(note)
	b.WriteString("\n\nFormat the plan clearly with each day having Breakfast, Lunch, and Dinner as bullet points. Include the recipe name and a one-line description for each meal. Make it feel personalised and exciting.\n\n")
	b.WriteString("COOKBOOK SECTIONS:\n")
	b.WriteString(ctx.Text)
	b.WriteString("\n\nGenerate the 7-day meal plan now:")
	return b.String()
}
