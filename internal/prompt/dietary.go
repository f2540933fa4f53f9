package prompt

import (
	"fmt"
	"strings"
)

// defaultSubstitutions is the built-in table of viable stand-ins per
// restriction tag. Tags mirror the ones offered in the preferences UI.
func defaultSubstitutions() map[string][]Substitution {
	return map[string][]Substitution{
		"vegetarian": {
			{"chicken stock", "vegetable stock"},
			{"fish sauce", "soy sauce"},
			{"gelatine", "agar-agar"},
		},
		"vegan": {
			{"butter", "plant-based margarine"},
			{"milk", "oat milk"},
			{"cream", "coconut cream"},
			{"eggs", "flaxseed meal soaked in water"},
			{"honey", "maple syrup"},
		},
		"gluten-free": {
			{"wheat flour", "gluten-free flour blend"},
			{"soy sauce", "tamari"},
			{"breadcrumbs", "crushed rice crackers"},
		},
		"dairy-free": {
			{"butter", "olive oil"},
			{"milk", "oat milk"},
			{"cream", "coconut cream"},
		},
		"nut-free": {
			{"peanut butter", "sunflower seed butter"},
			{"almond flour", "oat flour"},
		},
		"halal": {
			{"wine", "grape juice or stock"},
			{"lard", "vegetable shortening"},
		},
		"kosher": {
			{"lard", "vegetable shortening"},
		},
		"low-carb": {
			{"sugar", "erythritol"},
			{"rice", "cauliflower rice"},
			{"pasta", "zucchini noodles"},
		},
		"keto": {
			{"sugar", "erythritol"},
			{"wheat flour", "almond flour"},
			{"rice", "cauliflower rice"},
		},
		"paleo": {
			{"refined sugar", "honey"},
			{"wheat flour", "almond flour"},
			{"milk", "coconut milk"},
		},
	}
}

// DietaryNote renders the dietary-constraint rules for a profile. An empty
// profile yields an empty note. For each recipe presented the model must
// mark compatible items, suggest known substitutes with the fixed disclaimer
// appended verbatim, and emit the fixed warning verbatim for conflicts with
// no viable substitute. Originals are never silently replaced.
func (p Policy) DietaryNote(profile []string) string {
	if len(profile) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The user follows these dietary restrictions: %s. Check every recipe you present against every one of them:\n", strings.Join(profile, ", "))
	b.WriteString("- Mark each ingredient that is compatible with all restrictions with \"[OK]\".\n")
	fmt.Fprintf(&b, "- When an ingredient conflicts but a viable substitute exists, keep the original ingredient visible, suggest the substitute, and append exactly this sentence: \"%s\"\n", p.Disclaimer)
	fmt.Fprintf(&b, "- When an ingredient conflicts and no viable substitute exists, include exactly this warning with the ingredient and restriction filled in: \"%s\"\n", p.WarningTemplate)
	b.WriteString("- Never silently replace an ingredient; the original must always remain visible.\n")

	var lines []string
	for _, tag := range profile {
		for _, sub := range p.Substitutions[tag] {
			lines = append(lines, fmt.Sprintf("  for %s: %s -> %s", tag, sub.Ingredient, sub.Substitute))
		}
	}
	if len(lines) > 0 {
		b.WriteString("Known viable substitutes:\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}
