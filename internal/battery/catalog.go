package battery

// Baseline returns the canonical baseline battery. Every case is positive:
// each query should activate exactly one known skill.
func Baseline() Battery {
	return Battery{
		Name: "baseline",
		Cases: []Case{
			{
				ID:            "base-001",
				Query:         "How do I declare reactive state with $state in Svelte 5?",
				ExpectedSkill: "svelte-runes",
				Description:   "direct mention of a rune",
			},
			{
				ID:            "base-002",
				Query:         "Convert this component from Svelte 4 stores to the new runes syntax",
				ExpectedSkill: "svelte-runes",
				Description:   "migration phrasing, no rune named",
			},
			{
				ID:            "base-003",
				Query:         "Where should I put my API route handlers in a SvelteKit project?",
				ExpectedSkill: "sveltekit-structure",
				Description:   "project layout question",
			},
			{
				ID:            "base-004",
				Query:         "Set up a +layout.server.ts that loads the session for all pages",
				ExpectedSkill: "sveltekit-structure",
				Description:   "file-convention specific",
			},
			{
				ID:            "base-005",
				Query:         "Write a form with progressive enhancement using use:enhance",
				ExpectedSkill: "sveltekit-forms",
				Description:   "form actions feature",
			},
			{
				ID:            "base-006",
				Query:         "My form action returns validation errors, how do I show them next to each field?",
				ExpectedSkill: "sveltekit-forms",
				Description:   "indirect form actions phrasing",
			},
			{
				ID:            "base-007",
				Query:         "Add a derived value that recomputes when two pieces of state change",
				ExpectedSkill: "svelte-runes",
				Description:   "derived state without naming $derived",
			},
			{
				ID:            "base-008",
				Query:         "Style this button with Tailwind so it has a hover transition and focus ring",
				ExpectedSkill: "tailwind-styling",
				Description:   "styling task",
			},
		},
	}
}

// Hard returns the canonical hard battery used for head-to-head comparisons.
// Disjoint from the baseline battery; includes negative cases whose correct
// outcome is no activation.
func Hard() Battery {
	return Battery{
		Name: "hard",
		Cases: []Case{
			{
				ID:            "hard-001",
				Query:         "Why does my count variable not update in the template when I reassign it?",
				ExpectedSkill: "svelte-runes",
				Description:   "symptom description, no framework terms",
			},
			{
				ID:            "hard-002",
				Query:         "I'm getting 'cannot reassign exported state' in a .svelte.ts module",
				ExpectedSkill: "svelte-runes",
				Description:   "error message as query",
			},
			{
				ID:            "hard-003",
				Query:         "Users see a flash of logged-out UI before the session loads, fix it",
				ExpectedSkill: "sveltekit-structure",
				Description:   "load-ordering symptom",
			},
			{
				ID:            "hard-004",
				Query:         "Should data fetching for this page happen on the server or the client?",
				ExpectedSkill: "sveltekit-structure",
				Description:   "architectural judgment call",
			},
			{
				ID:            "hard-005",
				Query:         "The submit button does a full page reload instead of staying on the page",
				ExpectedSkill: "sveltekit-forms",
				Description:   "enhancement regression symptom",
			},
			{
				ID:            "hard-006",
				Query:         "Make the card stack vertically on phones but sit in a row on desktop",
				ExpectedSkill: "tailwind-styling",
				Description:   "responsive layout in plain words",
			},
			{
				ID:            "hard-007",
				Query:         "What's the capital of Australia?",
				ExpectedSkill: ExpectNone,
				Description:   "negative: general knowledge",
			},
			{
				ID:            "hard-008",
				Query:         "Write a haiku about compilers",
				ExpectedSkill: ExpectNone,
				Description:   "negative: creative writing",
			},
			{
				ID:            "hard-009",
				Query:         "Explain the difference between TCP and UDP",
				ExpectedSkill: ExpectNone,
				Description:   "negative: unrelated technical topic",
			},
			{
				ID:            "hard-010",
				Query:         "Refactor this component so the modal state lives in a shared module",
				ExpectedSkill: "svelte-runes",
				Description:   "shared reactive state",
			},
			{
				ID:            "hard-011",
				Query:         "Intercept every POST from this page and show a toast when it settles",
				ExpectedSkill: "sveltekit-forms",
				Description:   "enhance callback without naming it",
			},
			{
				ID:            "hard-012",
				Query:         "Rename a function across three files",
				ExpectedSkill: ExpectNone,
				Description:   "negative: generic editing task",
			},
		},
	}
}
