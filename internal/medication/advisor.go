package medication

// DefaultRules returns a fresh copy of the built-in recommendation table.
func DefaultRules() map[string]string {
	return map[string]string{
		"Flu":        "Tamiflu, Relenza, Rapivab.",
		"Bronchitis": "Albuterol, Tamiflu, Doxycycline.",
		"Pneumonia":  "Macrolides, Zithromax, Fluconazole.",
	}
}

// Advisor maps a diagnosis label to a medication recommendation. The rule
// table is copied at construction and never modified afterwards.
type Advisor struct {
	rules map[string]string
}

func NewAdvisor(rules map[string]string) *Advisor {
	copied := make(map[string]string, len(rules))
	for k, v := range rules {
		copied[k] = v
	}
	return &Advisor{rules: copied}
}

// Recommend does an exact-match lookup. An unmapped label yields ("", false).
func (a *Advisor) Recommend(diagnosis string) (string, bool) {
	rec, ok := a.rules[diagnosis]
	return rec, ok
}

func (a *Advisor) Len() int {
	return len(a.rules)
}
