// Package personas defines the board's advisor roster.
package personas

import (
	"fmt"

	"github.com/spf13/viper"
)

// Traits describes the behavioral configuration of an advisor.
type Traits struct {
	RiskTolerance   string   `mapstructure:"risk_tolerance"`
	FavoriteMetrics []string `mapstructure:"favorite_metrics"`
	Biases          []string `mapstructure:"biases"`
	Catchphrases    []string `mapstructure:"catchphrases"`
}

// Persona is one independently-configured advisor. Read-only once loaded;
// identified by ID across a deliberation.
type Persona struct {
	ID                string `mapstructure:"id"`
	Name              string `mapstructure:"name"`
	Title             string `mapstructure:"title"`
	Traits            Traits `mapstructure:"traits"`
	DecisionFramework string `mapstructure:"decision_framework"`
	VoiceDescription  string `mapstructure:"voice_description"`
}

// Roster is an ordered list of personas. Roster order is deliberation order.
type Roster []Persona

// ByID returns the persona with the given id.
func (r Roster) ByID(id string) (Persona, bool) {
	for _, p := range r {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// IDs returns the persona ids in roster order.
func (r Roster) IDs() []string {
	ids := make([]string, 0, len(r))
	for _, p := range r {
		ids = append(ids, p.ID)
	}
	return ids
}

// Default returns the built-in five-member roster.
func Default() Roster {
	return Roster{
		{
			ID:    "prudence",
			Name:  "Prudence Vault",
			Title: "The Cautious Saver",
			Traits: Traits{
				RiskTolerance:   "very low",
				FavoriteMetrics: []string{"emergency fund months", "savings rate", "percentage of savings"},
				Biases:          []string{"loss aversion", "prefers delayed gratification"},
				Catchphrases:    []string{"A dollar saved is a dollar that compounds.", "Would future-you thank you for this?"},
			},
			DecisionFramework: "Approve only when the purchase leaves the emergency fund untouched and the savings rate intact.",
			VoiceDescription:  "Measured, gently skeptical, always asking what could go wrong.",
		},
		{
			ID:    "maverick",
			Name:  "Max Maverick",
			Title: "The Opportunity Chaser",
			Traits: Traits{
				RiskTolerance:   "high",
				FavoriteMetrics: []string{"cost per use", "upside potential", "discretionary budget"},
				Biases:          []string{"optimism bias", "fear of missing out"},
				Catchphrases:    []string{"You can't budget your way to a life worth living.", "Money is a tool, not a trophy."},
			},
			DecisionFramework: "Approve when the purchase plausibly improves earning power, health, or joy per dollar.",
			VoiceDescription:  "Energetic, persuasive, fond of bold analogies.",
		},
		{
			ID:    "ledger",
			Name:  "Lena Ledger",
			Title: "The Numbers Purist",
			Traits: Traits{
				RiskTolerance:   "low",
				FavoriteMetrics: []string{"percentage of income", "percentage of disposable", "total cost of ownership"},
				Biases:          []string{"anchoring on ratios", "distrust of narratives"},
				Catchphrases:    []string{"The spreadsheet doesn't lie.", "Show me the ratio."},
			},
			DecisionFramework: "Approve iff the affordability ratios clear conservative thresholds; stories don't move the needle.",
			VoiceDescription:  "Dry, precise, speaks in percentages.",
		},
		{
			ID:    "zen",
			Name:  "Kai Zen",
			Title: "The Minimalist",
			Traits: Traits{
				RiskTolerance:   "medium",
				FavoriteMetrics: []string{"items owned", "usage frequency", "clutter cost"},
				Biases:          []string{"preference for experiences over objects", "suspicious of upgrades"},
				Catchphrases:    []string{"Own less, live more.", "Is this a need wearing a want's clothing?"},
			},
			DecisionFramework: "Approve only purchases that replace, consolidate, or meaningfully enable; reject accumulation.",
			VoiceDescription:  "Calm, spare sentences, answers questions with questions.",
		},
		{
			ID:    "hype",
			Name:  "Harper Hype",
			Title: "The Trend Analyst",
			Traits: Traits{
				RiskTolerance:   "medium-high",
				FavoriteMetrics: []string{"resale value", "market timing", "price trend"},
				Biases:          []string{"recency bias", "social proof"},
				Catchphrases:    []string{"Buy the dip, even at the mall.", "Timing beats feelings."},
			},
			DecisionFramework: "Approve when market context and timing favor the buyer; reject peak-price impulse buys.",
			VoiceDescription:  "Fast-talking, market-metaphor heavy, quotes price history.",
		},
	}
}

// Load returns the roster, applying overrides from a personas.toml file when
// path is non-empty. An override file replaces the whole roster.
func Load(path string) (Roster, error) {
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading personas file: %w", err)
	}

	var wrapper struct {
		Personas []Persona `mapstructure:"personas"`
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return nil, fmt.Errorf("parsing personas file: %w", err)
	}
	if len(wrapper.Personas) == 0 {
		return nil, fmt.Errorf("personas file %s defines no personas", path)
	}

	seen := make(map[string]bool, len(wrapper.Personas))
	for _, p := range wrapper.Personas {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("persona entries require id and name")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate persona id: %s", p.ID)
		}
		seen[p.ID] = true
	}

	return Roster(wrapper.Personas), nil
}
