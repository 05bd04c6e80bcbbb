package model

// Scenario is one co-thinking task presented to every agent in a run.
type Scenario struct {
	Name         string `json:"name"`
	ScenarioType string `json:"scenarioType"`
	Context      string `json:"context"`
	Task         string `json:"task"`
	TutorOpening string `json:"tutorOpening"`
}

// SurveyQuestion is one post-session survey item.
type SurveyQuestion struct {
	Number   int    `json:"number"`
	Text     string `json:"text"`
	ScaleMin int    `json:"scaleMin"`
	ScaleMax int    `json:"scaleMax"`
}

// AgentProfile is the upstream persona handed to the generation layer. The
// analysis core only ever sees its Summary() map.
type AgentProfile struct {
	AgentID             string  `json:"agentId"`
	CulturalBackground  string  `json:"culturalBackground"`
	Age                 int     `json:"age"`
	Gender              string  `json:"gender"`
	NativeLanguage      string  `json:"nativeLanguage"`
	EnglishProficiency  string  `json:"englishProficiency"`
	SocioeconomicStatus string  `json:"socioeconomicStatus"`
	Mood                string  `json:"mood"`
	TrustLevel          float64 `json:"trustLevel"`
	HelpSeekingTendency float64 `json:"helpSeekingTendency"`
	AuthorityDeference  float64 `json:"authorityDeference"`
	PrivacyConcern      float64 `json:"privacyConcern"`
}

// Summary flattens the profile into the generation-layer contract map.
func (p *AgentProfile) Summary() map[string]any {
	return map[string]any{
		"culture":             p.CulturalBackground,
		"age":                 p.Age,
		"gender":              p.Gender,
		"language":            p.NativeLanguage,
		"english_proficiency": p.EnglishProficiency,
		"ses":                 p.SocioeconomicStatus,
		"mood":                p.Mood,
		"trust":               p.TrustLevel,
		"help_seeking":        p.HelpSeekingTendency,
		"authority_deference": p.AuthorityDeference,
		"privacy_concern":     p.PrivacyConcern,
	}
}
