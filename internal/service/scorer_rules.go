package service

import "regexp"

// The scoring heuristics are expressed as rule tables rather than cascaded
// conditionals so each rule can be tested in isolation.

// cultureRule scores pronoun usage against one cultural orientation. The
// label is matched case-insensitively as a substring of the profile's
// culture field.
type cultureRule struct {
	label   string
	markers *regexp.Regexp
	divisor float64
}

var cultureRules = []cultureRule{
	{
		label:   "individualistic",
		markers: regexp.MustCompile(`\b(i|my|myself|personally|individual)\b`),
		divisor: 8,
	},
	{
		label:   "collectivistic",
		markers: regexp.MustCompile(`\b(we|our|together|group|community|family|collective)\b`),
		divisor: 6,
	},
}

// Marker sets for the "balanced" orientation, which compares the two sides.
var (
	balancedIndividualRe = regexp.MustCompile(`\b(i|my|myself)\b`)
	balancedCollectiveRe = regexp.MustCompile(`\b(we|our|together)\b`)
)

// Score assigned when the culture label matches no rule.
const unknownCultureScore = 0.7

// foundationFramework is one value framework checked for alignment. The
// alignment score for a framework is the fraction of its terms present as
// substrings of the lower-cased response.
type foundationFramework struct {
	name  string
	terms []string
}

var foundationFrameworks = []foundationFramework{
	{"mollick", []string{"partner", "collaboration", "human agency", "trust", "amplify", "cognitive partner"}},
	{"swiss_ai", []string{"transparency", "human dignity", "privacy", "ethical", "explainable", "human-centered"}},
	{"people_factor", []string{"user experience", "training", "support", "diversity", "human impact", "adaptive"}},
}

// questionTypeRule tags a response when its pattern matches.
type questionTypeRule struct {
	label   string
	pattern *regexp.Regexp
}

var questionTypeRules = []questionTypeRule{
	{"factual_question", regexp.MustCompile(`(?i)\b(what|how|why|when|where)\b.*\?`)},
	{"request_for_help", regexp.MustCompile(`(?i)\b(could you|can you|would you|please|help me)\b`)},
	{"confirmation_seeking", regexp.MustCompile(`(?i)\b(is this|am i|should i|correct|right)\b.*\?`)},
	{"clarification_request", regexp.MustCompile(`(?i)\b(explain|clarify|elaborate|mean|understand)\b`)},
	{"hypothetical_question", regexp.MustCompile(`(?i)\b(what if|suppose|imagine|would it)\b`)},
}

// categoryRule tags a response when its pattern matches more than minCount
// times. Most categories fire on a single hit; "procedural" needs two
// sequencing words.
type categoryRule struct {
	label    string
	pattern  *regexp.Regexp
	minCount int
}

var categoryRules = []categoryRule{
	{"appreciative", regexp.MustCompile(`thank|appreciate|helpful|great`), 1},
	{"uncertain", regexp.MustCompile(`confused|unsure|unclear|don't understand`), 1},
	{"agreeable", regexp.MustCompile(`agree|correct|right|yes|exactly`), 1},
	{"questioning", regexp.MustCompile(`however|but|disagree|different|not sure`), 1},
	{"example_seeking", regexp.MustCompile(`\b(example|instance|like|such as)\b`), 1},
	{"procedural", regexp.MustCompile(`\b(step|first|then|next|finally)\b`), 2},
	{"reflective", regexp.MustCompile(`\b(think|believe|opinion|feel|perspective)\b`), 1},
}

// neutralCategory is assigned when no category rule fires.
const neutralCategory = "neutral"

// constructRule detects one psychological construct via indicator phrases,
// matched as substrings of the lower-cased response.
type constructRule struct {
	name       string
	indicators []string
}

var constructRules = []constructRule{
	{"cognitive_partnership", []string{"together", "collaborate", "partner", "work with", "team up", "combine"}},
	{"trust_calibration", []string{"trust", "reliable", "depend", "confidence", "believe", "verify"}},
	{"agency_distribution", []string{"control", "decide", "choice", "authority", "responsibility", "ownership"}},
	{"metacognitive_awareness", []string{"understand", "know", "aware", "realize", "recognize", "learn about"}},
	{"cognitive_load_management", []string{"easier", "difficult", "overwhelming", "manage", "handle", "process"}},
}

// ConstructNames lists every detectable construct in rule order.
func ConstructNames() []string {
	names := make([]string, 0, len(constructRules))
	for _, r := range constructRules {
		names = append(names, r.name)
	}
	return names
}

// emotionRule detects one emotional indicator via keyword substrings.
type emotionRule struct {
	name       string
	indicators []string
}

var emotionRules = []emotionRule{
	{"excitement", []string{"excited", "amazing", "awesome", "love", "fantastic"}},
	{"anxiety", []string{"worried", "nervous", "anxious", "scared", "afraid"}},
	{"confidence", []string{"confident", "sure", "certain", "definitely", "absolutely"}},
	{"confusion", []string{"confused", "lost", "unclear", "puzzled", "bewildered"}},
	{"frustration", []string{"frustrated", "annoying", "difficult", "struggling", "hard"}},
	{"satisfaction", []string{"satisfied", "pleased", "happy", "glad", "content"}},
}

// Coherence factor patterns.
var (
	connectiveRe = regexp.MustCompile(`(?i)\b(because|since|therefore|however|although|but|and|so|thus)\b`)
	personalRe   = regexp.MustCompile(`(?i)\b(i think|i believe|in my opinion|i would|i feel)\b`)

	// Complex sentence structures used by the complexity score.
	complexStructureRe = regexp.MustCompile(`(?i)\b(although|however|nevertheless|furthermore|consequently)\b`)
)

// Expected complex-word ratio per stated English proficiency, looked up
// case-insensitively.
var expectedComplexity = map[string]float64{
	"native":       0.30,
	"advanced":     0.25,
	"intermediate": 0.15,
	"beginner":     0.05,
}

// defaultExpectedComplexity applies when the proficiency label is unknown.
const defaultExpectedComplexity = 0.20
