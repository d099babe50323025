package extract

import "regexp"

// explicitTier is the confidence tier at or above which a pattern is treated
// as explicit obligation language: the earliest capture wins instead of the
// maximum.
const explicitTier = 0.9

// UnitCategory names a unit count field on the commitment record.
type UnitCategory string

const (
	CategoryTotal          UnitCategory = "total_units"
	CategoryLowIncome      UnitCategory = "low_income_units"
	CategoryModerateIncome UnitCategory = "moderate_income_units"
	CategoryVeryLowIncome  UnitCategory = "very_low_income_units"
	CategorySenior         UnitCategory = "senior_units"
	CategoryFamily         UnitCategory = "family_units"
	CategoryRental         UnitCategory = "rental_units"
	CategoryForSale        UnitCategory = "for_sale_units"
	CategoryRehabilitation UnitCategory = "rehabilitation_units"
)

// UnitPattern pairs a numeric capture pattern with its confidence tier.
type UnitPattern struct {
	Pattern *regexp.Regexp
	Tier    float64
}

// CategoryRules is a priority-ordered pattern list for one unit category,
// highest tier first.
type CategoryRules struct {
	Category UnitCategory
	Patterns []UnitPattern
}

// TypeRule maps trigger substrings to a commitment type label.
type TypeRule struct {
	Label    string
	Triggers []string
}

// DocTypeRule maps a pattern to a source document type label.
type DocTypeRule struct {
	Pattern *regexp.Regexp
	Label   string
}

// Rules holds every keyword list and pattern table the engine consults.
// Built once via DefaultRules and never mutated; injectable for tests.
type Rules struct {
	// Keywords gate all extraction: no keyword, no record.
	Keywords []string

	// NegativePatterns reject the whole text when any of them matches.
	NegativePatterns []*regexp.Regexp

	// ExclusionPatterns capture numbers inside tentative language. Captured
	// values are blacklisted document-wide.
	ExclusionPatterns []*regexp.Regexp

	// TotalUnitPatterns is the single-category table used on the web-page
	// path. CategoryUnitPatterns is the per-category table used on the
	// document path.
	TotalUnitPatterns    []UnitPattern
	CategoryUnitPatterns []CategoryRules

	TypeRules []TypeRule

	DeadlinePatterns []*regexp.Regexp

	DocumentTypePatterns []DocTypeRule

	// ProjectPattern matches 1-4 capitalized words followed by a
	// development suffix noun, against original-case text.
	ProjectPattern *regexp.Regexp
	// KnownAsPattern is the secondary document-path pattern for quoted
	// project names.
	KnownAsPattern *regexp.Regexp
	// ProjectExclusions reject organizational phrases masquerading as
	// project names (substring match).
	ProjectExclusions []string

	AddressPatterns []*regexp.Regexp

	// Snippet keyword lists differ per path: domain keywords for web pages,
	// a shorter anchor list for long documents.
	PageSnippetKeywords     []string
	DocumentSnippetKeywords []string
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() *Rules {
	return &Rules{
		Keywords: []string{
			"affordable housing",
			"fair share",
			"coah",
			"council on affordable housing",
			"low income housing",
			"moderate income housing",
			"inclusionary zoning",
			"housing element",
			"housing plan",
			"mount laurel",
			"settlement agreement",
			"builders remedy",
			"housing obligation",
			"affordable units",
			"deed restricted",
			"affordable rental",
			"senior housing",
			"age restricted housing",
			"workforce housing",
		},

		NegativePatterns: []*regexp.Regexp{
			regexp.MustCompile(`does\s+not\s+have\s+an?\s+affordable\s+housing\s+obligation`),
			regexp.MustCompile(`no\s+affordable\s+housing\s+(?:obligation|requirement)`),
			regexp.MustCompile(`exempt(?:ed)?\s+from\s+(?:the\s+)?affordable\s+housing`),
			regexp.MustCompile(`rejected\s+the\s+(?:proposed\s+)?affordable\s+housing\s+plan`),
			regexp.MustCompile(`denied\s+the\s+(?:proposed\s+)?affordable\s+housing`),
			regexp.MustCompile(`not\s+subject\s+to\s+(?:the\s+|any\s+)?(?:affordable\s+housing|fair\s+share)`),
		},

		ExclusionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`up\s+to\s+(\d+)`),
			regexp.MustCompile(`may\s+include\s+(?:\w+\s+){0,4}?(\d+)`),
			regexp.MustCompile(`proposed\s+(\d+)`),
			regexp.MustCompile(`maximum\s+of\s+(\d+)`),
			regexp.MustCompile(`as\s+many\s+as\s+(\d+)`),
			regexp.MustCompile(`could\s+(?:include|add|build|provide|yield)\s+(?:up\s+to\s+)?(\d+)`),
			regexp.MustCompile(`under\s+consideration\s+for\s+(\d+)`),
		},

		TotalUnitPatterns: []UnitPattern{
			{regexp.MustCompile(`(?:total|overall)\s*(?:affordable\s*)?(?:housing\s*)?obligation[:\s]+(\d+)\s*units?`), 0.95},
			{regexp.MustCompile(`fair\s*share\s*(?:obligation|requirement)[:\s]+(\d+)`), 0.95},
			{regexp.MustCompile(`(?:committed|required|obligated)\s+to\s+(?:provide|build|construct|create)\s+(\d+)`), 0.95},
			{regexp.MustCompile(`(\d+)\s*(?:total\s*)?(?:affordable\s*)?(?:housing\s*)?units?\s*(?:obligation|required|committed)`), 0.9},
			{regexp.MustCompile(`third\s*round\s*(?:obligation|requirement)[:\s]+(\d+)`), 0.9},
			{regexp.MustCompile(`total\s*(?:of\s*)?(\d+)\s*(?:affordable\s*)?units?`), 0.7},
			{regexp.MustCompile(`(\d+)\s*(?:affordable|low[- ]income|moderate[- ]income)\s*(?:housing\s*)?units?`), 0.6},
			{regexp.MustCompile(`(\d+)\s*units?\s*(?:of\s*)?affordable\s*housing`), 0.6},
		},

		CategoryUnitPatterns: []CategoryRules{
			{CategoryTotal, []UnitPattern{
				{regexp.MustCompile(`(?:total|overall)\s*(?:affordable\s*)?(?:housing\s*)?obligation[:\s]+(\d+)\s*units?`), 0.95},
				{regexp.MustCompile(`fair\s*share\s*(?:obligation|requirement)[:\s]+(\d+)`), 0.95},
				{regexp.MustCompile(`(?:committed|required|obligated)\s+to\s+(?:provide|build|construct|create)\s+(\d+)`), 0.95},
				{regexp.MustCompile(`(\d+)\s*(?:total\s*)?(?:affordable\s*)?(?:housing\s*)?units?\s*(?:obligation|required|committed)`), 0.9},
				{regexp.MustCompile(`third\s*round\s*(?:obligation|requirement)[:\s]+(\d+)`), 0.9},
				{regexp.MustCompile(`total\s*(?:of\s*)?(\d+)\s*(?:affordable\s*)?units?`), 0.7},
			}},
			{CategoryLowIncome, []UnitPattern{
				{regexp.MustCompile(`low[- ]income[:\s]+(\d+)`), 0.9},
				{regexp.MustCompile(`(\d+)\s*low[- ]income\s*units?`), 0.6},
			}},
			{CategoryModerateIncome, []UnitPattern{
				{regexp.MustCompile(`moderate[- ]income[:\s]+(\d+)`), 0.9},
				{regexp.MustCompile(`(\d+)\s*moderate[- ]income\s*units?`), 0.6},
			}},
			{CategoryVeryLowIncome, []UnitPattern{
				{regexp.MustCompile(`very\s*low[- ]income[:\s]+(\d+)`), 0.9},
				{regexp.MustCompile(`(\d+)\s*very\s*low[- ]income\s*units?`), 0.6},
			}},
			{CategorySenior, []UnitPattern{
				{regexp.MustCompile(`(?:senior|age[- ]restricted|elderly)\s*(?:housing\s*)?:\s*(\d+)`), 0.9},
				{regexp.MustCompile(`(\d+)\s*(?:senior|age[- ]restricted|elderly)\s*units?`), 0.6},
			}},
			{CategoryFamily, []UnitPattern{
				{regexp.MustCompile(`family\s*(?:housing\s*)?:\s*(\d+)`), 0.9},
				{regexp.MustCompile(`(\d+)\s*family\s*units?`), 0.6},
			}},
			{CategoryRental, []UnitPattern{
				{regexp.MustCompile(`rental:\s*(\d+)`), 0.9},
				{regexp.MustCompile(`(\d+)\s*rental\s*units?`), 0.6},
			}},
			{CategoryForSale, []UnitPattern{
				{regexp.MustCompile(`(\d+)\s*(?:for[- ]sale|ownership)\s*units?`), 0.6},
			}},
			{CategoryRehabilitation, []UnitPattern{
				{regexp.MustCompile(`(?:rehabilitation|rehab):\s*(\d+)`), 0.9},
				{regexp.MustCompile(`(\d+)\s*(?:rehabilitation|rehab)\s*units?`), 0.6},
			}},
		},

		TypeRules: []TypeRule{
			{"Settlement Agreement", []string{"settlement agreement", "settlement"}},
			{"COAH", []string{"coah", "council on affordable housing"}},
			{"Builders Remedy", []string{"builders remedy", "builder's remedy"}},
			{"Mount Laurel", []string{"mount laurel"}},
			{"Inclusionary Zoning", []string{"inclusionary"}},
		},

		DeadlinePatterns: []*regexp.Regexp{
			regexp.MustCompile(`deadline[:\s]+(20\d{2})`),
			regexp.MustCompile(`deadline\s+is\s+(20\d{2})`),
			regexp.MustCompile(`(?:by|before|through|until|no\s+later\s+than)\s+(?:december\s+31,?\s+)?(20\d{2})`),
			regexp.MustCompile(`(20\d{2})\s*(?:deadline|goal|target)`),
			regexp.MustCompile(`complete[d]?\s+by\s+(20\d{2})`),
		},

		DocumentTypePatterns: []DocTypeRule{
			{regexp.MustCompile(`housing\s*element\s*(?:and|&)?\s*fair\s*share\s*plan`), "Housing Element and Fair Share Plan"},
			{regexp.MustCompile(`settlement\s*agreement`), "Settlement Agreement"},
			{regexp.MustCompile(`consent\s*(?:order|judgment|decree)`), "Consent Order"},
			{regexp.MustCompile(`compliance\s*report`), "Compliance Report"},
			{regexp.MustCompile(`spending\s*plan`), "Spending Plan"},
			{regexp.MustCompile(`resolution\s*of\s*(?:participation|intent)`), "Resolution of Participation"},
			{regexp.MustCompile(`redevelopment\s*plan`), "Redevelopment Plan"},
			{regexp.MustCompile(`affordable\s*housing\s*plan`), "Affordable Housing Plan"},
			{regexp.MustCompile(`inclusionary\s*(?:zoning|development)\s*(?:ordinance|plan)`), "Inclusionary Development Plan"},
		},

		ProjectPattern: regexp.MustCompile(`(?:[Tt]he\s+)?([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*){0,3}\s+(?:Village|Gardens|Apartments|Commons|Place|Court|Homes|Manor|Towers|Heights|Park|Estate|Ridge|View|Point|Landing|Square|Terrace|Green|Brook|Glen|Run|Way|Circle|Lane))`),
		KnownAsPattern: regexp.MustCompile(`(?:known\s+as|called)\s+["'\x{2018}\x{201C}]([A-Z][A-Za-z\s]{2,60})["'\x{2019}\x{201D}]`),
		ProjectExclusions: []string{
			"Committee", "Council", "Board", "Authority", "Commission",
			"Department", "Agency", "Association", "Corporation",
			"Coalition", "Office", "District",
		},

		AddressPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(\d+\s+[A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct|Place|Pl)\b)\.?`),
			regexp.MustCompile(`(?i)(?:block|lot)\s+(\d+(?:\.\d+)?)`),
		},

		PageSnippetKeywords: []string{
			"affordable housing", "fair share", "coah",
			"council on affordable housing", "low income housing",
			"moderate income housing", "inclusionary zoning",
			"housing element", "housing plan", "mount laurel",
			"settlement agreement", "builders remedy", "housing obligation",
			"affordable units", "deed restricted", "affordable rental",
			"senior housing", "age restricted housing", "workforce housing",
		},
		DocumentSnippetKeywords: []string{
			"obligation", "settlement", "units", "affordable",
		},
	}
}
