package model

// UnitBoundMax is the exclusive upper bound for any unit count. Values at or
// above this are treated as artifacts (years, document IDs) and discarded.
const UnitBoundMax = 10000

// CommitmentRecord represents one extracted affordable housing commitment.
// Every unit field is either nil ("not found") or strictly inside (0, 10000);
// zero is never stored.
type CommitmentRecord struct {
	Municipality string `json:"municipality"`

	CommitmentType string `json:"commitment_type,omitempty"`

	TotalUnits          *int `json:"total_units,omitempty"`
	LowIncomeUnits      *int `json:"low_income_units,omitempty"`
	ModerateIncomeUnits *int `json:"moderate_income_units,omitempty"`
	VeryLowIncomeUnits  *int `json:"very_low_income_units,omitempty"`
	SeniorUnits         *int `json:"senior_units,omitempty"`
	FamilyUnits         *int `json:"family_units,omitempty"`
	RentalUnits         *int `json:"rental_units,omitempty"`
	ForSaleUnits        *int `json:"for_sale_units,omitempty"`
	RehabilitationUnits *int `json:"rehabilitation_units,omitempty"`

	// Deadline is a 4-digit year string within [currentYear-1, currentYear+15].
	Deadline string `json:"deadline,omitempty"`

	// ProjectName is the first accepted candidate (web-page path).
	ProjectName string `json:"project_name,omitempty"`

	// ProjectNames and Addresses are populated on the document path only:
	// all accepted candidates, first-seen order, de-duplicated.
	ProjectNames []string `json:"project_names,omitempty"`
	Addresses    []string `json:"addresses,omitempty"`

	// RawTextSnippet is the audit context around the first keyword hit:
	// up to 200 characters before and 500 after. Persistence truncates it
	// further; the engine does not.
	RawTextSnippet string `json:"raw_text_snippet,omitempty"`

	Confidence float64 `json:"confidence"`

	SourceURL          string `json:"source_url,omitempty"`
	SourceDocumentType string `json:"source_document_type,omitempty"`
}

// CommitmentType labels form a closed set; anything else stays empty.
const (
	TypeSettlementAgreement = "Settlement Agreement"
	TypeCOAH                = "COAH"
	TypeBuildersRemedy      = "Builders Remedy"
	TypeMountLaurel         = "Mount Laurel"
	TypeInclusionaryZoning  = "Inclusionary Zoning"
)

// FirstProjectName returns the single project name on the web-page path or
// the first collected candidate on the document path.
func (r *CommitmentRecord) FirstProjectName() string {
	if r.ProjectName != "" {
		return r.ProjectName
	}
	if len(r.ProjectNames) > 0 {
		return r.ProjectNames[0]
	}
	return ""
}

// HasSignal reports whether the record carries at least one of the fields
// that make it worth returning: a total, a commitment type, or a project
// name. Records without any of these are dropped, not surfaced.
func (r *CommitmentRecord) HasSignal() bool {
	return r.TotalUnits != nil || r.CommitmentType != "" || r.FirstProjectName() != ""
}

// UnitFields returns the unit count fields keyed by their canonical names.
// Iteration helpers for validation and persistence; the map values alias the
// record's pointers.
func (r *CommitmentRecord) UnitFields() map[string]*int {
	return map[string]*int{
		"total_units":           r.TotalUnits,
		"low_income_units":      r.LowIncomeUnits,
		"moderate_income_units": r.ModerateIncomeUnits,
		"very_low_income_units": r.VeryLowIncomeUnits,
		"senior_units":          r.SeniorUnits,
		"family_units":          r.FamilyUnits,
		"rental_units":          r.RentalUnits,
		"for_sale_units":        r.ForSaleUnits,
		"rehabilitation_units":  r.RehabilitationUnits,
	}
}
