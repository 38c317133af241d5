package holmes

// RawDocument is one process record as returned by the search API. Values
// are kept as decoded JSON (json.Number for numbers) and interpreted by the
// process package.
type RawDocument struct {
	Identifier string `json:"identifier"`
	Props      []Prop `json:"props"`
}

// Prop is a named field attached to a process record.
type Prop struct {
	Identifier string `json:"identifier"`
	Value      any    `json:"value"`
	Label      any    `json:"label,omitempty"`
}

// searchResponse is the subset of the search response the dashboard reads.
type searchResponse struct {
	Docs []RawDocument `json:"docs"`
}
