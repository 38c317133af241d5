// Package process projects raw Holmes documents into flat records and
// aggregates them for display and export.
package process

// FlatRecord is the tabular view of one process.
type FlatRecord struct {
	SolicitationID string `json:"solicitation_id"`
	Title          string `json:"title"`
	Requester      string `json:"requester"`
	VacancyType    string `json:"vacancy_type"`
	CompanyName    string `json:"company_name"`
	VacancyCount   int    `json:"vacancy_count"`
}

// Column is a FlatRecord field with its display label.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Columns lists the record fields in display and export order.
var Columns = []Column{
	{Key: "solicitation_id", Label: "Solicitação"},
	{Key: "title", Label: "Título"},
	{Key: "requester", Label: "Solicitante"},
	{Key: "vacancy_type", Label: "Tipo de Vaga"},
	{Key: "company_name", Label: "Razão Social"},
	{Key: "vacancy_count", Label: "Vagas"},
}

// Labels returns the column labels in order.
func Labels() []string {
	labels := make([]string, len(Columns))
	for i, c := range Columns {
		labels[i] = c.Label
	}
	return labels
}

// Cells returns the record values in Columns order. The vacancy count stays
// an int.
func (r FlatRecord) Cells() []any {
	return []any{r.SolicitationID, r.Title, r.Requester, r.VacancyType, r.CompanyName, r.VacancyCount}
}

// RankingEntry is the total vacancy count of one requester.
type RankingEntry struct {
	Requester string `json:"requester"`
	Total     int    `json:"total"`
}
