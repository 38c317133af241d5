package process

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/userTI10/Dashboard-admissao/internal/holmes"
)

// Prop identifiers read from a document.
const (
	propTitle       = "titulo"
	propRequester   = "nome_do_solicitante"
	propVacancyType = "tipo_de_vaga"
	propCompany     = "razao_social"
	propVacancies   = "numero_de_vagas"
)

// VacancyFallback is the vacancy count used when the source value cannot be
// read as a non-negative integer.
const VacancyFallback = 0

// Project converts one document into a FlatRecord. It never fails.
func Project(doc holmes.RawDocument) FlatRecord {
	r, _ := ProjectChecked(doc)
	return r
}

// ProjectChecked is Project that also reports whether the vacancy count was
// read from the document (false means VacancyFallback was used).
func ProjectChecked(doc holmes.RawDocument) (FlatRecord, bool) {
	props := make(map[string]holmes.Prop, len(doc.Props))
	for _, p := range doc.Props {
		props[p.Identifier] = p
	}

	value := func(id string) any {
		if p, ok := props[id]; ok {
			return p.Value
		}
		return nil
	}

	var vacancyType any
	if p, ok := props[propVacancyType]; ok {
		vacancyType = p.Label
	}

	count, ok := CoerceVacancies(value(propVacancies))

	return FlatRecord{
		SolicitationID: doc.Identifier,
		Title:          stringValue(value(propTitle)),
		Requester:      stringValue(value(propRequester)),
		VacancyType:    stringValue(vacancyType),
		CompanyName:    stringValue(value(propCompany)),
		VacancyCount:   count,
	}, ok
}

// ProjectAll projects docs in order.
func ProjectAll(docs []holmes.RawDocument) []FlatRecord {
	records := make([]FlatRecord, len(docs))
	for i, d := range docs {
		records[i] = Project(d)
	}
	return records
}

// CoerceVacancies reads a vacancy count. ok is false when the fallback was
// used.
func CoerceVacancies(v any) (int, bool) {
	var n int64
	switch val := v.(type) {
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			f, ferr := val.Float64()
			if ferr != nil || !fitsInt(f) {
				return VacancyFallback, false
			}
			i = int64(f)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return VacancyFallback, false
		}
		n = i
	case float64:
		if !fitsInt(val) {
			return VacancyFallback, false
		}
		n = int64(val)
	case int:
		n = int64(val)
	case int64:
		n = val
	default:
		return VacancyFallback, false
	}

	if n < 0 || n > math.MaxInt32 {
		return VacancyFallback, false
	}
	return int(n), true
}

func fitsInt(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) < math.MaxInt64
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
