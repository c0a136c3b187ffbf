package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Call states reported by the API in estado_convocatoria.
const (
	FirstCall  = 1
	SecondCall = 2
)

// FlexInt decodes from a JSON number or a numeric string. Anything
// unparseable (including null) coerces to 0 rather than failing the record.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(int(v))
	return nil
}

// Amount is a CLP amount that remembers whether the source value was a
// parseable number. Invalid amounts are excluded from range filters.
type Amount struct {
	Value float64
	Valid bool
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*a = Amount{}
		return nil
	}
	*a = Amount{Value: v, Valid: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// Listing is one compra ágil opportunity as delivered by the listing API,
// plus the fields the classification stages layer on top. Stages copy the
// record and return a new one; raw fields are never mutated in place.
type Listing struct {
	ID           int64   `json:"id,omitempty"`
	Code         string  `json:"codigo,omitempty"`
	Name         string  `json:"nombre"`
	Organization string  `json:"organismo"`
	Status       FlexInt `json:"estado,omitempty"`

	AvailableAmount Amount  `json:"monto_disponible_CLP"`
	PublicationDate string  `json:"fecha_publicacion,omitempty"`
	ClosingDate     string  `json:"fecha_cierre,omitempty"`
	CallState       FlexInt `json:"estado_convocatoria,omitempty"`
	QuotingCount    FlexInt `json:"cantidad_provedores_cotizando,omitempty"`

	// Classification output. Absent until the corresponding stage runs.
	PriorityOrganization bool     `json:"es_organismo_prioritario,omitempty"`
	OrganizationCategory string   `json:"categoria_organismo,omitempty"`
	CategoryMatch        string   `json:"subcategoria_organismo,omitempty"`
	MatchedKeywords      []string `json:"keywords_encontradas_lista,omitempty"`
	MatchedKeywordCount  int      `json:"keywords_encontradas_conteo,omitempty"`
	UrgencyFlag          bool     `json:"alerta_oportunidad,omitempty"`
	PossibleSecondCall   bool     `json:"posible_segundo_llamado,omitempty"`
	ConfirmedSecondCall  bool     `json:"es_segundo_llamado,omitempty"`
	RelevanceScore       int      `json:"puntuacion_relevancia,omitempty"`
	ScoreReasons         []string `json:"motivos_puntuacion,omitempty"`

	Detail *Detail `json:"detalle,omitempty"`
}

// Key returns the canonical identity of the listing: the external code when
// present, otherwise the numeric id.
func (l Listing) Key() string {
	if l.Code != "" {
		return l.Code
	}
	return strconv.FormatInt(l.ID, 10)
}

// Detail carries the ficha payload and publication history fetched for one
// listing. A history longer than one entry is the authoritative signal that
// the listing is a re-publication.
type Detail struct {
	Code      string            `json:"codigo"`
	Ficha     json.RawMessage   `json:"ficha,omitempty"`
	History   []json.RawMessage `json:"historial"`
	FetchedAt time.Time         `json:"fecha_scraping_detalle"`
}

// PaginationMeta is the server-declared paging state of one list response.
type PaginationMeta struct {
	ResultCount int `json:"resultCount"`
	PageCount   int `json:"pageCount"`
	Page        int `json:"page"`
	PageSize    int `json:"pageSize"`
}

// APIResponse is the exact envelope of the compra-agil listing API.
type APIResponse struct {
	Success string      `json:"success"`
	Payload *APIPayload `json:"payload"`
}

// APIPayload holds the result page plus pagination counters.
type APIPayload struct {
	Results     []Listing `json:"resultados"`
	ResultCount int       `json:"resultCount"`
	PageCount   int       `json:"pageCount"`
	Page        int       `json:"page"`
	PageSize    int       `json:"pageSize"`
}

// SuccessValue is the literal the API uses to flag a good response.
const SuccessValue = "OK"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the timestamp formats the portal emits. The bool reports
// whether the value was parseable; callers treat false as "no date".
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
