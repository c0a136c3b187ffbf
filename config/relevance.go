package config

// Relevance scoring weights. The base is granted to every record that
// survives the second-call filter; priority and category are mutually
// exclusive with priority winning.
const (
	PointsSecondCall      = 5
	PointsPriorityOrg     = 5
	PointsOrgCategory     = 2
	PointsUrgency         = 3
	PointsPerKeyword      = 1
	DefaultRelevanceLimit = 7
)

// SecondCallKeywords mark a listing title as a possible re-publication.
// Matching is case- and diacritic-insensitive substring search.
var SecondCallKeywords = []string{
	"segundo llamado",
	"2do llamado",
	"republicacion",
}

// PriorityOrganizations are matched exactly (case-insensitive) against the
// buyer name. Empty by default; reviewers maintain this list per campaign.
var PriorityOrganizations = []string{}

// OrgCategory pairs a category name with the keywords that place a buyer in
// it. Substring match on the normalized organization name.
type OrgCategory struct {
	Name     string
	Keywords []string
}

// Categories is ordered and the order is significant: the first matching
// (category, keyword) pair wins, earlier categories shadow later ones.
var Categories = []OrgCategory{
	{Name: "municipal", Keywords: []string{
		"Municipalidad",
		"Municipio",
		"Comuna",
		"Asociación de Municipalidades",
		"Corp. Municipal",
	}},
	{Name: "salud", Keywords: []string{
		"Hospital",
		"Consultorio",
		"CESFAM",
		"Servicio de Salud",
		"Central de Abastecimiento",
		"Salud",
	}},
	{Name: "gobierno_central", Keywords: []string{
		"Ministerio",
		"Subsecretaría",
		"Agencia",
		"Comisión",
		"Instituto",
		"Delegación Presidencial",
	}},
	{Name: "educacion_superior", Keywords: []string{
		"Universidad",
		"Centro de Formación Técnica",
		"CFT",
	}},
	{Name: "obras_publicas_serviu", Keywords: []string{
		"MOP",
		"SERVIU",
		"Dirección de Obras",
		"Vivienda y Urbanización",
	}},
	{Name: "fuerzas_armadas", Keywords: []string{
		"Ejército",
		"Armada",
		"Fuerza Aérea",
		"Carabineros",
		"Policia de Investigaciones",
		"GENDARMERIA",
		"Defensa Nacional",
	}},
	{Name: "judicial_legislativo", Keywords: []string{
		"Tribunal",
		"Judicial",
		"Contraloría",
		"Ministerio Público",
		"Cámara de Diputados",
		"Senado",
	}},
	{Name: "corporaciones_varias", Keywords: []string{
		"Corporación Cultural",
		"Corporación de Deportes",
		"Fundación",
	}},
}
