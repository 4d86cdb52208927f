// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"strings"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// disciplineKeywords maps lowercase interest/field fragments to the
// Spanish discipline labels used in the published table. Order matters:
// earlier entries win when a profile mentions several disciplines.
var disciplineKeywords = []struct {
	keyword string
	label   string
}{
	{"political science", "Ciencia Política"},
	{"political", "Ciencia Política"},
	{"politic", "Ciencia Política"},
	{"international relations", "Ciencia Política"},
	{"sociolog", "Sociología"},
	{"anthropolog", "Antropología"},
	{"economic", "Economía"},
	{"econom", "Economía"},
	{"psycholog", "Psicología"},
	{"education", "Educación"},
	{"communicat", "Comunicación"},
	{"journalism", "Comunicación"},
	{"media", "Comunicación"},
	{"geograph", "Geografía"},
	{"urban", "Geografía"},
	{"demograph", "Demografía"},
	{"law", "Derecho"},
	{"legal", "Derecho"},
	{"history", "Historia"},
	{"public policy", "Políticas Públicas"},
	{"public administration", "Políticas Públicas"},
	{"social work", "Trabajo Social"},
	{"gender", "Estudios de Género"},
	{"business", "Administración"},
	{"management", "Administración"},
}

// disciplineCodes abbreviates the Spanish labels for narrow table
// columns.
var disciplineCodes = map[string]string{
	"Ciencia Política":    "CP",
	"Sociología":          "Soc",
	"Antropología":        "Antr",
	"Economía":            "Econ",
	"Psicología":          "Psic",
	"Educación":           "Educ",
	"Comunicación":        "Com",
	"Geografía":           "Geo",
	"Demografía":          "Dem",
	"Derecho":             "Der",
	"Historia":            "Hist",
	"Políticas Públicas":  "PP",
	"Trabajo Social":      "TS",
	"Estudios de Género":  "EG",
	"Administración":      "Adm",
	"Ciencias Sociales":   "CS",
}

// institutionShortNames maps the long institutional names the providers
// return to the short forms used in the published ranking.
var institutionShortNames = map[string]string{
	"Pontificia Universidad Católica de Chile":      "PUC Chile",
	"Pontificia Universidad Catolica de Chile":      "PUC Chile",
	"Universidad de Chile":                          "U. de Chile",
	"Universidad Diego Portales":                    "UDP",
	"Universidad de Santiago de Chile":              "USACH",
	"Universidad Católica de Temuco":                "UC Temuco",
	"Universidad de Concepción":                     "UdeC",
	"Universidad Adolfo Ibáñez":                     "UAI",
	"Universidad Alberto Hurtado":                   "UAH",
	"Universidad Andrés Bello":                      "UNAB",
	"Universidad Austral de Chile":                  "UACh",
	"Universidad de Talca":                          "U. de Talca",
	"Universidad de Valparaíso":                     "UV",
	"Universidad del Desarrollo":                    "UDD",
	"Universidad de La Frontera":                    "UFRO",
	"Universidad Católica del Norte":                "UCN",
	"Pontificia Universidad Católica de Valparaíso": "PUCV",
	"Universidad de Tarapacá":                       "UTA",
	"Universidad de Los Andes, Chile":               "UANDES",
	"Universidad Mayor":                             "U. Mayor",
	"Universidad Central de Chile":                  "U. Central",
	"Universidad Academia de Humanismo Cristiano":   "UAHC",
	"Universidad de O'Higgins":                      "UOH",
	"Universidad Bernardo O'Higgins":                "UBO",
	"Centro de Estudios Públicos":                   "CEP",
}

// ClassifyDiscipline derives the discipline label for a record from its
// primary field and interests. The first keyword hit wins; records with
// no usable signal land in the generic bucket.
func ClassifyDiscipline(r types.AuthorRecord) string {
	signals := make([]string, 0, len(r.Interests)+1)
	if r.PrimaryField != "" {
		signals = append(signals, strings.ToLower(r.PrimaryField))
	}
	for _, interest := range r.Interests {
		signals = append(signals, strings.ToLower(interest))
	}

	for _, entry := range disciplineKeywords {
		for _, signal := range signals {
			if strings.Contains(signal, entry.keyword) {
				return entry.label
			}
		}
	}
	return "Ciencias Sociales"
}

// AbbreviateDiscipline returns the short code for a discipline label,
// or the label itself when no code is registered.
func AbbreviateDiscipline(label string) string {
	if code, ok := disciplineCodes[label]; ok {
		return code
	}
	return label
}

// AbbreviateInstitution shortens a provider affiliation string. The
// lookup tries the full string first, then searches for a known long
// name embedded in free-text affiliations like "Profesor Titular,
// Universidad de Chile".
func AbbreviateInstitution(affiliation string) string {
	if affiliation == "" {
		return ""
	}
	if short, ok := institutionShortNames[affiliation]; ok {
		return short
	}
	for long, short := range institutionShortNames {
		if strings.Contains(affiliation, long) {
			return short
		}
	}
	return affiliation
}
