// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import "github.com/sociometrica/ranking-cs/pkg/types"

// defaultNameExclusions lists researchers the providers attribute to
// Chilean institutions in error: foreign academics, historical figures,
// and plain data mistakes found during manual review of past runs.
var defaultNameExclusions = []string{
	"Arend Lijphart",
	"Alain Touraine",
	"Max Weber",
	"Harold H. Joachim",
	"Marisa Bucheli",
	"Andrea Vigorito",
	"Adolfo Garcé",
	"Liliana de Riz",
	"Guillermo Durán",
	"Ricardo Paes de Barros",
	"Travis Gagie",
	"Diana Fletschner",
	"Diana Krüger",
	"José Gabriel Palma",
	"Fernando Gutiérrez Hidalgo",
	"Pablo A. Miranda",
	"W.G.P. Kumari",
	"Stefano Novellani",
	"J. Arzúa",
	"Fernando Alonso",
	"Pablo González",
	"Carola Blázquez",
	"Antônio Galvão Novaes",
	"Juan M. Corchado",
}

// defaultAffiliationDenylist lists affiliations that are not real
// Chilean research institutions.
var defaultAffiliationDenylist = []string{
	"Gobierno de Chile",
	"Partnership for Economic Policy",
	"World Bank Group",
	"World Health Organization",
	"University of Cambridge",
	"Vellore Institute of Technology",
	"University of Wollongong",
	"McGill University",
	"Dalhousie University",
	"IFP Énergies nouvelles",
	"Universitat de Barcelona",
	"Universidad Complutense de Madrid",
	"Universidad de Buenos Aires",
	"Universidade de Vigo",
	"Hospital Universitario de Canarias",
	"Universidad de la República",
}

// defaultFieldExclusions double-checks the provider classification:
// records whose primary field lands here are dropped even when the
// harvest filter passed them.
var defaultFieldExclusions = []string{
	"Computer Science",
	"Engineering",
	"Mathematics",
	"Physics and Astronomy",
	"Environmental Science",
	"Medicine",
	"Neuroscience",
}

// defaultKnownScholarIDs maps researcher names to manually verified
// Google Scholar profile IDs. Some names appear twice because providers
// return both ASCII and unicode hyphen spellings.
var defaultKnownScholarIDs = map[string]string{
	"David Altman":                "oZGkFZoAAAAJ",
	"Darío Páez":                  "KVva2AIAAAAJ",
	"Francisca Fariña Rivera":     "4JpTKi0AAAAJ",
	"Salvador Chacón Moscoso":     "LeQUGDIAAAAJ",
	"Miguel Alfaro":               "0zwnLpAAAAAJ",
	"Juan-Carlos Ferrer":          "1N8BNr8AAAAJ",
	"Juan‐Carlos Ferrer":          "1N8BNr8AAAAJ",
	"Cristóbal Rovira Kaltwasser": "RdXwR1EAAAAJ",
	"Alejandro Micco":             "BUc-k1MAAAAJ",
	"Claudio E. Montenegro":       "qO3kU6UAAAAJ",
	"Patricio Navia":              "IBcs-ZwAAAAJ",
	"José Joaquín Brunner":        "TX3te0QAAAAJ",
	"Alejandra Mizala":            "zmkA7uwAAAAJ",
	"Daniel Chernilo":             "QASCP9kAAAAJ",
	"Vicente Sisto":               "g_QWxVAAAAAJ",
	"Paula Ascorra":               "YVBJgLwAAAAJ",
	"Aldo Mascareño":              "7H4k-70AAAAJ",
	"Mahía Saracostti":            "pWZjC4AAAAAJ",
	"Juan Carlos Castillo":        "CPJ0qfQAAAAJ",
	"Nicolás M. Somma":            "yyr6ge0AAAAJ",
	"Cristóbal Villalobos":        "PM99kxMAAAAJ",
	"Mauricio Morales":            "BPVbhToAAAAJ",
	"Javier Núñez":                "2a__7xUAAAAJ",
	"Aldo Madariaga":              "n0UQqa4AAAAJ",
	"Jenny Assaél":                "4bK5XUQAAAAJ",
	"Cristián Parker Gumucio":     "8kIJIa4AAAAJ",
	"Cynthia Duk":                 "bxBuLfMAAAAJ",
	"Nicole Jenne":                "HaX6qs4AAAAJ",
	"Kathya Araujo":               "nukHXv0AAAAJ",
}

// DefaultRankingConfig returns the curated baseline configuration: the
// standing exclusion tables, the verified Scholar ID overrides, and the
// publication h-index floor. Callers layer file or flag overrides on
// top.
func DefaultRankingConfig() types.RankingConfig {
	return types.RankingConfig{
		MinHIndex:           1,
		NameExclusions:      append([]string(nil), defaultNameExclusions...),
		AffiliationDenylist: append([]string(nil), defaultAffiliationDenylist...),
		FieldExclusions:     append([]string(nil), defaultFieldExclusions...),
		KnownScholarIDs:     knownIDsCopy(),
	}
}

func knownIDsCopy() map[string]string {
	out := make(map[string]string, len(defaultKnownScholarIDs))
	for name, id := range defaultKnownScholarIDs {
		out[name] = id
	}
	return out
}
