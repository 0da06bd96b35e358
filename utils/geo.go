package utils

import (
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Coordinate is a lat/lng pair for a Mexican state capital area.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Approximate coordinates for the states tournaments run in. Keys are the
// display names used across the entity records.
var stateCoordinates = map[string]Coordinate{
	"CDMX":                {19.4326, -99.1332},
	"Jalisco":             {20.6597, -103.3496},
	"Nuevo León":          {25.6866, -100.3161},
	"Yucatán":             {20.9801, -89.6247},
	"Baja California":     {30.8406, -115.2838},
	"Baja California Sur": {26.0444, -111.6661},
	"Quintana Roo":        {19.1817, -88.4791},
	"Estado de México":    {19.4969, -99.7233},
	"Puebla":              {19.0414, -98.2063},
	"Veracruz":            {19.1738, -96.1342},
	"Guerrero":            {17.4392, -99.5451},
	"Chiapas":             {16.7569, -93.1292},
	"Oaxaca":              {17.0732, -96.7266},
	"Michoacán":           {19.5665, -101.7068},
	"Nayarit":             {21.7514, -104.8455},
	"Zacatecas":           {22.7709, -102.5832},
	"Hidalgo":             {20.0911, -98.7620},
	"Guanajuato":          {21.0190, -101.2574},
	"Sonora":              {29.2972, -110.3309},
	"Chihuahua":           {28.6330, -106.0691},
	"Coahuila":            {27.0587, -101.7068},
	"Tamaulipas":          {24.2669, -98.8363},
	"Sinaloa":             {25.1721, -107.4795},
	"Durango":             {24.0277, -104.6532},
	"San Luis Potosí":     {22.1565, -100.9855},
	"Aguascalientes":      {21.8818, -102.2916},
	"Tlaxcala":            {19.3182, -98.2375},
	"Morelos":             {18.6813, -99.1013},
	"Colima":              {19.2452, -103.7241},
	"Tabasco":             {17.8409, -92.6189},
	"Campeche":            {19.8301, -90.5349},
	"Querétaro":           {20.5888, -100.3899},
}

var normalizedStates = func() map[string]string {
	m := make(map[string]string, len(stateCoordinates))
	for name := range stateCoordinates {
		m[NormalizeState(name)] = name
	}
	return m
}()

var spanishTitle = cases.Title(language.Spanish)

// NormalizeState folds accents and casing so "yucatan", "Yucatán" and
// "YUCATAN" all land on the same key. Records come from free-text forms, the
// map still has to hit the coordinate table.
func NormalizeState(name string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(name)))
}

// CanonicalState returns the display name of a known state, or the input
// title-cased in Spanish when it is not in the table.
func CanonicalState(name string) string {
	if canonical, ok := normalizedStates[NormalizeState(name)]; ok {
		return canonical
	}
	return spanishTitle.String(strings.TrimSpace(name))
}

// LookupState resolves a state name (accent- and case-insensitive) to its
// coordinates. Destination strings like "Cancún, Quintana Roo" resolve via
// their trailing state component.
func LookupState(name string) (Coordinate, bool) {
	key := NormalizeState(name)
	if c, ok := stateCoordinates[normalizedStates[key]]; ok && normalizedStates[key] != "" {
		return c, true
	}
	// "city, state" form: try the part after the last comma.
	if idx := strings.LastIndex(name, ","); idx >= 0 {
		return LookupState(name[idx+1:])
	}
	return Coordinate{}, false
}
