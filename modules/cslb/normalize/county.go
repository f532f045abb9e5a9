package normalize

// countyByCity covers the association's service area. Keys are normalized
// city names (see City); values match the county spelling CSLB publishes.
var countyByCity = map[string]string{
	"Alameda":       "ALAMEDA",
	"Berkeley":      "ALAMEDA",
	"Fremont":       "ALAMEDA",
	"Hayward":       "ALAMEDA",
	"Oakland":       "ALAMEDA",
	"San Leandro":   "ALAMEDA",
	"Antioch":       "CONTRA COSTA",
	"Concord":       "CONTRA COSTA",
	"Richmond":      "CONTRA COSTA",
	"Walnut Creek":  "CONTRA COSTA",
	"Eureka":        "HUMBOLDT",
	"Novato":        "MARIN",
	"San Rafael":    "MARIN",
	"Napa":          "NAPA",
	"Sacramento":    "SACRAMENTO",
	"San Francisco": "SAN FRANCISCO",
	"Lodi":          "SAN JOAQUIN",
	"Stockton":      "SAN JOAQUIN",
	"Daly City":     "SAN MATEO",
	"Redwood City":  "SAN MATEO",
	"San Mateo":     "SAN MATEO",
	"Mountain View": "SANTA CLARA",
	"Palo Alto":     "SANTA CLARA",
	"San Jose":      "SANTA CLARA",
	"Santa Clara":   "SANTA CLARA",
	"Sunnyvale":     "SANTA CLARA",
	"Fairfield":     "SOLANO",
	"Vacaville":     "SOLANO",
	"Vallejo":       "SOLANO",
	"Petaluma":      "SONOMA",
	"Santa Rosa":    "SONOMA",
	"Modesto":       "STANISLAUS",
	"Yuba City":     "SUTTER",
}
