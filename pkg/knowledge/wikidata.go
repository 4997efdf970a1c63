package knowledge

// WikidataCountries maps country names to Wikidata entity URIs.
var WikidataCountries = map[string]string{
	"United States":  "http://www.wikidata.org/entity/Q30",
	"Canada":         "http://www.wikidata.org/entity/Q16",
	"United Kingdom": "http://www.wikidata.org/entity/Q145",
	"Mexico":         "http://www.wikidata.org/entity/Q96",
}

// WikidataUSCountryURI is the Wikidata entity for the United States, the
// default country on generated PostalAddress entities.
const WikidataUSCountryURI = "http://www.wikidata.org/entity/Q30"

// WikidataStates maps US state names to Wikidata entity URIs.
var WikidataStates = map[string]string{
	"Alabama":        "http://www.wikidata.org/entity/Q173",
	"Alaska":         "http://www.wikidata.org/entity/Q797",
	"Arizona":        "http://www.wikidata.org/entity/Q816",
	"Arkansas":       "http://www.wikidata.org/entity/Q1612",
	"California":     "http://www.wikidata.org/entity/Q99",
	"Colorado":       "http://www.wikidata.org/entity/Q1261",
	"Connecticut":    "http://www.wikidata.org/entity/Q779",
	"Delaware":       "http://www.wikidata.org/entity/Q1393",
	"Florida":        "http://www.wikidata.org/entity/Q812",
	"Georgia":        "http://www.wikidata.org/entity/Q1428",
	"Hawaii":         "http://www.wikidata.org/entity/Q782",
	"Idaho":          "http://www.wikidata.org/entity/Q1221",
	"Illinois":       "http://www.wikidata.org/entity/Q1204",
	"Indiana":        "http://www.wikidata.org/entity/Q1415",
	"Iowa":           "http://www.wikidata.org/entity/Q1546",
	"Kansas":         "http://www.wikidata.org/entity/Q1558",
	"Kentucky":       "http://www.wikidata.org/entity/Q1603",
	"Louisiana":      "http://www.wikidata.org/entity/Q1588",
	"Maine":          "http://www.wikidata.org/entity/Q724",
	"Maryland":       "http://www.wikidata.org/entity/Q1391",
	"Massachusetts":  "http://www.wikidata.org/entity/Q771",
	"Michigan":       "http://www.wikidata.org/entity/Q1166",
	"Minnesota":      "http://www.wikidata.org/entity/Q1527",
	"Mississippi":    "http://www.wikidata.org/entity/Q1494",
	"Missouri":       "http://www.wikidata.org/entity/Q1581",
	"Montana":        "http://www.wikidata.org/entity/Q1212",
	"Nebraska":       "http://www.wikidata.org/entity/Q1553",
	"Nevada":         "http://www.wikidata.org/entity/Q1227",
	"New Hampshire":  "http://www.wikidata.org/entity/Q759",
	"New Jersey":     "http://www.wikidata.org/entity/Q1408",
	"New Mexico":     "http://www.wikidata.org/entity/Q1522",
	"New York":       "http://www.wikidata.org/entity/Q1384",
	"North Carolina": "http://www.wikidata.org/entity/Q1454",
	"North Dakota":   "http://www.wikidata.org/entity/Q1207",
	"Ohio":           "http://www.wikidata.org/entity/Q1397",
	"Oklahoma":       "http://www.wikidata.org/entity/Q1649",
	"Oregon":         "http://www.wikidata.org/entity/Q824",
	"Pennsylvania":   "http://www.wikidata.org/entity/Q1400",
	"Rhode Island":   "http://www.wikidata.org/entity/Q1387",
	"South Carolina": "http://www.wikidata.org/entity/Q1456",
	"South Dakota":   "http://www.wikidata.org/entity/Q1211",
	"Tennessee":      "http://www.wikidata.org/entity/Q1509",
	"Texas":          "http://www.wikidata.org/entity/Q1439",
	"Utah":           "http://www.wikidata.org/entity/Q829",
	"Vermont":        "http://www.wikidata.org/entity/Q16551",
	"Virginia":       "http://www.wikidata.org/entity/Q1370",
	"Washington":     "http://www.wikidata.org/entity/Q1223",
	"West Virginia":  "http://www.wikidata.org/entity/Q1371",
	"Wisconsin":      "http://www.wikidata.org/entity/Q1537",
	"Wyoming":        "http://www.wikidata.org/entity/Q1214",
}

// WikidataCities maps major US city names to Wikidata entity URIs.
var WikidataCities = map[string]string{
	"New York City, NY": "http://www.wikidata.org/entity/Q60",
	"Los Angeles, CA":   "http://www.wikidata.org/entity/Q65",
	"Chicago, IL":       "http://www.wikidata.org/entity/Q1297",
	"Houston, TX":       "http://www.wikidata.org/entity/Q16555",
	"Phoenix, AZ":       "http://www.wikidata.org/entity/Q16556",
	"Philadelphia, PA":  "http://www.wikidata.org/entity/Q1345",
	"San Antonio, TX":   "http://www.wikidata.org/entity/Q975",
	"San Diego, CA":     "http://www.wikidata.org/entity/Q16552",
	"Dallas, TX":        "http://www.wikidata.org/entity/Q16557",
	"San Jose, CA":      "http://www.wikidata.org/entity/Q16553",
	"Austin, TX":        "http://www.wikidata.org/entity/Q16559",
	"Jacksonville, FL":  "http://www.wikidata.org/entity/Q16568",
	"San Francisco, CA": "http://www.wikidata.org/entity/Q62",
	"Seattle, WA":       "http://www.wikidata.org/entity/Q5083",
	"Denver, CO":        "http://www.wikidata.org/entity/Q16554",
	"Boston, MA":        "http://www.wikidata.org/entity/Q100",
	"Detroit, MI":       "http://www.wikidata.org/entity/Q12439",
	"Miami, FL":         "http://www.wikidata.org/entity/Q8652",
	"Atlanta, GA":       "http://www.wikidata.org/entity/Q23556",
	"Minneapolis, MN":   "http://www.wikidata.org/entity/Q36091",
}

// WikidataServiceConcepts maps service/industry concept names to Wikidata URIs.
var WikidataServiceConcepts = map[string]string{
	"Water damage":       "http://www.wikidata.org/entity/Q929023",
	"Fire":               "http://www.wikidata.org/entity/Q3196",
	"Mold":               "http://www.wikidata.org/entity/Q37212",
	"Plumbing":           "http://www.wikidata.org/entity/Q165029",
	"HVAC":               "http://www.wikidata.org/entity/Q166111",
	"Roofing":            "http://www.wikidata.org/entity/Q190928",
	"Kitchen remodeling": "http://www.wikidata.org/entity/Q11406",
	"Construction":       "http://www.wikidata.org/entity/Q385378",
	"Restoration":        "http://www.wikidata.org/entity/Q217845",
	"Cleaning":           "http://www.wikidata.org/entity/Q507166",
}

// LookupWikidataURI returns the known Wikidata URI for a concept name, checking
// service concepts, cities, states and countries in that order. Lookup is by
// exact name; enrichment never invents an identifier.
func LookupWikidataURI(name string) (string, bool) {
	if uri, ok := WikidataServiceConcepts[name]; ok {
		return uri, true
	}
	if uri, ok := WikidataCities[name]; ok {
		return uri, true
	}
	if uri, ok := WikidataStates[name]; ok {
		return uri, true
	}
	if uri, ok := WikidataCountries[name]; ok {
		return uri, true
	}
	return "", false
}

// IsExternalURI reports whether an @id reference points outside the generated
// graph to a recognized external authority. Such references are not required
// to resolve in-graph.
func IsExternalURI(uri string) bool {
	prefixes := []string{
		"http://www.wikidata.org",
		"https://g.co",
		"https://www.google.com/maps",
	}
	for _, p := range prefixes {
		if len(uri) >= len(p) && uri[:len(p)] == p {
			return true
		}
	}
	return false
}
