package ingest

// stateNames expands 2-letter state abbreviations to full names during
// location normalization, so "dallas tx" and "dallas texas" index the
// same city_state text. Values are pre-normalized lowercase. Query text
// is deliberately not expanded; only stored text goes through this table.
var stateNames = map[string]string{
	"al": "alabama",
	"ak": "alaska",
	"az": "arizona",
	"ar": "arkansas",
	"ca": "california",
	"co": "colorado",
	"ct": "connecticut",
	"de": "delaware",
	"fl": "florida",
	"ga": "georgia",
	"hi": "hawaii",
	"id": "idaho",
	"il": "illinois",
	"in": "indiana",
	"ia": "iowa",
	"ks": "kansas",
	"ky": "kentucky",
	"la": "louisiana",
	"me": "maine",
	"md": "maryland",
	"ma": "massachusetts",
	"mi": "michigan",
	"mn": "minnesota",
	"ms": "mississippi",
	"mo": "missouri",
	"mt": "montana",
	"ne": "nebraska",
	"nv": "nevada",
	"nh": "new hampshire",
	"nj": "new jersey",
	"nm": "new mexico",
	"ny": "new york",
	"nc": "north carolina",
	"nd": "north dakota",
	"oh": "ohio",
	"ok": "oklahoma",
	"or": "oregon",
	"pa": "pennsylvania",
	"ri": "rhode island",
	"sc": "south carolina",
	"sd": "south dakota",
	"tn": "tennessee",
	"tx": "texas",
	"ut": "utah",
	"vt": "vermont",
	"va": "virginia",
	"wa": "washington",
	"wv": "west virginia",
	"wi": "wisconsin",
	"wy": "wyoming",
	"dc": "district of columbia",
	"as": "american samoa",
	"gu": "guam",
	"mp": "northern mariana islands",
	"pr": "puerto rico",
	"vi": "virgin islands",
}
