package gst

import "strings"

// stateByCode maps 2-letter GST state codes to the state name used on
// registered addresses. Values are compared lowercase against free-text
// jurisdiction strings.
var stateByCode = map[string]string{
	"an": "andaman and nicobar islands",
	"ap": "andhra pradesh",
	"ar": "arunachal pradesh",
	"as": "assam",
	"br": "bihar",
	"ch": "chandigarh",
	"cg": "chhattisgarh",
	"dn": "dadra and nagar haveli and daman and diu",
	"dl": "delhi",
	"ga": "goa",
	"gj": "gujarat",
	"hr": "haryana",
	"hp": "himachal pradesh",
	"jk": "jammu and kashmir",
	"jh": "jharkhand",
	"ka": "karnataka",
	"kl": "kerala",
	"la": "ladakh",
	"ld": "lakshadweep",
	"mp": "madhya pradesh",
	"mh": "maharashtra",
	"mn": "manipur",
	"ml": "meghalaya",
	"mz": "mizoram",
	"nl": "nagaland",
	"od": "odisha",
	"py": "puducherry",
	"pb": "punjab",
	"rj": "rajasthan",
	"sk": "sikkim",
	"tn": "tamil nadu",
	"ts": "telangana",
	"tr": "tripura",
	"up": "uttar pradesh",
	"uk": "uttarakhand",
	"wb": "west bengal",
}

// StateNameForCode resolves a 2-letter state code to its full name.
func StateNameForCode(code string) (string, bool) {
	name, ok := stateByCode[strings.ToLower(strings.TrimSpace(code))]
	return name, ok
}

// IsValidStateCode reports whether code is a known 2-letter state code.
func IsValidStateCode(code string) bool {
	_, ok := StateNameForCode(code)
	return ok
}
