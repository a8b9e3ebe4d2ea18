package breed

import "fmt"

// Dictionary holds the canonical breed names plus the alias and family tables
// used by the resolver. The data is fixed at startup and never mutated.
type Dictionary struct {
	canonical []string
	aliases   map[string]string
	families  map[string][]string
	familyOf  map[string]string
}

// NewDictionary builds a dictionary from the provided tables. An empty
// canonical list is a configuration error and is rejected here so callers
// fail at startup instead of producing empty resolutions per request.
func NewDictionary(canonical []string, aliases map[string]string, families map[string][]string) (*Dictionary, error) {
	if len(canonical) == 0 {
		return nil, fmt.Errorf("breed dictionary requires at least one canonical breed")
	}

	d := &Dictionary{
		canonical: make([]string, 0, len(canonical)),
		aliases:   make(map[string]string, len(aliases)),
		families:  make(map[string][]string, len(families)),
		familyOf:  make(map[string]string),
	}

	for _, name := range canonical {
		d.canonical = append(d.canonical, normalizeTerm(name))
	}

	for alias, target := range aliases {
		d.aliases[normalizeTerm(alias)] = normalizeTerm(target)
	}

	for family, members := range families {
		key := normalizeTerm(family)
		normalized := make([]string, 0, len(members))
		for _, member := range members {
			m := normalizeTerm(member)
			normalized = append(normalized, m)
			d.familyOf[m] = key
		}
		d.families[key] = normalized
	}

	return d, nil
}

// DefaultDictionary returns the built-in breed data.
func DefaultDictionary() *Dictionary {
	d, err := NewDictionary(defaultCanonical, defaultAliases, defaultFamilies)
	if err != nil {
		// The built-in tables are non-empty by construction.
		panic(err)
	}
	return d
}

// Canonical reports whether the normalized term is a canonical breed name.
func (d *Dictionary) Canonical(term string) bool {
	for _, name := range d.canonical {
		if name == term {
			return true
		}
	}
	return false
}

// CanonicalNames returns a copy of the canonical breed list.
func (d *Dictionary) CanonicalNames() []string {
	out := make([]string, len(d.canonical))
	copy(out, d.canonical)
	return out
}

// Alias returns the canonical name for a known alias.
func (d *Dictionary) Alias(term string) (string, bool) {
	target, ok := d.aliases[term]
	return target, ok
}

// Family returns the member list for a family key.
func (d *Dictionary) Family(key string) ([]string, bool) {
	members, ok := d.families[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(members))
	copy(out, members)
	return out, true
}

// FamilyOf returns the family key a canonical breed belongs to, if any.
func (d *Dictionary) FamilyOf(name string) (string, bool) {
	key, ok := d.familyOf[name]
	return key, ok
}

var defaultCanonical = []string{
	"labrador retriever",
	"golden retriever",
	"flat-coated retriever",
	"chesapeake bay retriever",
	"nova scotia duck tolling retriever",
	"german shepherd dog",
	"australian shepherd",
	"belgian malinois",
	"anatolian shepherd",
	"shetland sheepdog",
	"border collie",
	"rough collie",
	"australian cattle dog",
	"pembroke welsh corgi",
	"cardigan welsh corgi",
	"poodle",
	"miniature poodle",
	"toy poodle",
	"goldendoodle",
	"labradoodle",
	"bernedoodle",
	"sheepadoodle",
	"aussiedoodle",
	"cavapoo",
	"cockapoo",
	"poodle mix",
	"bichon frise",
	"maltese",
	"shih tzu",
	"lhasa apso",
	"havanese",
	"cavalier king charles spaniel",
	"cocker spaniel",
	"english springer spaniel",
	"brittany spaniel",
	"beagle",
	"basset hound",
	"bloodhound",
	"dachshund",
	"greyhound",
	"whippet",
	"rhodesian ridgeback",
	"coonhound",
	"treeing walker coonhound",
	"black and tan coonhound",
	"boxer",
	"bulldog",
	"english bulldog",
	"french bulldog",
	"boston terrier",
	"pug",
	"chihuahua",
	"pomeranian",
	"papillon",
	"yorkshire terrier",
	"jack russell terrier",
	"rat terrier",
	"bull terrier",
	"american staffordshire terrier",
	"staffordshire bull terrier",
	"pit bull terrier",
	"american pit bull terrier",
	"airedale terrier",
	"west highland white terrier",
	"scottish terrier",
	"cairn terrier",
	"schnauzer",
	"miniature schnauzer",
	"giant schnauzer",
	"doberman pinscher",
	"rottweiler",
	"great dane",
	"mastiff",
	"bullmastiff",
	"cane corso",
	"saint bernard",
	"bernese mountain dog",
	"great pyrenees",
	"newfoundland",
	"siberian husky",
	"alaskan malamute",
	"samoyed",
	"akita",
	"shiba inu",
	"chow chow",
	"dalmatian",
	"vizsla",
	"weimaraner",
	"german shorthaired pointer",
	"english setter",
	"irish setter",
	"basenji",
	"shar-pei",
	"carolina dog",
	"american eskimo dog",
	"keeshond",
	"mixed breed",
}

var defaultAliases = map[string]string{
	"lab":                "labrador retriever",
	"labrador":           "labrador retriever",
	"yellow lab":         "labrador retriever",
	"black lab":          "labrador retriever",
	"chocolate lab":      "labrador retriever",
	"golden":             "golden retriever",
	"gsd":                "german shepherd dog",
	"german shepherd":    "german shepherd dog",
	"alsatian":           "german shepherd dog",
	"aussie":             "australian shepherd",
	"sheltie":            "shetland sheepdog",
	"collie":             "rough collie",
	"blue heeler":        "australian cattle dog",
	"red heeler":         "australian cattle dog",
	"heeler":             "australian cattle dog",
	"corgi":              "pembroke welsh corgi",
	"golden doodle":      "goldendoodle",
	"labra doodle":       "labradoodle",
	"berne doodle":       "bernedoodle",
	"cavachon":           "cavapoo",
	"king charles":       "cavalier king charles spaniel",
	"cavalier":           "cavalier king charles spaniel",
	"springer":           "english springer spaniel",
	"springer spaniel":   "english springer spaniel",
	"brittany":           "brittany spaniel",
	"doxie":              "dachshund",
	"wiener dog":         "dachshund",
	"walker hound":       "treeing walker coonhound",
	"frenchie":           "french bulldog",
	"bulldog mix":        "bulldog",
	"staffy":             "staffordshire bull terrier",
	"amstaff":            "american staffordshire terrier",
	"pit bull":           "pit bull terrier",
	"pitbull":            "pit bull terrier",
	"pittie":             "pit bull terrier",
	"jack russell":       "jack russell terrier",
	"yorkie":             "yorkshire terrier",
	"westie":             "west highland white terrier",
	"scottie":            "scottish terrier",
	"mini schnauzer":     "miniature schnauzer",
	"doberman":           "doberman pinscher",
	"dobie":              "doberman pinscher",
	"rottie":             "rottweiler",
	"berner":             "bernese mountain dog",
	"pyrenees":           "great pyrenees",
	"pyr":                "great pyrenees",
	"newfie":             "newfoundland",
	"husky":              "siberian husky",
	"malamute":           "alaskan malamute",
	"sammy":              "samoyed",
	"chow":               "chow chow",
	"gsp":                "german shorthaired pointer",
	"shepherd":           "german shepherd dog",
	"st bernard":         "saint bernard",
	"st. bernard":        "saint bernard",
	"eskie":              "american eskimo dog",
	"mutt":               "mixed breed",
	"mix":                "mixed breed",
	"mixed":              "mixed breed",
	"all american":       "mixed breed",
	"heinz 57":           "mixed breed",
	"carolina dog mix":   "carolina dog",
	"standard poodle":    "poodle",
	"mini poodle":        "miniature poodle",
	"teacup poodle":      "toy poodle",
	"boston":             "boston terrier",
	"pom":                "pomeranian",
	"shihtzu":            "shih tzu",
	"english pointer":    "german shorthaired pointer",
	"bully":              "bulldog",
	"chessie":            "chesapeake bay retriever",
	"toller":             "nova scotia duck tolling retriever",
	"malinois":           "belgian malinois",
	"shar pei":           "shar-pei",
	"sharpei":            "shar-pei",
}

// defaultFamilies groups breeds that interchangeably satisfy the same wanted
// term. A wanted "doodle" matches any named doodle cross, and a "lab mix"
// matches anything in the retriever family.
var defaultFamilies = map[string][]string{
	"doodle": {
		"goldendoodle",
		"labradoodle",
		"bernedoodle",
		"sheepadoodle",
		"aussiedoodle",
		"cavapoo",
		"cockapoo",
		"poodle mix",
		"poodle",
	},
	"retriever": {
		"labrador retriever",
		"golden retriever",
		"flat-coated retriever",
		"chesapeake bay retriever",
		"nova scotia duck tolling retriever",
	},
	"shepherd": {
		"german shepherd dog",
		"australian shepherd",
		"belgian malinois",
		"anatolian shepherd",
	},
	"spaniel": {
		"cavalier king charles spaniel",
		"cocker spaniel",
		"english springer spaniel",
		"brittany spaniel",
	},
	"hound": {
		"beagle",
		"basset hound",
		"bloodhound",
		"coonhound",
		"treeing walker coonhound",
		"black and tan coonhound",
		"greyhound",
		"whippet",
	},
	"bully": {
		"pit bull terrier",
		"american pit bull terrier",
		"american staffordshire terrier",
		"staffordshire bull terrier",
		"bull terrier",
		"bulldog",
		"english bulldog",
	},
}
