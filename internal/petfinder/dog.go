package petfinder

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	DogIDField             = "ID"
	DogOrganizationIDField = "OrganizationID"
)

// Dogs is a mutable working list of dog listings.
type Dogs struct {
	Items []*Dog
}

// Dog is a single adoptable listing as returned by the provider. The core
// treats it as read-only input; fields the API leaves out stay zero and are
// handled as "unknown", never invented.
type Dog struct {
	ID             string `json:"id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	URL            string `json:"url,omitempty"`
	Name           string `json:"name,omitempty"`
	Age            string `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Size           string `json:"size,omitempty"`
	Status         string `json:"status,omitempty"`
	Breeds         struct {
		Primary   string `json:"primary,omitempty"`
		Secondary string `json:"secondary,omitempty"`
		Mixed     bool   `json:"mixed,omitempty"`
		Unknown   bool   `json:"unknown,omitempty"`
	} `json:"breeds,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
	Attributes  struct {
		SpayedNeutered bool `json:"spayed_neutered,omitempty"`
		HouseTrained   bool `json:"house_trained,omitempty"`
		SpecialNeeds   bool `json:"special_needs,omitempty"`
		ShotsCurrent   bool `json:"shots_current,omitempty"`
	} `json:"attributes,omitempty"`
	Environment struct {
		Children *bool `json:"children,omitempty"`
		Dogs     *bool `json:"dogs,omitempty"`
		Cats     *bool `json:"cats,omitempty"`
	} `json:"environment,omitempty"`
	Contact struct {
		Email   string `json:"email,omitempty"`
		Phone   string `json:"phone,omitempty"`
		Address struct {
			City     string `json:"city,omitempty"`
			State    string `json:"state,omitempty"`
			Postcode string `json:"postcode,omitempty"`
		} `json:"address,omitempty"`
	} `json:"contact,omitempty"`
	Distance     float64       `json:"distance,omitempty"`
	PublishedAt  string        `json:"published_at,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
}

// BreedNames returns the non-empty free-text breed names of the listing.
func (d *Dog) BreedNames() []string {
	var names []string
	if s := strings.TrimSpace(d.Breeds.Primary); s != "" {
		names = append(names, s)
	}
	if s := strings.TrimSpace(d.Breeds.Secondary); s != "" {
		names = append(names, s)
	}
	return names
}

// AgeBucket returns the normalized age bucket (baby, young, adult, senior)
// or "" when unknown.
func (d *Dog) AgeBucket() string {
	return strings.ToLower(strings.TrimSpace(d.Age))
}

// SizeBucket returns the normalized size bucket (small, medium, large,
// xlarge) or "" when unknown.
func (d *Dog) SizeBucket() string {
	s := strings.ToLower(strings.TrimSpace(d.Size))
	switch s {
	case "extra large", "extra-large", "xl":
		return "xlarge"
	}
	return s
}

// TemperamentTags returns the lowercased tag list.
func (d *Dog) TemperamentTags() []string {
	out := make([]string, 0, len(d.Tags))
	for _, tag := range d.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// EnergyLevel derives a coarse energy level (high, medium, low) from the
// listing's tags and description. Shelter listings rarely state this
// directly, so this stays best-effort; "" means unknown.
func (d *Dog) EnergyLevel() string {
	text := strings.ToLower(strings.Join(d.Tags, " ") + " " + d.Description)
	switch {
	case containsAnyTerm(text, []string{"couch potato", "low energy", "low-energy", "mellow", "lazy", "calm"}):
		return "low"
	case containsAnyTerm(text, []string{"high energy", "high-energy", "energetic", "athletic", "very active", "zoomies"}):
		return "high"
	case containsAnyTerm(text, []string{"moderate energy", "medium energy", "moderately active"}):
		return "medium"
	}
	return ""
}

// Barky reports whether the listing marks the dog as vocal.
func (d *Dog) Barky() bool {
	text := strings.ToLower(strings.Join(d.Tags, " ") + " " + d.Description)
	return containsAnyTerm(text, []string{"barky", "vocal", "talkative", "barks a lot", "loves to bark"})
}

// Hypoallergenic reports whether the listing itself claims the trait.
// Grounded explanations may only assert it when this is true.
func (d *Dog) Hypoallergenic() bool {
	text := strings.ToLower(strings.Join(d.Tags, " ") + " " + d.Description)
	return strings.Contains(text, "hypoallergenic")
}

// Fingerprint builds a stable identity key for cross-zip deduplication.
// Shelters frequently cross-post the same dog near several zip codes with a
// fresh listing id each time.
func (d *Dog) Fingerprint() string {
	parts := []string{
		d.Name,
		d.Breeds.Primary,
		d.Breeds.Secondary,
		d.Age,
		d.Size,
		d.Gender,
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|||")
}

// GetStringField returns a named string field for generic exclusion.
func (d *Dog) GetStringField(name string) string {
	switch name {
	case DogIDField:
		return d.ID
	case DogOrganizationIDField:
		return d.OrganizationID
	default:
		return ""
	}
}

func (d *Dogs) Len() int {
	return len(d.Items)
}

func (d *Dogs) FindByID(id string) *Dog {
	for _, dog := range d.Items {
		if dog.ID == id {
			return dog
		}
	}
	return nil
}

// Exclude removes dogs whose named field matches any target and returns the
// removed ids. Order of remaining items is preserved.
func (d *Dogs) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(targets))
	for _, t := range targets {
		wanted[t] = true
	}

	var excluded []string
	kept := d.Items[:0]
	for _, dog := range d.Items {
		if wanted[dog.GetStringField(name)] {
			excluded = append(excluded, dog.ID)
			continue
		}
		kept = append(kept, dog)
	}
	d.Items = kept
	return excluded
}

// Dedup removes listings sharing a fingerprint with an earlier listing and
// returns the removed ids.
func (d *Dogs) Dedup() []string {
	seen := make(map[string]bool, len(d.Items))
	var removed []string
	kept := d.Items[:0]
	for _, dog := range d.Items {
		fp := dog.Fingerprint()
		if seen[fp] {
			removed = append(removed, dog.ID)
			continue
		}
		seen[fp] = true
		kept = append(kept, dog)
	}
	d.Items = kept
	return removed
}

// Filter keeps only the dogs the predicate accepts and returns removed ids.
func (d *Dogs) Filter(keep func(*Dog) bool) []string {
	var removed []string
	kept := d.Items[:0]
	for _, dog := range d.Items {
		if !keep(dog) {
			removed = append(removed, dog.ID)
			continue
		}
		kept = append(kept, dog)
	}
	d.Items = kept
	return removed
}

// DumpToTmpFile writes the current list to a temp JSON file and returns its
// name. The same format is accepted by LoadDogsFromFile.
func (d *Dogs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "dogs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByShelter groups the listings by shelter for a quick overview.
func (d *Dogs) ReportByShelter() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, dog := range d.Items {
		name := "unknown shelter"
		if dog.Organization != nil && dog.Organization.Name != "" {
			name = dog.Organization.Name
		}
		key := fmt.Sprintf("%s (%s)", name, dog.OrganizationID)
		report[key] = append(report[key], map[string]string{
			"name":   dog.Name,
			"age":    dog.AgeBucket(),
			"size":   dog.SizeBucket(),
			"breeds": strings.Join(dog.BreedNames(), ", "),
			"url":    dog.URL,
		})
	}
	return report
}

// LoadDogsFromFile reads a JSON dump produced by DumpToTmpFile, letting the
// whole pipeline run offline.
func LoadDogsFromFile(path string) (*Dogs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return &Dogs{}, nil
	}

	var dogs Dogs
	if err := json.NewDecoder(file).Decode(&dogs); err != nil {
		return nil, fmt.Errorf("decoding dogs file %q: %w", path, err)
	}
	return &dogs, nil
}

func containsAnyTerm(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
