package petfinder

import (
	"fmt"
	"net/url"
	"reflect"
)

const (
	AnimalsPath = "/animals"
)

// SearchParams describe an animals search around a single location.
type SearchParams struct {
	// pfparam is a custom reflect tag mapping a field to its API query
	// parameter. Fields without it fall back to the yaml tag.
	Location string   `yaml:"location"`
	Distance int      `yaml:"distance"`
	Ages     []string `pfparam:"age"`
	Sizes    []string `pfparam:"size"`
	Type     string   `yaml:"type"`
	Status   string   `yaml:"status"`
	Sort     string   `yaml:"sort"`
	Limit    string   `yaml:"limit" mapstructure:"limit"`
}

// Validate rejects parameter combinations the API would refuse, so a bad
// config fails at startup instead of mid-pagination.
func (p *SearchParams) Validate() error {
	if p.Distance < 0 {
		return fmt.Errorf("search distance must not be negative, got %d", p.Distance)
	}
	return nil
}

func (c *Client) search(params *SearchParams) (*Dogs, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Defaults the original service always pinned.
	if params.Type == "" {
		params.Type = "dog"
	}
	if params.Status == "" {
		params.Status = "adoptable"
	}
	if params.Sort == "" {
		params.Sort = "recent"
	}
	if params.Limit == "" {
		// Max page size; fewer round trips.
		params.Limit = perPage
	}

	q := buildParams(params)
	endpoint := fmt.Sprintf("%s%s", c.APIURL, AnimalsPath)

	items, err := c.GetAnimals(endpoint, q)
	if err != nil {
		return nil, err
	}

	return decodeDogs(items)
}

func (c *Client) getDog(id string) (*Dog, error) {
	endpoint := fmt.Sprintf("%s%s/%s", c.APIURL, AnimalsPath, url.PathEscape(id))

	var payload struct {
		Animal *Dog `json:"animal"`
	}
	notFound, err := c.getJSON(endpoint, nil, &payload)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}
	return payload.Animal, nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		key := field.Tag.Get("pfparam")
		if key == "" {
			key = field.Tag.Get("yaml")
		}
		kind := field.Type.Kind()
		switch kind {
		case reflect.Slice:
			s := reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface()
			if v, ok := s.([]string); ok {
				for _, value := range v {
					q.Add(key, value)
				}
			}
		default:
			value := fmt.Sprintf("%v", reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface())
			if value != "" && value != "0" {
				q.Set(key, value)
			}
		}
	}
	return q
}
