package petfinder

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	OrganizationsPath = "/organizations"
)

// Organization is the shelter behind a listing.
type Organization struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	URL   string `json:"url,omitempty"`
}

func (c *Client) getOrganization(id string) (*Organization, error) {
	cacheKey := "org:" + id
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*Organization), nil
	}

	endpoint := fmt.Sprintf("%s%s/%s", c.APIURL, OrganizationsPath, url.PathEscape(id))

	var payload struct {
		Organization *Organization `json:"organization"`
	}
	notFound, err := c.getJSON(endpoint, nil, &payload)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}

	if payload.Organization != nil {
		c.cache.Set(cacheKey, payload.Organization, orgCacheTTL)
	}
	return payload.Organization, nil
}

// organizationFromContact builds a best-effort shelter identity from the
// listing's contact block when the organizations endpoint has no answer.
// The name is derived from the email domain or the listing's city/state.
func organizationFromContact(dog *Dog) *Organization {
	org := &Organization{
		ID:    dog.OrganizationID,
		Email: dog.Contact.Email,
		Phone: dog.Contact.Phone,
	}

	city := strings.TrimSpace(dog.Contact.Address.City)
	state := strings.TrimSpace(dog.Contact.Address.State)

	if name := nameFromEmailDomain(dog.Contact.Email); name != "" {
		org.Name = name
	} else if city != "" && state != "" {
		org.Name = fmt.Sprintf("Shelter in %s, %s", city, state)
	} else {
		org.Name = "Unknown Shelter"
	}

	return org
}

func nameFromEmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	domain := email[at+1:]
	for _, suffix := range []string{".org", ".com", ".net"} {
		domain = strings.TrimSuffix(domain, suffix)
	}

	words := strings.FieldsFunc(domain, func(r rune) bool {
		return r == '.' || r == '-'
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
