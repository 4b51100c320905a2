package pitch

import "strings"

// Region groups selectable countries.
type Region struct {
	Name      string
	Countries []string
}

var regions = []Region{
	{Name: "Africa", Countries: []string{
		"Algeria", "Benin", "Botswana", "Angola", "Cameroon", "CAF", "Chad", "Comoros",
		"Togo", "Ethiopia", "Egypt", "Gabon", "Gambia", "Ghana", "Kenya", "Madagascar",
		"Malawi", "Morocco", "Niger", "Nigeria", "Rwanda", "Senegal", "South Africa", "Sudan",
	}},
	{Name: "Asia", Countries: []string{
		"China", "Japan", "India", "South Korea", "Indonesia", "Malaysia", "Philippines",
		"Singapore", "Thailand", "Vietnam",
	}},
	{Name: "Europe", Countries: []string{
		"United Kingdom", "France", "Germany", "Italy", "Spain", "Netherlands", "Belgium",
		"Sweden", "Norway", "Denmark", "Finland", "Switzerland",
	}},
	{Name: "South America", Countries: []string{
		"Brazil", "Argentina", "Colombia", "Chile", "Peru", "Venezuela", "Ecuador",
		"Bolivia", "Paraguay", "Uruguay",
	}},
	{Name: "North America", Countries: []string{"United States", "Canada", "Mexico"}},
}

// Regions returns the territory regions in display order.
func Regions() []Region {
	out := make([]Region, len(regions))
	for i, r := range regions {
		out[i] = Region{Name: r.Name, Countries: append([]string(nil), r.Countries...)}
	}
	return out
}

// LookupRegion finds a region by name, case-insensitively.
func LookupRegion(name string) (Region, bool) {
	for _, r := range Regions() {
		if strings.EqualFold(strings.TrimSpace(name), r.Name) {
			return r, true
		}
	}
	return Region{}, false
}

// AllCountries lists every country across regions in region order.
func AllCountries() []string {
	var out []string
	for _, r := range regions {
		out = append(out, r.Countries...)
	}
	return out
}

// CanonicalCountry returns the catalog spelling of raw.
func CanonicalCountry(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range AllCountries() {
		if strings.EqualFold(raw, c) {
			return c, true
		}
	}
	return "", false
}

// Territories is an insertion-ordered set of country names. The first
// element is the primary territory. The zero value is empty and ready to use.
type Territories struct {
	items []string
}

// NewTerritories builds a set from names, dropping blanks and duplicates.
func NewTerritories(names ...string) Territories {
	var t Territories
	for _, n := range names {
		t.Add(n)
	}
	return t
}

// Add appends name unless it is blank or already present. It reports whether
// the set changed.
func (t *Territories) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || t.Contains(name) {
		return false
	}
	t.items = append(t.items, name)
	return true
}

// Remove deletes name, promoting the next element when name was primary.
func (t *Territories) Remove(name string) bool {
	name = strings.TrimSpace(name)
	for i, item := range t.items {
		if item == name {
			t.items = append(t.items[:i:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports membership.
func (t Territories) Contains(name string) bool {
	name = strings.TrimSpace(name)
	for _, item := range t.items {
		if item == name {
			return true
		}
	}
	return false
}

// Primary returns the first-inserted element, or "" when empty.
func (t Territories) Primary() string {
	if len(t.items) == 0 {
		return ""
	}
	return t.items[0]
}

// Len returns the number of selected countries.
func (t Territories) Len() int {
	return len(t.items)
}

// List returns a copy of the selection in insertion order.
func (t Territories) List() []string {
	return append([]string(nil), t.items...)
}

// SelectAll replaces the selection with every country in region order.
func (t *Territories) SelectAll() {
	*t = NewTerritories(AllCountries()...)
}

// SetRegion replaces the selections belonging to region with countries,
// keeping selections from other regions in their existing order and
// appending the new ones after them. Countries outside the region are
// ignored.
func (t *Territories) SetRegion(region Region, countries ...string) {
	inRegion := make(map[string]struct{}, len(region.Countries))
	for _, c := range region.Countries {
		inRegion[c] = struct{}{}
	}

	kept := make([]string, 0, len(t.items)+len(countries))
	for _, item := range t.items {
		if _, ok := inRegion[item]; !ok {
			kept = append(kept, item)
		}
	}
	next := Territories{items: kept}
	for _, c := range countries {
		if _, ok := inRegion[strings.TrimSpace(c)]; ok {
			next.Add(c)
		}
	}
	*t = next
}
