// Package domain defines the closed set of life-data domains and the
// entity types that flow through the extraction pipeline.
package domain

// Domain identifies which life-data category an extracted entity
// belongs to. The set is closed; anything outside it fails validation.
type Domain string

const (
	Financial     Domain = "financial"
	Health        Domain = "health"
	Insurance     Domain = "insurance"
	Home          Domain = "home"
	Vehicles      Domain = "vehicles"
	Appliances    Domain = "appliances"
	Pets          Domain = "pets"
	Relationships Domain = "relationships"
	Digital       Domain = "digital"
	Mindfulness   Domain = "mindfulness"
	Fitness       Domain = "fitness"
	Nutrition     Domain = "nutrition"
	Miscellaneous Domain = "miscellaneous"
	Calendar      Domain = "calendar"
	Tasks         Domain = "tasks"

	// Retrieval is a pseudo-domain: the utterance is a search query,
	// not data to persist. Satisfying the query is the caller's job.
	Retrieval Domain = "retrieval"
)

// Info describes a domain for prompt composition and CLI display.
type Info struct {
	Domain      Domain   `json:"domain" yaml:"domain"`
	Description string   `json:"description" yaml:"description"`
	FieldHints  []string `json:"field_hints" yaml:"field_hints"`
}

// catalog is assembled once as a single literal. Nothing appends to it
// after init; treat it as immutable.
var catalog = []Info{
	{Financial, "Money movements: expenses, income, bills, transfers", []string{"amount", "type", "category", "merchant", "date"}},
	{Health, "Medical records, measurements, symptoms, medications", []string{"recordType", "weight", "systolic", "diastolic", "notes", "date"}},
	{Insurance, "Policies, premiums, claims, renewals", []string{"policyType", "provider", "premium", "renewalDate"}},
	{Home, "House maintenance, repairs, improvements, utilities", []string{"itemType", "description", "cost", "date"}},
	{Vehicles, "Car maintenance, fuel, mileage, registrations", []string{"vehicleName", "serviceType", "cost", "mileage", "date"}},
	{Appliances, "Appliance purchases, warranties, repairs", []string{"applianceName", "eventType", "cost", "date"}},
	{Pets, "Pet health records, vet visits, weights, feeding", []string{"petName", "species", "type", "weight", "notes", "date"}},
	{Relationships, "Interactions and notes about people: gifts, calls, birthdays", []string{"personName", "interactionType", "notes", "date"}},
	{Digital, "Subscriptions, memberships, accounts, licenses", []string{"serviceName", "category", "cost", "renewalDate"}},
	{Mindfulness, "Meditation, journaling, mood, gratitude", []string{"practiceType", "duration", "mood", "notes", "date"}},
	{Fitness, "Workouts and physical activity", []string{"activityType", "type", "duration", "distance", "calories", "date"}},
	{Nutrition, "Meals, snacks, water, calories", []string{"itemType", "foodName", "calories", "quantity", "date"}},
	{Miscellaneous, "Anything that fits no other domain", []string{"description", "date"}},
	{Calendar, "Appointments, meetings, interviews, events with a time", []string{"title", "type", "startTime", "endTime", "location"}},
	{Tasks, "To-dos and reminders", []string{"title", "dueDate", "priority", "status"}},
	{Retrieval, "A request to look up previously stored data, not new data", []string{"query", "targetDomain"}},
}

var catalogIndex = func() map[Domain]Info {
	m := make(map[Domain]Info, len(catalog))
	for _, info := range catalog {
		m[info.Domain] = info
	}
	return m
}()

// Catalog returns the full domain catalog in stable order.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for d.
func Lookup(d Domain) (Info, bool) {
	info, ok := catalogIndex[d]
	return info, ok
}

// IsValid reports whether d is a member of the closed domain set.
func (d Domain) IsValid() bool {
	_, ok := catalogIndex[d]
	return ok
}

// All returns every known domain in catalog order.
func All() []Domain {
	out := make([]Domain, len(catalog))
	for i, info := range catalog {
		out[i] = info.Domain
	}
	return out
}
