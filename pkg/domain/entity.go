package domain

// ExtractedEntity is a single structured record pulled out of an
// utterance. Data values are transported generically; numeric amounts
// travel as decimal strings to avoid precision loss across JSON
// boundaries.
type ExtractedEntity struct {
	Domain      Domain         `json:"domain"`
	Confidence  int            `json:"confidence"`
	Title       string         `json:"title"`
	RawText     string         `json:"rawText"`
	Description string         `json:"description,omitempty"`
	Data        map[string]any `json:"data"`
}

// DataString returns the value for key as a string, if present.
func (e ExtractedEntity) DataString(key string) (string, bool) {
	v, ok := e.Data[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// HasData reports whether key is present with a non-nil, non-empty value.
func (e ExtractedEntity) HasData(key string) bool {
	v, ok := e.Data[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

// CloneData returns a shallow copy of the entity with its own data map,
// so enrichment never mutates the caller's entity.
func (e ExtractedEntity) CloneData() ExtractedEntity {
	data := make(map[string]any, len(e.Data))
	for k, v := range e.Data {
		data[k] = v
	}
	e.Data = data
	return e
}

// MultiEntityResult is the envelope returned by a successful extraction.
type MultiEntityResult struct {
	Entities             []ExtractedEntity `json:"entities"`
	OriginalInput        string            `json:"originalInput"`
	Timestamp            string            `json:"timestamp"`
	RequiresConfirmation bool              `json:"requiresConfirmation"`
	Ambiguities          []string          `json:"ambiguities,omitempty"`
}

// EntityConflict pairs a rejected entity with the reasons it failed
// domain validation.
type EntityConflict struct {
	Entity ExtractedEntity `json:"entity"`
	Errors []string        `json:"errors"`
}

// RoutingResult partitions extracted entities into those accepted for
// persistence and those needing manual resolution.
type RoutingResult struct {
	RoutedEntities []ExtractedEntity `json:"routedEntities"`
	Conflicts      []EntityConflict  `json:"conflicts,omitempty"`
}

// Preferences are user defaults the model may use to resolve pronouns
// and omissions ("fed the dog" -> the user's default pet).
type Preferences struct {
	DefaultPetName string `json:"defaultPetName,omitempty"`
	DefaultVehicle string `json:"defaultVehicle,omitempty"`
	DefaultHome    string `json:"defaultHome,omitempty"`
}

// UserContext carries optional per-user hints into prompt composition.
type UserContext struct {
	RecentEntries []string    `json:"recentEntries,omitempty"`
	Preferences   Preferences `json:"preferences,omitempty"`

	// Domains, when non-empty, restricts extraction to these domains.
	Domains []Domain `json:"domains,omitempty"`
}
