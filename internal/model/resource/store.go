package resource

// Store exposes wellness resources for HTTP handlers.
type Store interface {
	Guides() []BreathingGuide
	FindGuide(id string) (BreathingGuide, bool)
	Contacts() []Contact
}

// MemoryStore implements Store with in-memory slices.
type MemoryStore struct {
	guides   []BreathingGuide
	contacts []Contact
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied resources.
func NewMemoryStore(guides []BreathingGuide, contacts []Contact) *MemoryStore {
	return &MemoryStore{
		guides:   append([]BreathingGuide(nil), guides...),
		contacts: append([]Contact(nil), contacts...),
	}
}

// Guides returns every breathing guide.
func (s *MemoryStore) Guides() []BreathingGuide {
	return append([]BreathingGuide(nil), s.guides...)
}

// FindGuide looks up a breathing guide by identifier.
func (s *MemoryStore) FindGuide(id string) (BreathingGuide, bool) {
	for _, guide := range s.guides {
		if guide.ID == id {
			return guide, true
		}
	}
	return BreathingGuide{}, false
}

// Contacts returns the support contacts.
func (s *MemoryStore) Contacts() []Contact {
	return append([]Contact(nil), s.contacts...)
}
