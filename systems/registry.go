package systems

// PhaseInfo describes one phase of the annual cycle.
type PhaseInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string
	Category    string
}

// Phase categories.
const (
	CategoryEnvironment = "environment"
	CategoryFeeding     = "feeding"
	CategoryPopulation  = "population"
	CategoryMovement    = "movement"
)

// PhaseCategories lists every category in reporting order.
var PhaseCategories = []string{CategoryEnvironment, CategoryFeeding, CategoryPopulation, CategoryMovement}

// Phase identifiers in execution order.
const (
	PhaseRegrow       = "regrow"
	PhaseFeedGrazers  = "feedGrazers"
	PhaseFeedPredator = "feedPredators"
	PhaseBreeding     = "breeding"
	PhaseDesirability = "desirability"
	PhaseMigration    = "migration"
	PhaseAging        = "aging"
	PhaseDeath        = "death"
)

// PhaseRegistry holds metadata about the annual cycle phases.
// This keeps the cycle order and the perf tracker in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with every phase of the annual cycle,
// in the order they run.
func NewPhaseRegistry() *PhaseRegistry {
	reg := &PhaseRegistry{
		byID: make(map[string]PhaseInfo),
	}
	reg.registerDefaults()
	return reg
}

func (r *PhaseRegistry) registerDefaults() {
	r.Register(PhaseInfo{ID: PhaseRegrow, Name: "Regrow", Description: "Regrows fodder in accessible cells", Category: CategoryEnvironment})

	r.Register(PhaseInfo{ID: PhaseFeedGrazers, Name: "Grazing", Description: "Herbivores graze, fittest first", Category: CategoryFeeding})
	r.Register(PhaseInfo{ID: PhaseFeedPredator, Name: "Predation", Description: "Carnivores hunt the weakest prey first", Category: CategoryFeeding})

	r.Register(PhaseInfo{ID: PhaseBreeding, Name: "Breeding", Description: "Residents reproduce", Category: CategoryPopulation})

	r.Register(PhaseInfo{ID: PhaseDesirability, Name: "Desirability", Description: "Scores cells from the pre-migration state", Category: CategoryMovement})
	r.Register(PhaseInfo{ID: PhaseMigration, Name: "Migration", Description: "Animals move to neighboring cells", Category: CategoryMovement})

	r.Register(PhaseInfo{ID: PhaseAging, Name: "Aging", Description: "Ages animals and applies weight loss", Category: CategoryPopulation})
	r.Register(PhaseInfo{ID: PhaseDeath, Name: "Death", Description: "Removes animals dying of natural causes", Category: CategoryPopulation})
}

// Register adds a phase to the registry.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	r.phases = append(r.phases, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *PhaseRegistry) All() []PhaseInfo {
	return r.phases
}

// ByCategory returns phases filtered by category.
func (r *PhaseRegistry) ByCategory(category string) []PhaseInfo {
	var result []PhaseInfo
	for _, info := range r.phases {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in execution order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
