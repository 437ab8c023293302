package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
)

// FavoritesService keeps the favorites map persisted under a single key.
// Every mutation rewrites the whole map synchronously.
type FavoritesService struct {
	store  domain.KeyValueStore
	logger *slog.Logger

	mu        sync.Mutex // Serializes read-modify-write of the blob
	obsMu     sync.RWMutex
	observers map[int]domain.FavoritesObserver
	nextObsID int
}

// NewFavoritesService creates a favorites service backed by store
func NewFavoritesService(store domain.KeyValueStore, logger *slog.Logger) *FavoritesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FavoritesService{
		store:     store,
		logger:    logger,
		observers: make(map[int]domain.FavoritesObserver),
	}
}

// load reads the persisted map. A missing or corrupt blob yields an empty map.
func (s *FavoritesService) load() map[string]domain.Event {
	data, ok := s.store.Get(domain.FavoritesKey)
	if !ok || len(data) == 0 {
		return make(map[string]domain.Event)
	}

	var favorites map[string]domain.Event
	if err := json.Unmarshal(data, &favorites); err != nil {
		s.logger.Warn("favorites blob is corrupt, treating as empty", "key", domain.FavoritesKey, "error", err)
		return make(map[string]domain.Event)
	}
	if favorites == nil {
		favorites = make(map[string]domain.Event)
	}
	return favorites
}

// save overwrites the persisted map
func (s *FavoritesService) save(favorites map[string]domain.Event) error {
	if len(favorites) == 0 {
		if err := s.store.Delete(domain.FavoritesKey); err != nil {
			return fmt.Errorf("failed to save favorites: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := s.store.Set(domain.FavoritesKey, data); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

// All returns every favorite ordered by start date, start time, then id
func (s *FavoritesService) All() []domain.Event {
	s.mu.Lock()
	favorites := s.load()
	s.mu.Unlock()

	events := make([]domain.Event, 0, len(favorites))
	for _, ev := range favorites {
		events = append(events, ev)
	}
	sortByStart(events)
	return events
}

// IsFavorite reports whether id is stored
func (s *FavoritesService) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.load()[id]
	return ok
}

// Toggle removes id if present, otherwise stores a copy of event under id.
// It returns the new favorite state.
func (s *FavoritesService) Toggle(id string, event domain.Event) (bool, error) {
	s.mu.Lock()
	favorites := s.load()

	_, present := favorites[id]
	if present {
		delete(favorites, id)
	} else {
		favorites[id] = event
	}

	if err := s.save(favorites); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to toggle favorite", "id", id, "error", err)
		return present, err
	}
	count := len(favorites)
	s.mu.Unlock()

	s.logger.Info("favorite toggled", "id", id, "favorite", !present, "count", count)
	s.notify(domain.FavoritesChange{ID: id, Favorite: !present, Count: count})
	return !present, nil
}

// Add stores event, replacing any earlier snapshot with the same id
func (s *FavoritesService) Add(event domain.Event) error {
	if event.ID == "" {
		return fmt.Errorf("cannot favorite an event without an id")
	}

	s.mu.Lock()
	favorites := s.load()
	favorites[event.ID] = event
	if err := s.save(favorites); err != nil {
		s.mu.Unlock()
		return err
	}
	count := len(favorites)
	s.mu.Unlock()

	s.notify(domain.FavoritesChange{ID: event.ID, Favorite: true, Count: count})
	return nil
}

// Remove deletes id. It returns false when id was not a favorite.
func (s *FavoritesService) Remove(id string) (bool, error) {
	s.mu.Lock()
	favorites := s.load()
	if _, ok := favorites[id]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(favorites, id)
	if err := s.save(favorites); err != nil {
		s.mu.Unlock()
		return false, err
	}
	count := len(favorites)
	s.mu.Unlock()

	s.notify(domain.FavoritesChange{ID: id, Favorite: false, Count: count})
	return true, nil
}

// Match returns favorites whose name or venue fuzzily matches query, best
// matches first. A blank query returns All().
func (s *FavoritesService) Match(query string) []domain.Event {
	query = strings.TrimSpace(query)
	all := s.All()
	if query == "" {
		return all
	}

	type ranked struct {
		event    domain.Event
		distance int
		index    int
	}

	matches := make([]ranked, 0, len(all))
	for i, ev := range all {
		best := -1
		for _, target := range matchTargets(ev) {
			d := fuzzy.RankMatchNormalizedFold(query, target)
			if d >= 0 && (best < 0 || d < best) {
				best = d
			}
		}
		if best >= 0 {
			matches = append(matches, ranked{event: ev, distance: best, index: i})
		}
	}

	// Lower distance is better; ties keep chronological order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	results := make([]domain.Event, len(matches))
	for i, m := range matches {
		results[i] = m.event
	}
	return results
}

func matchTargets(ev domain.Event) []string {
	targets := []string{ev.Name}
	if venue, ok := ev.PrimaryVenue(); ok {
		targets = append(targets, venue.Name, venue.City)
	}
	return targets
}

// Subscribe registers obs for change notifications. The returned function
// removes the registration and is safe to call more than once.
func (s *FavoritesService) Subscribe(obs domain.FavoritesObserver) func() {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = obs
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *FavoritesService) notify(change domain.FavoritesChange) {
	s.obsMu.RLock()
	observers := make([]domain.FavoritesObserver, 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.obsMu.RUnlock()

	for _, obs := range observers {
		obs.OnFavoritesChanged(change)
	}
}

// sortByStart orders events chronologically; missing dates sort last
func sortByStart(events []domain.Event) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i].Start, events[j].Start
		if a.LocalDate != b.LocalDate {
			if a.LocalDate == "" || b.LocalDate == "" {
				return b.LocalDate == ""
			}
			return a.LocalDate < b.LocalDate
		}
		if a.LocalTime != b.LocalTime {
			return a.LocalTime < b.LocalTime
		}
		return events[i].ID < events[j].ID
	})
}
