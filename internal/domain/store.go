package domain

// FavoritesKey is the single key the favorites map is persisted under
const FavoritesKey = "favorites"

// FavoritesChange reports a mutation of the favorites map.
type FavoritesChange struct {
	ID       string // Event that was toggled
	Favorite bool   // State after the mutation
	Count    int    // Number of favorites after the mutation
}

// FavoritesObserver receives favorites change notifications.
type FavoritesObserver interface {
	OnFavoritesChanged(change FavoritesChange)
}
