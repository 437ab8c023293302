package tui

import "github.com/mmcdole/marquee/internal/domain"

// ChannelObserver adapts domain.FavoritesObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- domain.FavoritesChange
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- domain.FavoritesChange) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnFavoritesChanged sends the change to the channel (non-blocking if full).
func (o *ChannelObserver) OnFavoritesChanged(change domain.FavoritesChange) {
	select {
	case o.ch <- change:
	default: // Non-blocking if channel full
	}
}
