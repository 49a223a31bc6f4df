// Package theme holds the per-category color themes of the homepage and the
// controller that switches between them.
package theme

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
)

// Category is a content category with its own theme.
type Category string

const (
	Movies Category = "movies"
	TV     Category = "tv"
	Music  Category = "music"
	Games  Category = "games"
)

// Categories lists every category in tab order.
var Categories = []Category{Movies, TV, Music, Games}

// ErrUnknownCategory is returned for a category without a theme.
var ErrUnknownCategory = errors.New("theme: unknown category")

// Theme is the palette and copy shown for a category.
type Theme struct {
	Category   Category
	Title      string
	Subtitle   string
	Accent     color.RGBA
	Background color.NRGBA // translucent tint laid over the page base
	Gradient   [2]color.RGBA
	Shapes     []color.RGBA
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// tint is an accent color at 10% alpha.
func tint(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 26}
}

var themes = map[Category]Theme{
	Movies: {
		Category:   Movies,
		Title:      "What's Hot in Movies",
		Subtitle:   "Discover trending blockbusters, hidden gems, and must-watch classics",
		Accent:     rgb(0xff, 0x6b, 0x6b),
		Background: tint(255, 107, 107),
		Gradient:   [2]color.RGBA{rgb(0xff, 0x6b, 0x6b), rgb(0xee, 0x5a, 0x24)},
		Shapes:     []color.RGBA{rgb(0xff, 0x6b, 0x6b), rgb(0xee, 0x5a, 0x24), rgb(0xff, 0x9f, 0xf3)},
	},
	TV: {
		Category:   TV,
		Title:      "Trending TV Shows",
		Subtitle:   "Binge-worthy series and must-watch episodes",
		Accent:     rgb(0x4f, 0xac, 0xfe),
		Background: tint(79, 172, 254),
		Gradient:   [2]color.RGBA{rgb(0x4f, 0xac, 0xfe), rgb(0x00, 0xf2, 0xfe)},
		Shapes:     []color.RGBA{rgb(0x4f, 0xac, 0xfe), rgb(0x00, 0xf2, 0xfe), rgb(0x66, 0x7e, 0xea)},
	},
	Music: {
		Category:   Music,
		Title:      "What's Playing",
		Subtitle:   "Discover new beats, trending albums, and rising artists",
		Accent:     rgb(0x43, 0xe9, 0x7b),
		Background: tint(78, 205, 196),
		Gradient:   [2]color.RGBA{rgb(0x43, 0xe9, 0x7b), rgb(0x38, 0xf9, 0xd7)},
		Shapes:     []color.RGBA{rgb(0x43, 0xe9, 0x7b), rgb(0x38, 0xf9, 0xd7), rgb(0x4e, 0xcd, 0xc4)},
	},
	Games: {
		Category:   Games,
		Title:      "Gaming Universe",
		Subtitle:   "Epic adventures, trending games, and gaming culture",
		Accent:     rgb(0xfa, 0x70, 0x9a),
		Background: tint(250, 112, 154),
		Gradient:   [2]color.RGBA{rgb(0xfa, 0x70, 0x9a), rgb(0xfe, 0xe1, 0x40)},
		Shapes:     []color.RGBA{rgb(0xfa, 0x70, 0x9a), rgb(0xfe, 0xe1, 0x40), rgb(0xf0, 0x93, 0xfb)},
	},
}

// Lookup returns the theme of a category.
func Lookup(c Category) (Theme, error) {
	t, ok := themes[c]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	return t, nil
}

// ShapeColor returns the color of the i-th decorative shape, cycling through
// the theme's shape palette.
func (t Theme) ShapeColor(i int) color.RGBA {
	if len(t.Shapes) == 0 {
		return t.Accent
	}
	return t.Shapes[i%len(t.Shapes)]
}

// Controller tracks the active theme and notifies subscribers on change.
type Controller struct {
	mu        sync.RWMutex
	current   Theme
	listeners []func(Theme)
}

// NewController creates a controller starting on the given category.
func NewController(initial Category) (*Controller, error) {
	t, err := Lookup(initial)
	if err != nil {
		return nil, err
	}
	return &Controller{current: t}, nil
}

// Current returns the active theme.
func (c *Controller) Current() Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Subscribe registers fn to be called after each theme change.
func (c *Controller) Subscribe(fn func(Theme)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Switch activates the theme of cat. It reports false without notifying
// anyone when cat is already active.
func (c *Controller) Switch(cat Category) (bool, error) {
	t, err := Lookup(cat)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	if c.current.Category == cat {
		c.mu.Unlock()
		return false, nil
	}
	c.current = t
	listeners := make([]func(Theme), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
	return true, nil
}
