// Package game runs the particle field in a desktop window with ebiten.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/content"
	"github.com/iburimskiy/particle-field/internal/driver"
	"github.com/iburimskiy/particle-field/internal/particle"
	"github.com/iburimskiy/particle-field/internal/theme"
)

const (
	// Button dimensions
	buttonWidth  = 120
	buttonHeight = 40
	buttonX      = 20
	buttonY      = 50

	headerHeight = 4
	itemsShown   = 3
)

var (
	pageBase  = color.RGBA{R: 10, G: 12, B: 20, A: 255}
	titleFace = text.NewGoXFace(basicfont.Face7x13)
)

var themeKeys = map[ebiten.Key]theme.Category{
	ebiten.Key1: theme.Movies,
	ebiten.Key2: theme.TV,
	ebiten.Key3: theme.Music,
	ebiten.Key4: theme.Games,
}

// Game implements ebiten.Game on top of a driver. Frames requested by the
// driver run on the next Update.
type Game struct {
	ctx    context.Context
	driver *driver.Driver
	frames driver.FrameQueue
	canvas *Canvas
	themes *theme.Controller
	shelf  *shelf
	logger *slog.Logger

	startedAt time.Time
	width     int
	height    int

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
}

// New creates a game for d. The game ends when ctx is done. client may be
// nil, in which case no carousels are shown.
func New(ctx context.Context, d *driver.Driver, themes *theme.Controller, client *content.Client, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Game{
		ctx:     ctx,
		driver:  d,
		canvas:  NewCanvas(),
		themes:  themes,
		shelf:   newShelf(ctx, client, logger),
		logger:  logger,
		prevKey: map[ebiten.Key]bool{},
	}
	themes.Subscribe(func(t theme.Theme) {
		g.logger.Info("theme switched", "category", t.Category)
		g.shelf.request(t.Category)
	})
	g.shelf.request(themes.Current().Category)
	return g
}

// RequestNextFrame queues cb for the next Update.
func (g *Game) RequestNextFrame(cb func()) {
	g.frames.RequestNextFrame(cb)
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if err := g.syncViewport(); err != nil {
		return err
	}
	g.frames.RunPending()

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}
	for _, k := range []ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ, ebiten.KeyR, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4} {
		if !justPressed(k) {
			continue
		}
		if err := g.handleKey(k); err != nil {
			return err
		}
	}

	// Handle button interactions
	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= buttonX && mouseX <= buttonX+buttonWidth &&
		mouseY >= buttonY && mouseY <= buttonY+buttonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			if err := g.openConfigDialog(); err != nil {
				g.lastErr = err
			}
		}
		g.buttonPressed = false
	}
	return nil
}

// syncViewport starts the driver once the window size is known and passes
// later size changes on as resizes.
func (g *Game) syncViewport() error {
	if g.width <= 0 || g.height <= 0 {
		return nil
	}
	b := particle.Bounds{Width: float64(g.width), Height: float64(g.height)}
	if g.driver.State() == driver.Uninitialized {
		g.startedAt = time.Now()
		return g.driver.Start(g.canvas, b, g)
	}
	if b != g.driver.Bounds() {
		g.driver.Resize(b)
	}
	return nil
}

// handleKey applies a just-pressed key.
func (g *Game) handleKey(k ebiten.Key) error {
	switch k {
	case ebiten.KeyEscape, ebiten.KeyQ:
		return ebiten.Termination
	case ebiten.KeyR:
		g.driver.Resize(g.driver.Bounds())
	default:
		cat, ok := themeKeys[k]
		if !ok {
			return nil
		}
		if _, err := g.themes.Switch(cat); err != nil {
			g.lastErr = err
		}
	}
	return nil
}

func (g *Game) openConfigDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Load Config"),
		zenity.FileFilters{{
			Name:     "YAML",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(filename)
	if err != nil {
		return err
	}
	g.applyConfig(cfg)
	g.logger.Info("config loaded", "path", filename)
	return nil
}

// applyConfig swaps the particle and link settings and reseeds the field.
func (g *Game) applyConfig(cfg *config.Config) {
	g.driver.Simulator().SetParams(cfg.Params())
	g.driver.Renderer().SetOptions(cfg.RenderOptions())
	g.driver.SetCount(cfg.Field.Count)
	if _, err := g.themes.Switch(theme.Category(cfg.Theme.Default)); err != nil {
		g.lastErr = err
		return
	}
	g.lastErr = nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	t := g.themes.Current()
	g.drawBackground(screen, t)

	if img := g.canvas.Image(); img != nil {
		screen.DrawImage(img, nil)
	}

	g.drawButton(screen)
	g.drawHUD(screen, t)
}

func (g *Game) drawBackground(screen *ebiten.Image, t theme.Theme) {
	screen.Fill(pageBase)
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	vector.DrawFilledRect(screen, 0, 0, w, h, t.Background, false)

	// Floating shapes behind the field
	for i := 0; i < 3; i++ {
		c := t.ShapeColor(i)
		x := w * (0.2 + 0.3*float32(i))
		y := h * (0.3 + 0.2*float32(i%2))
		vector.DrawFilledCircle(screen, x, y, 60+20*float32(i), withAlpha(c, 0.08), true)
	}

	// Accent header drawn as the theme gradient
	for x := float32(0); x < w; x += 2 {
		c := lerpRGBA(t.Gradient[0], t.Gradient[1], float64(x/w))
		vector.StrokeLine(screen, x, 0, x, headerHeight, 2, c, false)
	}
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}
	vector.DrawFilledRect(screen, buttonX, buttonY, buttonWidth, buttonHeight, bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, buttonX, buttonY, buttonWidth, buttonHeight, 2, borderColor, false)

	label := "Load Config"
	labelWidth := len(label) * 6 // debug font glyph width
	labelX := buttonX + (buttonWidth-labelWidth)/2
	labelY := buttonY + (buttonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, label, labelX, labelY)
}

func (g *Game) drawHUD(screen *ebiten.Image, t theme.Theme) {
	status := fmt.Sprintf("Esc/Q quit | 1-4 theme | R reseed | frame %d | %s",
		g.driver.Tick(), formatDuration(g.uptime()))
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)

	y := buttonY + buttonHeight + 20
	op := &text.DrawOptions{}
	op.GeoM.Translate(12, float64(y))
	op.ColorScale.ScaleWithColor(t.Accent)
	text.Draw(screen, t.Title, titleFace, op)
	ebitenutil.DebugPrintAt(screen, t.Subtitle, 12, y+20)
	y += 44

	for _, line := range g.carouselLines(t.Category) {
		ebitenutil.DebugPrintAt(screen, line, 12, y)
		y += 16
	}
}

// carouselLines summarizes the loaded carousels of cat, one line each.
func (g *Game) carouselLines(cat theme.Category) []string {
	sections, ok := g.shelf.get(cat)
	if !ok {
		if g.shelf.pending(cat) {
			return []string{"Loading..."}
		}
		return nil
	}

	lines := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Err != nil {
			lines = append(lines, s.Carousel.ID+": unavailable")
			continue
		}
		titles := make([]string, 0, itemsShown)
		for _, it := range s.Items {
			if len(titles) == itemsShown {
				break
			}
			titles = append(titles, it.Title)
		}
		lines = append(lines, s.Carousel.ID+": "+strings.Join(titles, ", "))
	}
	return lines
}

func (g *Game) uptime() time.Duration {
	if g.startedAt.IsZero() {
		return 0
	}
	return time.Since(g.startedAt)
}

// Layout records the window size; the driver picks it up on the next Update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until the game ends.
func Run(g *Game, w config.WindowConfig, tps int) error {
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	if w.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(tps)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}
