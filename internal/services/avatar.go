package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/maypok86/otter/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
	"github.com/yungbote/lunatwin-backend/internal/observability"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

const (
	badgeSize             = 256
	badgeRingWidth        = 14
	defaultAvatarCacheLen = 256
)

var ringTrack = color.NRGBA{R: 255, G: 255, B: 255, A: 70}

// AvatarService renders the persona badge: a disc in the persona colour, an energy ring, and initials.
type AvatarService interface {
	RenderTwin(ctx context.Context) ([]byte, error)
	Render(persona types.Persona, ind types.Indicators) ([]byte, error)
}

type avatarService struct {
	log     *logger.Logger
	twins   TwinService
	metrics *observability.Metrics
	cache   *otter.Cache[string, []byte]

	// font.Face keeps a glyph cache and is not safe for concurrent use.
	faceMu   sync.Mutex
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, twins TwinService, metrics *observability.Metrics, cacheSize int) (AvatarService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultAvatarCacheLen
	}
	face, err := loadFontFace(goregular.TTF, 84)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}
	return &avatarService{
		log:     log.With("service", "AvatarService"),
		twins:   twins,
		metrics: metrics,
		cache: otter.Must(&otter.Options[string, []byte]{
			MaximumSize: cacheSize,
		}),
		fontFace: face,
	}, nil
}

func (as *avatarService) RenderTwin(ctx context.Context) ([]byte, error) {
	view, err := as.twins.Get(ctx)
	if err != nil {
		return nil, err
	}
	return as.Render(view.Twin.Persona, view.Twin.Indicators)
}

func (as *avatarService) Render(persona types.Persona, ind types.Indicators) ([]byte, error) {
	key := fmt.Sprintf("%s|%d", persona, ind.EnergyLevel)
	if png, ok := as.cache.GetIfPresent(key); ok {
		as.metrics.CacheLookup("avatar", true)
		return png, nil
	}
	as.metrics.CacheLookup("avatar", false)

	info, ok := twin.Info(persona)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPersona, persona)
	}
	base, err := parseHexColor(info.Color)
	if err != nil {
		return nil, fmt.Errorf("persona %s colour: %w", persona, err)
	}

	buf, err := as.draw(base, initials(info.Name), ind.EnergyLevel)
	if err != nil {
		return nil, err
	}
	png := buf.Bytes()
	as.cache.Set(key, png)
	return png, nil
}

func (as *avatarService) draw(base color.NRGBA, label string, energy int) (bytes.Buffer, error) {
	const size = float64(badgeSize)
	cx, cy := size/2, size/2

	dc := gg.NewContext(badgeSize, badgeSize)

	dc.DrawCircle(cx, cy, size/2)
	dc.Clip()
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, size, size)
	dc.Fill()
	dc.ResetClip()

	r := size/2 - badgeRingWidth
	dc.SetLineWidth(badgeRingWidth / 2)
	dc.SetColor(ringTrack)
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
	if energy > 0 {
		start := -math.Pi / 2
		sweep := 2 * math.Pi * float64(min(energy, 100)) / 100
		dc.SetColor(color.White)
		dc.DrawArc(cx, cy, r, start, start+sweep)
		dc.Stroke()
	}

	as.faceMu.Lock()
	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(label, cx, cy, 0.5, 0.35)
	as.faceMu.Unlock()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// initials takes the first letter of up to two words: "Balanced Bloom" -> "BB".
func initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(w[:1]))
		if b.Len() == 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected 6 hex chars, got %q", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}, nil
}

func loadFontFace(fontBytes []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
