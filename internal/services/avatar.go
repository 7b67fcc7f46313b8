package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type AvatarService interface {
	CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log           *logger.Logger
	bucketService BucketService
	bgColors      []color.NRGBA
	fontFace      font.Face
}

// Yarn-dye palette for generated initial avatars.
var defaultAvatarColors = []color.NRGBA{
	{R: 0x7C, G: 0x4D, B: 0x8C, A: 0xFF},
	{R: 0x3E, G: 0x6B, B: 0x89, A: 0xFF},
	{R: 0xB0, G: 0x5B, B: 0x3B, A: 0xFF},
	{R: 0x4A, G: 0x7C, B: 0x59, A: 0xFF},
	{R: 0x8C, G: 0x3B, B: 0x54, A: 0xFF},
	{R: 0x5B, G: 0x5E, B: 0xA6, A: 0xFF},
}

func NewAvatarService(log *logger.Logger, bucketService BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := os.Getenv("AVATAR_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("Env var AVATAR_FONT is empty")
	}
	serviceLog.Info("Loading avatar font", "font", fontPath)

	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:           serviceLog,
		bucketService: bucketService,
		bgColors:      defaultAvatarColors,
		fontFace:      face,
	}, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())
	if err := as.bucketService.UploadFile(ctx, key, "image/png", bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to upload user avatar: %w", err)
	}
	user.AvatarURL = as.bucketService.GetPublicURL(key)
	return nil
}

// GenerateUserAvatar renders the user's initials on a deterministic
// background color. Rendered at 512px and downscaled to 256 for smoother
// glyph edges.
func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	var out bytes.Buffer
	if user == nil {
		return out, fmt.Errorf("user required")
	}

	const renderSize = 512
	const finalSize = 256

	bg := as.bgColors[colorIndexFor(user, len(as.bgColors))]

	dc := gg.NewContext(renderSize, renderSize)
	dc.SetColor(bg)
	dc.Clear()

	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	dc.DrawStringAnchored(userInitials(user), renderSize/2, renderSize/2, 0.5, 0.5)

	scaled := image.NewNRGBA(image.Rect(0, 0, finalSize, finalSize))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)

	if err := png.Encode(&out, scaled); err != nil {
		return out, fmt.Errorf("failed to encode avatar png: %w", err)
	}
	return out, nil
}

func userInitials(user *types.User) string {
	initials := firstLetter(user.FirstName) + firstLetter(user.LastName)
	if initials == "" {
		initials = firstLetter(user.Email)
	}
	if initials == "" {
		initials = "?"
	}
	return initials
}

// firstLetter takes the first rune, not the first byte, so names like
// "Øyvind" keep a valid initial.
func firstLetter(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return strings.ToUpper(string(r))
	}
	return ""
}

// Same user, same color, across regenerations.
func colorIndexFor(user *types.User, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(user.ID.String()))
	return int(h.Sum32() % uint32(n))
}

func loadFontFace(path string, points float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	f, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}
