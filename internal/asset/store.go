package asset

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/montagehq/montage/backend-go/internal/typeid"
)

// Store keeps uploaded images on disk, one PNG per asset ID. IDs are
// unique so stored files never change after write.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) path(assetID string) string {
	return filepath.Join(s.dir, assetID+".png")
}

// SavePNG encodes img as PNG under a freshly minted asset ID.
func (s *Store) SavePNG(img image.Image) (string, error) {
	return s.savePNGAs(typeid.NewAssetID(), img)
}

// SaveCutoutPNG stores img under a cutout asset ID so callers can tell
// processed cut-outs apart from source uploads.
func (s *Store) SaveCutoutPNG(img image.Image) (string, error) {
	return s.savePNGAs(typeid.NewCutoutID(), img)
}

func (s *Store) savePNGAs(assetID string, img image.Image) (string, error) {
	path := s.path(assetID)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("encode png: %w", err)
	}
	return assetID, nil
}

// Load decodes the stored PNG for assetID.
func (s *Store) Load(assetID string) (image.Image, error) {
	if err := typeid.ValidateAny(assetID); err != nil {
		return nil, fmt.Errorf("invalid asset id: %w", err)
	}
	f, err := os.Open(s.path(assetID))
	if err != nil {
		return nil, fmt.Errorf("open asset %s: %w", assetID, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", assetID, err)
	}
	return img, nil
}

// Delete removes an asset file from disk.
func (s *Store) Delete(assetID string) error {
	if err := os.Remove(s.path(assetID)); err != nil {
		return fmt.Errorf("asset not found: %s", assetID)
	}
	return nil
}
