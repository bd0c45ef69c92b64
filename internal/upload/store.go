// Package upload stores vehicle photos. Every accepted file is decoded and
// re-encoded as a bounded JPEG before it is kept.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"motor_rental/internal/validator"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var (
	ErrNoFilename          = errors.New("no filename provided")
	ErrInvalidFilename     = errors.New("invalid filename")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrFileTooLarge        = errors.New("file exceeds maximum upload size")
	ErrPathEscape          = errors.New("path escapes upload directory")
	ErrNotAnImage          = errors.New("file is not a valid image")
	ErrImageTooLarge       = errors.New("image dimensions exceed the pixel limit")
	ErrProcessing          = errors.New("failed to process image")
)

const (
	MaxWidth    = 800
	MaxHeight   = 600
	JPEGQuality = 85

	DefaultMaxPixels = 50_000_000
)

var decodableFormats = map[string]bool{"jpeg": true, "png": true, "gif": true, "webp": true}

// Config configures a Store
type Config struct {
	Dir               string
	AllowedExtensions []string
	MaxSize           int64
	MaxPixels         int64 // decoded width*height; DefaultMaxPixels when zero
}

// Store writes sanitized images into a single flat directory
type Store struct {
	dir       string
	allowed   map[string]bool
	maxSize   int64
	maxPixels int64
	newID     func() string
}

// NewStore creates the upload directory if needed.
func NewStore(cfg Config) (*Store, error) {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	maxPixels := cfg.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	return &Store{
		dir:       dir,
		allowed:   allowed,
		maxSize:   cfg.MaxSize,
		maxPixels: maxPixels,
		newID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}, nil
}

// Dir returns the absolute upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save runs the upload pipeline on a multipart file and returns the stored
// filename.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", ErrNoFilename
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.SaveReader(fh.Filename, fh.Size, src)
}

// SaveReader runs the upload pipeline on r. filename is only used for its
// extension; the stored name is random. Nothing is left on disk on error.
func (s *Store) SaveReader(filename string, size int64, r io.Reader) (string, error) {
	if filename == "" {
		return "", ErrNoFilename
	}
	safe := SecureFilename(filename)
	if !validator.Filename(safe) {
		return "", ErrInvalidFilename
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(safe), "."))
	if ext == "" || !s.allowed[ext] {
		return "", ErrExtensionNotAllowed
	}
	if size > s.maxSize {
		return "", ErrFileTooLarge
	}

	name := s.newID() + "." + ext
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	if err := s.persist(path, r); err != nil {
		os.Remove(path)
		return "", err
	}
	if err := s.verify(path); err != nil {
		os.Remove(path)
		return "", err
	}
	if err := reencode(path); err != nil {
		os.Remove(path)
		return "", err
	}
	return name, nil
}

// Delete removes a stored file. It reports true when no file by that name
// remains, including when it was already gone.
func (s *Store) Delete(name string) bool {
	if name == "" {
		return true
	}
	path, err := s.resolve(filepath.Base(name))
	if err != nil {
		return false
	}
	err = os.Remove(path)
	return err == nil || errors.Is(err, fs.ErrNotExist)
}

// Path resolves a requested name to a file inside the upload directory.
func (s *Store) Path(name string) (string, error) {
	safe := SecureFilename(name)
	if safe == "" || safe != name {
		return "", ErrInvalidFilename
	}
	path, err := s.resolve(safe)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fs.ErrNotExist
	}
	return path, nil
}

func (s *Store) resolve(name string) (string, error) {
	path := filepath.Join(s.dir, name)
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || strings.ContainsRune(rel, filepath.Separator) {
		return "", ErrPathEscape
	}
	return path, nil
}

func (s *Store) persist(path string, r io.Reader) error {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	if n > s.maxSize {
		return ErrFileTooLarge
	}
	return dst.Close()
}

// verify checks the header only, so oversized images are refused before
// anything is decoded.
func (s *Store) verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil || !decodableFormats[format] || cfg.Width <= 0 || cfg.Height <= 0 {
		return ErrNotAnImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > s.maxPixels {
		return ErrImageTooLarge
	}
	return nil
}

// reencode flattens transparency onto white, fits the image inside
// MaxWidth x MaxHeight without upscaling and rewrites it as JPEG.
func reencode(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return ErrNotAnImage
	}

	fitted := imaging.Fit(flatten(img), MaxWidth, MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	return nil
}

func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
