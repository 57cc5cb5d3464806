// Package storage guarda las imágenes de producto en disco.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/ventas-api/internal/application/usecase"
)

var _ usecase.ImageStore = (*LocalImageStore)(nil)

// LocalImageStore escribe en dir y publica bajo publicURL (servido como estático por la API).
type LocalImageStore struct {
	dir       string
	publicURL string
}

// NewLocalImageStore crea el directorio si no existe.
func NewLocalImageStore(dir, publicURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de imágenes: %w", err)
	}
	return &LocalImageStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir devuelve el directorio raíz de las imágenes.
func (s *LocalImageStore) Dir() string { return s.dir }

// Save escribe el archivo de forma atómica (temporal + rename) y devuelve publicURL/name.
func (s *LocalImageStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("nombre de imagen inválido: %q", name)
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("crear archivo temporal: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("escribir imagen: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cerrar imagen: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("mover imagen: %w", err)
	}
	return s.publicURL + "/" + name, nil
}

// Remove borra la imagen correspondiente a una URL emitida por Save. URLs ajenas se ignoran.
func (s *LocalImageStore) Remove(_ context.Context, url string) error {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || name != filepath.Base(name) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("borrar imagen: %w", err)
	}
	return nil
}
