// Package storage guarda en disco las imágenes subidas de tiendas y
// productos y construye sus URLs públicas bajo /media.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix ruta pública bajo la que se sirve el directorio de medios.
const URLPrefix = "/media"

// MediaStore guarda archivos subidos bajo un directorio raíz local.
type MediaStore struct {
	root string
}

// NewMediaStore crea el store y asegura el directorio raíz.
func NewMediaStore(root string) (*MediaStore, error) {
	if root == "" {
		root = "./media"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de medios: %w", err)
	}
	return &MediaStore{root: root}, nil
}

// Root devuelve el directorio raíz (para montar el estático en Fiber).
func (s *MediaStore) Root() string {
	return s.root
}

// Save escribe el archivo bajo root/subdir con un nombre único y devuelve la
// ruta relativa a guardar en la base de datos.
func (s *MediaStore) Save(file *multipart.FileHeader, subdir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	rel := path.Join(subdir, uuid.New().String()+ext)
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("crear subdirectorio: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("crear archivo: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("escribir archivo: %w", err)
	}
	return rel, nil
}

// URLPath devuelve la URL pública de una ruta relativa, o vacío si no hay
// imagen.
func URLPath(rel string) string {
	if rel == "" {
		return ""
	}
	return URLPrefix + "/" + strings.TrimPrefix(rel, "/")
}
