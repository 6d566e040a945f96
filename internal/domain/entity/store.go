package entity

import "time"

// Store representa una tienda, la entidad raíz del inventario.
// Es dueña exclusiva de sus productos (borrado en cascada en la DB).
type Store struct {
	ID          string
	Name        string
	Address     string
	Phone       string
	Description string
	ImagePath   string // ruta relativa bajo MEDIA_DIR, vacía si no hay imagen
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
