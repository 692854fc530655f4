package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products for browsing.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"size:200"`
	Icon        string    `json:"icon" gorm:"size:50"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DefaultCategories is the catalog seeded on first start.
var DefaultCategories = []Category{
	{Name: "Electrónicos", Description: "Dispositivos electrónicos, computadoras, celulares, etc.", Icon: "laptop"},
	{Name: "Libros", Description: "Libros de texto, novelas, material de estudio", Icon: "book"},
	{Name: "Ropa", Description: "Ropa, calzado y accesorios", Icon: "shirt"},
	{Name: "Comida/Lunches", Description: "Comida casera, snacks y lunches", Icon: "utensils"},
	{Name: "Tutoría/Ayuda para tareas", Description: "Asesorías y ayuda académica", Icon: "graduation-cap"},
	{Name: "Deportes", Description: "Artículos deportivos y equipo", Icon: "futbol"},
	{Name: "Instrumentos musicales", Description: "Instrumentos y accesorios musicales", Icon: "music"},
	{Name: "Material escolar", Description: "Útiles, calculadoras, material de laboratorio", Icon: "pencil"},
	{Name: "Videojuegos", Description: "Consolas, juegos y accesorios", Icon: "gamepad"},
	{Name: "Transporte/Rides", Description: "Aventones y transporte compartido", Icon: "car"},
	{Name: "Eventos/Boletos", Description: "Boletos para eventos, conciertos y fiestas", Icon: "ticket"},
	{Name: "Otros", Description: "Todo lo demás", Icon: "box"},
}
