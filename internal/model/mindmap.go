package model

import "time"

// MindMapItem é um mapa mental da galeria. Imutável depois de criado;
// a coleção inteira é persistida como um único valor serializado.
// swagger:model MindMapItem
type MindMapItem struct {
	ID        string    `json:"id"` // timestamp de criação em milissegundos
	Title     string    `json:"title"`
	URL       string    `json:"url"` // data URL ou URL do storage, conforme storage.type
	DateAdded time.Time `json:"dateAdded"`
}
