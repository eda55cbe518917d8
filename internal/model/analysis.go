package model

// SlideAnalysis é o laudo estruturado do microscópio virtual para uma
// imagem de lâmina histológica.
// swagger:model SlideAnalysis
type SlideAnalysis struct {
	TissueType  string   `json:"tissueType"`
	Features    []string `json:"features"`
	Diagnosis   string   `json:"diagnosis"`
	Description string   `json:"description"`
}
