package model

// Topic é um tema de histologia do catálogo fixo. Imutável em runtime.
// swagger:model Topic
type Topic struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

const (
	CategoryBasicTissues = "Tecidos Básicos"
	CategorySystems      = "Sistemas"
)

// Topics é o catálogo completo, na ordem de exibição da interface.
var Topics = []Topic{
	// Tecidos Básicos
	{ID: "epitelial", Title: "Tecido Epitelial", Category: CategoryBasicTissues},
	{ID: "conjuntivo", Title: "Tecido Conjuntivo", Category: CategoryBasicTissues},
	{ID: "adiposo", Title: "Tecido Adiposo", Category: CategoryBasicTissues},
	{ID: "cartilaginoso", Title: "Tecido Cartilaginoso", Category: CategoryBasicTissues},
	{ID: "osseo", Title: "Tecido Ósseo", Category: CategoryBasicTissues},
	{ID: "muscular", Title: "Tecido Muscular", Category: CategoryBasicTissues},
	{ID: "nervoso", Title: "Tecido Nervoso", Category: CategoryBasicTissues},

	// Sistemas
	{ID: "circulatorio", Title: "Sistema Circulatório", Category: CategorySystems},
	{ID: "linfatico", Title: "Órgãos Linfáticos", Category: CategorySystems},
	{ID: "digestorio", Title: "Sistema Digestório", Category: CategorySystems},
	{ID: "glandulas_anexas", Title: "Glândulas Anexas ao Tubo Digestivo", Category: CategorySystems},
	{ID: "respiratorio", Title: "Sistema Respiratório", Category: CategorySystems},
	{ID: "urinario", Title: "Sistema Urinário", Category: CategorySystems},
	{ID: "pele", Title: "Pele e Anexos", Category: CategorySystems},
	{ID: "endocrinas", Title: "Glândulas Endócrinas", Category: CategorySystems},
	{ID: "reprodutor_masc", Title: "Aparelho Reprodutor Masculino", Category: CategorySystems},
	{ID: "reprodutor_fem", Title: "Aparelho Reprodutor Feminino", Category: CategorySystems},
	{ID: "olho", Title: "Histologia do Olho", Category: CategorySystems},
	{ID: "ouvido", Title: "Histologia do Ouvido", Category: CategorySystems},
}

// FindTopic localiza um tema pelo id; devolve nil se não existir.
func FindTopic(id string) *Topic {
	for i := range Topics {
		if Topics[i].ID == id {
			return &Topics[i]
		}
	}
	return nil
}
