package domain

// OtherLabel étiquette du regroupement synthétique des produits non rattachés
const OtherLabel = "Autres"

// Grouping représente un nœud de la taxonomie d'analyse
// Un seul mode de rattachement s'applique par nœud (mots-clés de famille,
// pierre, avec/sans pierre, famille, groupe ou rayon), évalué dans un ordre
// de priorité fixe par le classifieur.
type Grouping struct {
	Label          string
	Department     string
	Group          string
	Family         string
	Stone          string
	FamilyKeywords []string
	WithStone      *bool
	IsOther        bool
	IsDefault      bool
	Children       []*Grouping
}

// NewOtherGrouping crée le nœud synthétique "Autres"
// Tous les champs de taxonomie restent vides : il ramasse le reliquat.
func NewOtherGrouping() *Grouping {
	return &Grouping{
		Label:   OtherLabel,
		IsOther: true,
	}
}

// DefaultGroupings taxonomie d'analyse par défaut du bilan bijouterie
// Un rayon par nœud de tête, déclinaison par groupe puis par présence
// de pierre. Le reliquat de chaque niveau part dans "Autres".
func DefaultGroupings() []*Grouping {
	withStone := true
	withoutStone := false

	return []*Grouping{
		{
			Label:      "Or",
			Department: "OR",
			Children: []*Grouping{
				{Label: "Bagues or", Department: "OR", Group: "BAGUE", Children: []*Grouping{
					{Label: "Solitaires", Department: "OR", Group: "BAGUE", Family: "SOLITAIRE"},
					{Label: "Alliances", Department: "OR", Group: "BAGUE", Family: "ALLIANCE"},
					{Label: "Bagues pierre", Department: "OR", Group: "BAGUE", WithStone: &withStone},
				}},
				{Label: "Colliers or", Department: "OR", Group: "COLLIER", Children: []*Grouping{
					{
						Label: "Chaînes baptême", Department: "OR", Group: "COLLIER",
						Family: "CHAINE", FamilyKeywords: []string{"BAPTEME", "ENFANT"},
					},
					{Label: "Chaînes", Department: "OR", Group: "COLLIER", Family: "CHAINE"},
				}},
				{Label: "Bracelets or", Department: "OR", Group: "BRACELET"},
				{Label: "Boucles or", Department: "OR", Group: "BOUCLES"},
			},
		},
		{
			Label:      "Argent",
			Department: "ARGENT",
			Children: []*Grouping{
				{Label: "Bagues argent", Department: "ARGENT", Group: "BAGUE"},
				{Label: "Bracelets argent", Department: "ARGENT", Group: "BRACELET", Children: []*Grouping{
					{Label: "Bracelets pierre", Department: "ARGENT", Group: "BRACELET", WithStone: &withStone},
					{Label: "Bracelets sans pierre", Department: "ARGENT", Group: "BRACELET", WithStone: &withoutStone},
				}},
				{Label: "Colliers argent", Department: "ARGENT", Group: "COLLIER"},
			},
		},
	}
}

// HasKeywords vérifie si le nœud est rattaché par mots-clés de famille
func (g *Grouping) HasKeywords() bool {
	return len(g.FamilyKeywords) > 0
}

// HasStone vérifie si le nœud est rattaché par pierre
func (g *Grouping) HasStone() bool {
	return g.Stone != ""
}

// HasWithStone vérifie si le nœud est rattaché par présence de pierre
func (g *Grouping) HasWithStone() bool {
	return g.WithStone != nil
}

// WithStoneValue retourne la valeur du flag avec-pierre (false si non posé)
func (g *Grouping) WithStoneValue() bool {
	return g.WithStone != nil && *g.WithStone
}
