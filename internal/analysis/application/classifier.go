package application

import (
	analysisdomain "bilan/internal/analysis/domain"
)

// classificationRule associe la forme d'un nœud à son prédicat de rattachement
// Table ordonnée : la première règle applicable et satisfaite gagne, le
// produit n'est pas réévalué contre les règles suivantes.
type classificationRule struct {
	name    string
	applies func(g *analysisdomain.Grouping) bool
	matches func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool
}

var classificationRules = []classificationRule{
	{
		name: "keyword-stone-family",
		applies: func(g *analysisdomain.Grouping) bool {
			return g.HasKeywords() && g.HasStone() && g.Family != ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return v.HasAnyKeyword(g.FamilyKeywords) && v.Stone == g.Stone &&
				v.Family == g.Family && v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "keyword-family",
		applies: func(g *analysisdomain.Grouping) bool {
			return g.HasKeywords() && g.Family != ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return v.HasAnyKeyword(g.FamilyKeywords) &&
				v.Family == g.Family && v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "stone",
		applies: func(g *analysisdomain.Grouping) bool {
			return !g.HasKeywords() && g.HasStone() && g.Family != ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return v.Stone == g.Stone &&
				v.Family == g.Family && v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "with-stone",
		applies: func(g *analysisdomain.Grouping) bool {
			return !g.HasKeywords() && g.HasWithStone() && g.WithStoneValue() && g.Family == ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return v.HasStone() && v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "without-stone",
		applies: func(g *analysisdomain.Grouping) bool {
			return !g.HasKeywords() && g.HasWithStone() && !g.WithStoneValue() && g.Family == ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return !v.HasStone() && v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "family-with-stone",
		applies: func(g *analysisdomain.Grouping) bool {
			return !g.HasKeywords() && g.HasWithStone() && g.WithStoneValue() && g.Family != ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return v.HasStone() &&
				v.Family == g.Family && v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "family-without-stone",
		applies: func(g *analysisdomain.Grouping) bool {
			return !g.HasKeywords() && g.HasWithStone() && !g.WithStoneValue() && g.Family != ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return !v.HasStone() &&
				v.Family == g.Family && v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "family",
		applies: func(g *analysisdomain.Grouping) bool {
			return !g.HasKeywords() && !g.HasStone() && !g.HasWithStone() && g.Family != ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return v.Family == g.Family && v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "group",
		applies: func(g *analysisdomain.Grouping) bool {
			return !g.HasKeywords() && !g.HasStone() && !g.HasWithStone() &&
				g.Family == "" && g.Group != ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return v.Group == g.Group && v.Department == g.Department
		},
	},
	{
		name: "department",
		applies: func(g *analysisdomain.Grouping) bool {
			return !g.HasKeywords() && !g.HasStone() && !g.HasWithStone() &&
				g.Family == "" && g.Group == ""
		},
		matches: func(g *analysisdomain.Grouping, v *analysisdomain.VariantAggregate) bool {
			return v.Department == g.Department
		},
	},
}

// Classifier rattache chaque variante à au plus un nœud de taxonomie
type Classifier struct{}

// NewClassifier crée un nouveau classifieur
func NewClassifier() *Classifier {
	return &Classifier{}
}

// MatchRule retourne le nom de la première règle satisfaite, ou false
func (c *Classifier) MatchRule(
	g *analysisdomain.Grouping,
	v *analysisdomain.VariantAggregate,
) (string, bool) {
	for _, rule := range classificationRules {
		if rule.applies(g) && rule.matches(g, v) {
			return rule.name, true
		}
	}
	return "", false
}

// Partition sépare le pool en variantes rattachées au nœud et reliquat,
// en préservant l'ordre d'entrée des deux côtés
func (c *Classifier) Partition(
	g *analysisdomain.Grouping,
	pool []*analysisdomain.VariantAggregate,
) (matched, remaining []*analysisdomain.VariantAggregate) {
	for _, v := range pool {
		if _, ok := c.MatchRule(g, v); ok {
			matched = append(matched, v)
		} else {
			remaining = append(remaining, v)
		}
	}
	return matched, remaining
}
