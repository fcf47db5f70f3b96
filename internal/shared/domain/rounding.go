package domain

import "math"

// Round2 arrondit une valeur monétaire à 2 décimales
// L'arrondi s'applique à chaque point d'accumulation, jamais en fin de calcul :
// les totaux de référence dépendent de cet ordre.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage calcule 100 × part / whole sans garde sur le dénominateur
// Un dénominateur nul produit une valeur non finie (NaN ou ±Inf) qui se
// propage telle quelle ; les couches de sérialisation la rendent vide.
func Percentage(part, whole float64) float64 {
	return 100 * part / whole
}

// IsDefined vérifie qu'un pourcentage est exploitable (fini)
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
