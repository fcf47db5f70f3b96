package domain

import (
	"errors"
	"time"
)

// Period représente une fenêtre de reporting bornée incluse
type Period struct {
	start time.Time
	end   time.Time
}

// NewPeriod crée une nouvelle instance de Period avec validation
func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, errors.New("period end cannot precede start")
	}
	return Period{start: start, end: end}, nil
}

// Start retourne la date de début
func (p Period) Start() time.Time {
	return p.start
}

// End retourne la date de fin
func (p Period) End() time.Time {
	return p.end
}

// Contains vérifie si une date tombe dans la période (bornes incluses)
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.start) && !t.After(p.end)
}

// CoversStock vérifie si une date contribue au stock cumulé (date <= fin)
// Le stock est un instantané cumulatif, pas une somme de période.
func (p Period) CoversStock(t time.Time) bool {
	return !t.After(p.end)
}

// PriorYear retourne la même fenêtre calendaire un an plus tôt
// Soustraction calendaire (AddDate), pas un décalage de 365 jours.
func (p Period) PriorYear() Period {
	return Period{
		start: p.start.AddDate(-1, 0, 0),
		end:   p.end.AddDate(-1, 0, 0),
	}
}
