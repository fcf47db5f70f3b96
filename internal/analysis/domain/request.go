package domain

import (
	"time"

	shareddomain "bilan/internal/shared/domain"
)

// AnalysisRequest représente les paramètres d'une demande d'analyse
type AnalysisRequest struct {
	Start       time.Time
	End         time.Time
	Departments []string
	StoreIDs    []int64
	SupplierIDs []int64
}

// Period retourne la fenêtre de reporting validée
func (r AnalysisRequest) Period() (shareddomain.Period, error) {
	return shareddomain.NewPeriod(r.Start, r.End)
}

// Progress représente l'avancement fractionnaire d'une analyse
type Progress struct {
	Current int
	Total   int
}

// ProgressFunc reçoit l'avancement après chaque produit traité
// Appels émis en fire-and-forget, aucune réponse attendue ; le moteur ne
// possède aucun transport.
type ProgressFunc func(Progress)
