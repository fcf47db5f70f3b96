package infrastructure

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger encapsule logrus avec la configuration du projet
type Logger struct {
	*logrus.Entry
}

// NewLogger crée un logger configuré par l'environnement
// ENVIRONMENT vide ou "local" = console texte, sinon JSON.
func NewLogger() *Logger {
	base := logrus.New()

	env := os.Getenv("ENVIRONMENT")
	if env == "" || env == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}

	base.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Entry: logrus.NewEntry(base)}
}

// WithComponent attache le nom du composant émetteur
func (l *Logger) WithComponent(name string) *logrus.Entry {
	return l.WithField("component", name)
}

// WithRun attache l'identifiant d'une analyse en cours
func (l *Logger) WithRun(runID string) *logrus.Entry {
	return l.WithField("run_id", runID)
}
