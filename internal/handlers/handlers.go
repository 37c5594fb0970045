package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/services"
)

type Handlers struct {
	Health     *HealthHandler
	Assessment *AssessmentHandler
}

func New(logger *logrus.Logger, services *services.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(logger, services.Health),
		Assessment: NewAssessmentHandler(services.Assessment, logger),
	}
}
