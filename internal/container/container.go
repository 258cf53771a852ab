package container

import (
	app "diagno-bot/internal/application"
	"diagno-bot/internal/domain/port"
)

type Container struct {
	UserService      *app.UserService
	DiagnosisService *app.DiagnosisService
}

func New(userRepo port.UserRepository, classifier port.Classifier, preprocessor port.Preprocessor, renderer port.HeatmapRenderer) *Container {
	userService := app.NewUserService(userRepo)
	diagnosisService := app.NewDiagnosisService(classifier, preprocessor, renderer)

	return &Container{
		UserService:      userService,
		DiagnosisService: diagnosisService,
	}
}
