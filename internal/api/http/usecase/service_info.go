package httpUsecase

import (
	"context"
	"fmt"
)

type ServiceInfoUseCase interface {
	Execute(ctx context.Context) string
}

type serviceInfoUseCase struct {
	name    string
	version string
	path    string
}

func NewServiceInfoUseCase(name, version, path string) ServiceInfoUseCase {
	return &serviceInfoUseCase{
		name:    name,
		version: version,
		path:    path,
	}
}

func (u *serviceInfoUseCase) Execute(ctx context.Context) string {
	return fmt.Sprintf("%s %s\n\nThis endpoint is the websocket server for quiz rooms. "+
		"Connect with a websocket client to %s to create or join a room.\n", u.name, u.version, u.path)
}
