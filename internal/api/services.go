package api

import "github.com/inkwellapp/inkwell-server/internal/service"

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Post    *service.PostService
	Tag     *service.TagService
	Social  *service.SocialService
	User    *service.UserService
	Upload  *service.UploadService
	Photo   *service.PhotoService // nil when no Unsplash key is configured
	Search  *service.SearchService
}
