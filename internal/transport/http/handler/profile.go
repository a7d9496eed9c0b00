package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-market/internal/domain"
	"go-course-market/internal/service"
	httpez "go-course-market/internal/transport/http/ez"
	mdw "go-course-market/internal/transport/http/middleware"
)

const maxAvatarBytes = 5 << 20

type ProfileHandler struct {
	profiles *service.Profiles
}

func NewProfileHandler(profiles *service.Profiles) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileOut struct {
	*domain.Profile
	ImageURL string `json:"image_url"`
}

func (h *ProfileHandler) out(p *domain.Profile) profileOut {
	return profileOut{Profile: p, ImageURL: h.profiles.ImageURL(p.Image)}
}

type profileIDIn struct {
	UserID uint `uri:"user_id" binding:"required"`
}

type profileUpdateIn struct {
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	About    *string `json:"about"`
	Gender   *string `json:"gender"    binding:"omitempty,max=100"`
	Country  *string `json:"country"   binding:"omitempty,max=100"`
	City     *string `json:"city"      binding:"omitempty,max=100"`
	Address  *string `json:"address"   binding:"omitempty,max=100"`
	State    *string `json:"state"     binding:"omitempty,max=100"`
}

func (h *ProfileHandler) MountAPI(pub, authed *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(pub), httpez.Action[profileIDIn, profileOut]{
		Method: http.MethodGet,
		Path:   "/profile/:user_id/",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *profileIDIn) (profileOut, error) {
			p, err := h.profiles.Get(c.Request.Context(), in.UserID)
			if err != nil {
				return profileOut{}, err
			}
			return h.out(p), nil
		},
	})

	ezAuth := httpez.New(authed)
	httpez.RegisterAction(ezAuth, httpez.Action[profileUpdateIn, profileOut]{
		Method: http.MethodPut,
		Path:   "/me/profile/",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileUpdateIn) (profileOut, error) {
			p, err := h.profiles.Update(c.Request.Context(), httpez.UserID(c), service.ProfileUpdate{
				FullName: in.FullName,
				About:    in.About,
				Gender:   in.Gender,
				Country:  in.Country,
				City:     in.City,
				Address:  in.Address,
				State:    in.State,
			})
			if err != nil {
				return profileOut{}, err
			}
			return h.out(p), nil
		},
	})

	// multipart/form-data，字段名 image
	httpez.RegisterAction(ezAuth, httpez.Action[struct{}, profileOut]{
		Method: http.MethodPost,
		Path:   "/me/avatar/",
		Binder: httpez.BindNone,
		Auth:   true,
		// 表单头部留 64KB 余量
		Use: []gin.HandlerFunc{mdw.MaxBodyBytes(maxAvatarBytes + 64<<10)},
		Handler: func(c *gin.Context, _ *struct{}) (profileOut, error) {
			fh, err := c.FormFile("image")
			if err != nil {
				var tooBig *http.MaxBytesError
				if errors.As(err, &tooBig) {
					return profileOut{}, httpez.TooLarge("image too large")
				}
				return profileOut{}, httpez.BadRequest("image file is required")
			}
			if fh.Size > maxAvatarBytes {
				return profileOut{}, httpez.TooLarge("image too large")
			}
			f, err := fh.Open()
			if err != nil {
				return profileOut{}, httpez.BadRequest("invalid image upload")
			}
			defer f.Close()

			p, err := h.profiles.UploadAvatar(c.Request.Context(), httpez.UserID(c),
				fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
			if err != nil {
				return profileOut{}, err
			}
			return h.out(p), nil
		},
	})
}
