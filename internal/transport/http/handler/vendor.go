package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-market/internal/domain"
	"go-course-market/internal/service"
	httpez "go-course-market/internal/transport/http/ez"
)

type VendorHandler struct {
	vendors *service.Vendors
}

func NewVendorHandler(vendors *service.Vendors) *VendorHandler {
	return &VendorHandler{vendors: vendors}
}

type vendorIn struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Description string `json:"description"`
	Mobile      string `json:"mobile"      binding:"omitempty,max=100"`
	Slug        string `json:"slug"        binding:"omitempty,max=100"`
}

func (h *VendorHandler) MountAPI(_, authed *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(authed), httpez.Action[vendorIn, *domain.Vendor]{
		Method: http.MethodPost,
		Path:   "/vendor/",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *vendorIn) (*domain.Vendor, error) {
			return h.vendors.Become(c.Request.Context(), httpez.UserID(c), service.VendorInput{
				Name:        in.Name,
				Description: in.Description,
				Mobile:      in.Mobile,
				Slug:        in.Slug,
			})
		},
	})
}
