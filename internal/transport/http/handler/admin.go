package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-course-market/internal/domain"
	"go-course-market/internal/service"
	httpez "go-course-market/internal/transport/http/ez"
	resp "go-course-market/internal/transport/http/response"
)

const dateLayout = "2006-01-02"

type AdminHandler struct {
	admin *service.Admin
}

func NewAdminHandler(admin *service.Admin) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type userListQ struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`            // 按 email/full_name/phone 模糊搜
	WithDeleted bool   `form:"with_deleted"` // 是否包含软删
}

type profileListQ struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"`    // 按 full_name/country 模糊搜
	From   string `form:"from"` // 2006-01-02，含
	To     string `form:"to"`   // 2006-01-02，含
}

type idIn struct {
	ID uint `uri:"id" binding:"required"`
}

type activeIn struct {
	Active *bool `json:"active" binding:"required"`
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, httpez.BadRequest("dates must look like " + dateLayout)
	}
	return &t, nil
}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ezAdmin := httpez.New(g)

	// --- 用户列表 ---
	httpez.RegisterAction(ezAdmin, httpez.Action[userListQ, resp.List[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *userListQ) (resp.List[domain.User], error) {
			us, total, err := h.admin.ListUsers(c.Request.Context(), domain.UserQuery{
				Offset: in.Offset, Limit: in.Limit, Search: in.Q, WithDeleted: in.WithDeleted,
			})
			if err != nil {
				return resp.List[domain.User]{}, err
			}
			return resp.NewList(us, total), nil
		},
	})

	// --- 封禁（软删） ---
	httpez.RegisterAction(ezAdmin, httpez.Action[idIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindURI,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *idIn) (gin.H, error) {
			if in.ID == httpez.UserID(c) {
				return nil, httpez.BadRequest("cannot ban yourself")
			}
			if err := h.admin.Ban(c.Request.Context(), in.ID); err != nil {
				return nil, err
			}
			return gin.H{"id": in.ID}, nil
		},
	})

	// --- Profile 列表（日期筛选） ---
	httpez.RegisterAction(ezAdmin, httpez.Action[profileListQ, resp.List[domain.Profile]]{
		Method: http.MethodGet,
		Path:   "/profiles",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *profileListQ) (resp.List[domain.Profile], error) {
			from, err := parseDay(in.From)
			if err != nil {
				return resp.List[domain.Profile]{}, err
			}
			to, err := parseDay(in.To)
			if err != nil {
				return resp.List[domain.Profile]{}, err
			}
			if to != nil {
				end := to.AddDate(0, 0, 1)
				to = &end
			}
			ps, total, err := h.admin.ListProfiles(c.Request.Context(), domain.ProfileQuery{
				Offset: in.Offset, Limit: in.Limit, Search: in.Q, From: from, To: to,
			})
			if err != nil {
				return resp.List[domain.Profile]{}, err
			}
			return resp.NewList(ps, total), nil
		},
	})

	// --- vendor 审核 ---
	httpez.RegisterAction(ezAdmin, httpez.Action[activeIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/vendors/:id/active",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *activeIn) (gin.H, error) {
			var id idIn
			if err := c.ShouldBindUri(&id); err != nil {
				return nil, httpez.BadRequest(err.Error())
			}
			if err := h.admin.SetVendorActive(c.Request.Context(), id.ID, *in.Active); err != nil {
				return nil, err
			}
			return gin.H{"id": id.ID, "active": *in.Active}, nil
		},
	})
}
