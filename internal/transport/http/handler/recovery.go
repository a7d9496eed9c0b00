package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-course-market/internal/service"
	httpez "go-course-market/internal/transport/http/ez"
)

type RecoveryHandler struct {
	recovery *service.Recovery
	limit    gin.HandlerFunc // 申请重置的单独限流，可为 nil
}

func NewRecoveryHandler(recovery *service.Recovery, limit gin.HandlerFunc) *RecoveryHandler {
	return &RecoveryHandler{recovery: recovery, limit: limit}
}

func (h *RecoveryHandler) Priority() int { return 20 }

type verifyEmailIn struct {
	Email string `uri:"email" binding:"required,email"`
}

type passwordChangeIn struct {
	OTP        string `json:"otp"         binding:"required,numeric"`
	UIDB64     string `json:"uidb64"      binding:"required"`
	ResetToken string `json:"reset_token"`
	Password   string `json:"password"    binding:"required,max=72"`
}

type messageOut struct {
	Message string `json:"message"`
}

func (h *RecoveryHandler) MountAPI(pub, _ *gin.RouterGroup) {
	ezPub := httpez.New(pub)

	var use []gin.HandlerFunc
	if h.limit != nil {
		use = append(use, h.limit)
	}
	// otp / reset_token 只通过邮件下发，不出现在响应里
	httpez.RegisterAction(ezPub, httpez.Action[verifyEmailIn, messageOut]{
		Method: http.MethodGet,
		Path:   "/password-email-verify/:email/",
		Binder: httpez.BindURI,
		Use:    use,
		Handler: func(c *gin.Context, in *verifyEmailIn) (messageOut, error) {
			if _, err := h.recovery.RequestReset(c.Request.Context(), in.Email); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "Password reset email sent"}, nil
		},
	})

	httpez.RegisterAction(ezPub, httpez.Action[passwordChangeIn, messageOut]{
		Method: http.MethodPost,
		Path:   "/password-change/",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *passwordChangeIn) (messageOut, error) {
			uid, err := strconv.ParseUint(in.UIDB64, 10, 64)
			if err != nil || uid == 0 {
				return messageOut{}, httpez.BadRequest("invalid uidb64")
			}
			err = h.recovery.ConfirmReset(c.Request.Context(), service.ConfirmResetInput{
				UID:        uint(uid),
				OTP:        in.OTP,
				ResetToken: in.ResetToken,
				Password:   in.Password,
			})
			if err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "Password Changed Successfully"}, nil
		},
	})
}
