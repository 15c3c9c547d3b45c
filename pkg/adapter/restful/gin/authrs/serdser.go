package authrs

import "github.com/futuremech/fmweb/pkg/core/model"

type loginReq struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

type registerReq struct {
	Username        string `form:"username" json:"username" binding:"required,max=50"`
	Email           string `form:"email" json:"email" binding:"required,email"`
	Phone           string `form:"phone" json:"phone" binding:"omitempty,max=20"`
	Password        string `form:"password" json:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required"`
}

func (r *registerReq) toModel() model.Registration {
	return model.Registration{
		Username:        r.Username,
		Email:           r.Email,
		Phone:           r.Phone,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

type callbackReq struct {
	State string `form:"state" binding:"required"`
	Code  string `form:"code" binding:"required"`
}

type forgotReq struct {
	Email string `form:"email" json:"email" binding:"required"`
}

type resetReq struct {
	Password        string `form:"password" json:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required"`
}
