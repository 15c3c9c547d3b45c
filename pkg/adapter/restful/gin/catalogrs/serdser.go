package catalogrs

import "github.com/futuremech/fmweb/pkg/core/model"

type partsReq struct {
	Category string `form:"category"`
	Search   string `form:"search" binding:"max=100"`
}

type contactReq struct {
	Name    string `form:"name" json:"name" binding:"required,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Phone   string `form:"phone" json:"phone" binding:"omitempty,max=20"`
	Subject string `form:"subject" json:"subject" binding:"omitempty,max=200"`
	Message string `form:"message" json:"message" binding:"required"`
}

func (r *contactReq) toModel() model.ContactSubmission {
	return model.ContactSubmission{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Subject: r.Subject,
		Message: r.Message,
	}
}
