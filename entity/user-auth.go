package entity

import (
	"net/http"

	"ShopBot/internal/lib/validate"
)

// UserAuth identifies the caller of the HTTP API.
type UserAuth struct {
	Username string `json:"username" bson:"username" validate:"required"`
	Token    string `json:"token" bson:"token" validate:"required,min=1"`
}

func (u *UserAuth) Bind(_ *http.Request) error {
	return validate.Struct(u)
}
