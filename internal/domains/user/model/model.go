package model

import (
	"slices"
	"time"

	"hallseat/shared/constant"
	"hallseat/shared/model"
)

const (
	TableName  = "profiles"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldRole      = "role"
	FieldIsActive  = "is_active"
	FieldLastLogin = "last_login"
)

type Role string

func (r Role) IsValid() bool {
	return slices.Contains(constant.Roles, string(r))
}

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Role      Role       `db:"role"`
	IsActive  bool       `db:"is_active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}

func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}

	return u.FirstName + " " + u.LastName
}
