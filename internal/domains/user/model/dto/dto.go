package dto

import (
	"strings"

	"hallseat/internal/domains/user/model"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	gModel "hallseat/shared/model"
	"hallseat/shared/timezone"

	"github.com/google/uuid"
)

var SortableFields = map[string]string{
	"email":      model.TableName + "." + model.FieldEmail,
	"first_name": model.TableName + "." + model.FieldFirstName,
	"last_name":  model.TableName + "." + model.FieldLastName,
	"role":       model.TableName + "." + model.FieldRole,
	"created_at": model.TableName + "." + constant.FieldCreatedAt,
}

const DefaultSort = model.TableName + "." + constant.FieldCreatedAt

type CreateUserRequest struct {
	Email     string     `json:"email"      validate:"required,email,max=255"`
	Password  string     `json:"password"   validate:"required,min=8,max=72"`
	FirstName string     `json:"first_name" validate:"required,max=100"`
	LastName  string     `json:"last_name"  validate:"required,max=100"`
	Role      model.Role `json:"role"       validate:"required,enum"`
}

func (c *CreateUserRequest) ToModel(hashedPassword string) model.User {
	now := timezone.Now()

	return model.User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Role:      c.Role,
		IsActive:  true,
		Metadata:  gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

type UpdateUserRequest struct {
	FirstName string     `db:"first_name" json:"first_name" validate:"omitempty,max=100"`
	LastName  string     `db:"last_name"  json:"last_name"  validate:"omitempty,max=100"`
	Role      model.Role `db:"role"       json:"role"       validate:"omitempty,enum"`
	IsActive  *bool      `db:"is_active"  json:"is_active"`
}

type UpdateProfileRequest struct {
	FirstName string `db:"first_name" json:"first_name" validate:"omitempty,max=100"`
	LastName  string `db:"last_name"  json:"last_name"  validate:"omitempty,max=100"`
}

type UserFilter struct {
	Search   string
	Role     string
	IsActive *bool
}

func (f UserFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	group.Add(shared.FilterBySearch(f.Search, model.TableName, model.FieldFirstName, model.FieldLastName, model.FieldEmail))

	if f.Role != "" {
		group.Add(gDto.Filter{Field: model.FieldRole, Value: f.Role, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.IsActive != nil {
		group.Add(gDto.Filter{Field: model.FieldIsActive, Value: *f.IsActive, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"`
	IsActive  bool    `json:"is_active"`
	LastLogin *string `json:"last_login"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Email = user.Email
	r.FirstName = user.FirstName
	r.LastName = user.LastName
	r.Role = string(user.Role)
	r.IsActive = user.IsActive

	if user.LastLogin != nil {
		lastLogin := timezone.Format(*user.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(user.Metadata)
}

func NewUsersResponse(users []model.User, totalData, limit int) gDto.ListResponse[UserResponse] {
	res := gDto.ListResponse[UserResponse]{
		Items:     make([]UserResponse, len(users)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, user := range users {
		res.Items[i].FromModel(user)
	}

	return res
}
