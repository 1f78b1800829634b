package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hallseat/internal/domains/user/model/dto"
)

func TestUserFilter_ToFilterGroup(t *testing.T) {
	active := true
	group := dto.UserFilter{Search: "Ada", Role: "STUDENT", IsActive: &active}.ToFilterGroup()
	where, args := group.GetWhereClause()

	assert.Equal(t,
		`((LOWER(profiles.first_name) LIKE LOWER(:search_profiles_first_name) ESCAPE '\' OR LOWER(profiles.last_name) LIKE LOWER(:search_profiles_last_name) ESCAPE '\' OR LOWER(profiles.email) LIKE LOWER(:search_profiles_email) ESCAPE '\') AND profiles.role = :profiles_role AND profiles.is_active = :profiles_is_active)`,
		where)
	assert.Equal(t, "%Ada%", args["search_profiles_email"])
	assert.Equal(t, "STUDENT", args["profiles_role"])
	assert.Equal(t, true, args["profiles_is_active"])
}

func TestUserFilter_Empty(t *testing.T) {
	group := dto.UserFilter{}.ToFilterGroup()
	where, _ := group.GetWhereClause()

	assert.Empty(t, where)
}
