package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// User is a managed account. Password always holds a bcrypt hash.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	Role      []string
	Phone     []string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput carries the caller supplied fields for a new user.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     []string
	Phone    []string
	Status   string
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
	Role     []string
	Phone    []string
	Status   *string
}

// Apply merges the non-nil fields of the patch onto user.
func (p UserPatch) Apply(user *User) {
	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.Password != nil {
		user.Password = *p.Password
	}
	if p.Role != nil {
		user.Role = p.Role
	}
	if p.Phone != nil {
		user.Phone = p.Phone
	}
	if p.Status != nil {
		user.Status = *p.Status
	}
}

// RoleList decodes either a single role name or an array of role names.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RoleList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("role must be a string or an array of strings")
	}
	if many == nil {
		many = []string{}
	}
	*r = many
	return nil
}
